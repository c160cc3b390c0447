package record

// Transform rewrites one source string into its pseudo-localized form.
type Transform func(text string) string

// GeneratePseudo builds the pseudo-localized translation of r for locale. It returns nil
// when the record is marked do-not-translate or when locale or t is missing.
func (r *Record) GeneratePseudo(locale string, t Transform) *Record {
	if r.DoNotTranslate || locale == "" || t == nil {
		return nil
	}
	p := r.Copy()
	p.Locale = locale
	p.Origin = OriginTarget
	p.State = StateAccepted
	switch r.Type {
	case TypeArray:
		for i, text := range r.Array {
			p.Array[i] = t(text)
		}
	case TypePlural:
		for category, text := range r.Plurals {
			p.Plurals[category] = t(text)
		}
	default:
		p.Text = t(r.Text)
	}
	return p
}
