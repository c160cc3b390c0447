package record

import (
	"maps"
	"slices"
	"sort"

	"github.com/soffa-projects/loctool/h"
)

type Type string

const (
	TypeString Type = "string"
	TypeArray  Type = "array"
	TypePlural Type = "plural"
)

const (
	DefaultLocale   = "en-US"
	DefaultDatatype = "plaintext"
	OriginSource    = "source"
	OriginTarget    = "target"
	StateAccepted   = "accepted"

	// MaxOrdinal bounds the index of an array item.
	MaxOrdinal = 9999
)

// Tag is the prefix used in hash keys.
func (t Type) Tag() string {
	switch t {
	case TypeArray:
		return "ra"
	case TypePlural:
		return "rp"
	default:
		return "rs"
	}
}

func (t Type) Valid() bool {
	return t == TypeString || t == TypeArray || t == TypePlural
}

func ParseType(value string) (Type, bool) {
	t := Type(value)
	if t.Valid() {
		return t, true
	}
	return TypeString, false
}

// pluralOrder is the CLDR category order.
var pluralOrder = []string{"zero", "one", "two", "few", "many", "other"}

// Record is one localizable resource in one locale. Exactly one of Text, Array or Plurals
// carries the content, as selected by Type.
type Record struct {
	Project        string            `mapstructure:"project" validate:"required"`
	Key            string            `mapstructure:"key" validate:"required"`
	Locale         string            `mapstructure:"locale" validate:"required"`
	Context        string            `mapstructure:"context"`
	Type           Type              `mapstructure:"resType" validate:"required,oneof=string array plural"`
	Text           string            `mapstructure:"source"`
	Array          []string          `mapstructure:"array"`
	Plurals        map[string]string `mapstructure:"plurals"`
	Origin         string            `mapstructure:"origin"`
	Datatype       string            `mapstructure:"datatype"`
	Comment        string            `mapstructure:"comment"`
	State          string            `mapstructure:"state"`
	AutoKey        bool              `mapstructure:"autoKey"`
	DoNotTranslate bool              `mapstructure:"dnt"`
	PathName       string            `mapstructure:"pathName"`
}

// Props is the property set a Record is built from. Every field is optional.
type Props Record

// New builds a record, filling in the locale, origin and datatype defaults. The type is
// inferred from the content unless given. A string record with text but no key gets an
// auto-generated key.
func New(p Props) *Record {
	r := Record(p)
	r.Array = slices.Clone(p.Array)
	r.Plurals = maps.Clone(p.Plurals)
	if r.Type == "" {
		switch {
		case len(r.Plurals) > 0:
			r.Type = TypePlural
		case r.Array != nil:
			r.Type = TypeArray
		default:
			r.Type = TypeString
		}
	}
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
	if r.Origin == "" {
		r.Origin = OriginSource
	}
	if r.Datatype == "" {
		r.Datatype = DefaultDatatype
	}
	if r.Key == "" && r.Type == TypeString && r.Text != "" {
		r.Key = MakeKey(r.Text)
		r.AutoKey = true
	}
	return &r
}

func NewString(project, locale, key, text string) *Record {
	return New(Props{Project: project, Locale: locale, Key: key, Text: text})
}

// FromMap builds a record from a generic property map, e.g. {"project": "foo", "key": "asdf",
// "source": "This is a test"}. The content may also be given as "text".
func FromMap(props map[string]any) (*Record, error) {
	var p Props
	if err := h.DecodeMap(contentAlias(props), &p); err != nil {
		return nil, err
	}
	return New(p), nil
}

// Size is the number of string slots: 1 for a string, the array length, or the number
// of plural categories.
func (r *Record) Size() int {
	switch r.Type {
	case TypeArray:
		return len(r.Array)
	case TypePlural:
		return len(r.Plurals)
	default:
		return 1
	}
}

// Strings lists every string slot in slot order.
func (r *Record) Strings() []string {
	switch r.Type {
	case TypeArray:
		return slices.Clone(r.Array)
	case TypePlural:
		out := make([]string, 0, len(r.Plurals))
		for _, category := range PluralCategories(r.Plurals) {
			out = append(out, r.Plurals[category])
		}
		return out
	default:
		return []string{r.Text}
	}
}

// PluralCategories returns the categories present in CLDR order, unknown ones sorted last.
func PluralCategories(plurals map[string]string) []string {
	out := make([]string, 0, len(plurals))
	for _, category := range pluralOrder {
		if _, ok := plurals[category]; ok {
			out = append(out, category)
		}
	}
	var extra []string
	for category := range plurals {
		if !slices.Contains(pluralOrder, category) {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Equals reports whether both records are the same resource in the same locale with the
// same content.
func (r *Record) Equals(other *Record) bool {
	if other == nil || !r.SameUnit(other) {
		return false
	}
	switch r.Type {
	case TypeArray:
		return slices.Equal(r.Array, other.Array)
	case TypePlural:
		return maps.Equal(r.Plurals, other.Plurals)
	default:
		return r.Text == other.Text
	}
}

// Same reports whether both records describe the same resource, in any locale.
func (r *Record) Same(other *Record) bool {
	return other != nil &&
		r.Project == other.Project &&
		r.Context == other.Context &&
		r.Key == other.Key &&
		r.Type == other.Type
}

// SameUnit is Same restricted to one locale.
func (r *Record) SameUnit(other *Record) bool {
	return r.Same(other) && r.Locale == other.Locale
}

// Copy returns a deep copy.
func (r *Record) Copy() *Record {
	c := *r
	c.Array = slices.Clone(r.Array)
	c.Plurals = maps.Clone(r.Plurals)
	return &c
}

// Clone deep-copies the record and applies overrides keyed like FromMap. The receiver is
// never modified.
func (r *Record) Clone(overrides map[string]any) (*Record, error) {
	c := r.Copy()
	if len(overrides) == 0 {
		return c, nil
	}
	if err := h.DecodeMap(contentAlias(overrides), c); err != nil {
		return nil, err
	}
	return c, nil
}

// contentAlias maps the "text" property onto "source" without touching props.
func contentAlias(props map[string]any) map[string]any {
	text, ok := props["text"]
	if !ok {
		return props
	}
	out := h.CopyMap(props)
	delete(out, "text")
	if _, exists := out["source"]; !exists {
		out["source"] = text
	}
	return out
}

func (r *Record) IsSource() bool {
	return r.Origin != OriginTarget
}
