package workflow

import (
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"github.com/soffa-projects/loctool/xliff"
)

const (
	StateNew        = "new"
	StateTranslated = "translated"
)

// UnitsForLocale flattens every translatable source record of s into units targeting
// locale, one unit per string slot. Existing translations fill the target side.
func UnitsForLocale(s *store.Store, locale string, onlyNew bool) []xliff.TranslationUnit {
	var units []xliff.TranslationUnit
	for _, r := range s.GetAll() {
		if !r.IsSource() || r.DoNotTranslate || r.Locale == locale {
			continue
		}
		translation, _ := s.Get(r.HashKeyForTranslation(locale), r.Context)
		for _, unit := range unitsForRecord(r, locale, translation) {
			if onlyNew && unit.Target != "" {
				continue
			}
			units = append(units, unit)
		}
	}
	return units
}

func unitsForRecord(r *record.Record, locale string, translation *record.Record) []xliff.TranslationUnit {
	base := xliff.TranslationUnit{
		SourceLocale: r.Locale,
		TargetLocale: locale,
		Key:          r.Key,
		File:         r.PathName,
		Project:      r.Project,
		Datatype:     r.Datatype,
		Comment:      r.Comment,
		ResType:      string(r.Type),
		Context:      r.Context,
	}
	if translation != nil {
		base.State = translation.State
	}
	var units []xliff.TranslationUnit
	switch r.Type {
	case record.TypeArray:
		for i, source := range r.Array {
			unit := base
			unit.Ordinal = i
			unit.Source = source
			if translation != nil && i < len(translation.Array) {
				unit.Target = translation.Array[i]
			}
			units = append(units, withState(unit))
		}
	case record.TypePlural:
		for _, category := range record.PluralCategories(r.Plurals) {
			unit := base
			unit.Quantity = category
			unit.Source = r.Plurals[category]
			if translation != nil {
				unit.Target = translation.Plurals[category]
			}
			units = append(units, withState(unit))
		}
	default:
		unit := base
		unit.Source = r.Text
		if translation != nil {
			unit.Target = translation.Text
		}
		units = append(units, withState(unit))
	}
	return units
}

// withState marks untranslated units as new and translations without a state as
// translated.
func withState(unit xliff.TranslationUnit) xliff.TranslationUnit {
	switch {
	case unit.Target == "":
		unit.State = StateNew
	case unit.State == "":
		unit.State = StateTranslated
	}
	return unit
}

type recordID struct {
	project string
	key     string
	context string
	locale  string
	resType record.Type
}

// RecordsFromUnits rebuilds records from units. Each unit yields its source record and,
// when it carries a translation, a target record. Array and plural slots spread over
// several units are reassembled in first-seen order. Units whose ordinal lies outside
// 0..record.MaxOrdinal are skipped.
func RecordsFromUnits(units []xliff.TranslationUnit) []*record.Record {
	var out []*record.Record
	index := map[recordID]*record.Record{}
	put := func(unit xliff.TranslationUnit, locale, text, origin, state string) {
		resType, _ := record.ParseType(unit.ResType)
		id := recordID{project: unit.Project, key: unit.Key, context: unit.Context, locale: locale, resType: resType}
		r, ok := index[id]
		if !ok {
			r = record.New(record.Props{
				Project:  unit.Project,
				Key:      unit.Key,
				Locale:   locale,
				Context:  unit.Context,
				Type:     resType,
				Origin:   origin,
				Datatype: unit.Datatype,
				Comment:  unit.Comment,
				State:    state,
				PathName: unit.File,
				AutoKey:  unit.Key == record.MakeKey(unit.Source),
			})
			index[id] = r
			out = append(out, r)
		}
		switch resType {
		case record.TypeArray:
			for len(r.Array) <= unit.Ordinal {
				r.Array = append(r.Array, "")
			}
			r.Array[unit.Ordinal] = text
		case record.TypePlural:
			if r.Plurals == nil {
				r.Plurals = map[string]string{}
			}
			r.Plurals[unit.Quantity] = text
		default:
			r.Text = text
		}
	}
	for _, unit := range units {
		if unit.Ordinal < 0 || unit.Ordinal > record.MaxOrdinal {
			log.Warn("skipping unit %s with ordinal %d", unit.Key, unit.Ordinal)
			continue
		}
		put(unit, unit.SourceLocale, unit.Source, record.OriginSource, "")
		if unit.TargetLocale != "" && unit.Target != "" {
			put(unit, unit.TargetLocale, unit.Target, record.OriginTarget, unit.State)
		}
	}
	return out
}
