package workflow

import (
	"path/filepath"
	"strings"

	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"github.com/soffa-projects/loctool/xliff"
)

// LocaleStatus counts the translatable string slots of one target locale.
type LocaleStatus struct {
	Translated int
	New        int
}

func (s LocaleStatus) Total() int {
	return s.Translated + s.New
}

// Status counts, for every locale, how many source string slots already have a
// translation. Do-not-translate records are not counted.
func Status(s *store.Store, locales []string) map[string]LocaleStatus {
	sources := s.GetBy(store.Criteria{Origin: h.StrPtr(record.OriginSource)})
	out := make(map[string]LocaleStatus, len(locales))
	for _, locale := range locales {
		var status LocaleStatus
		for _, r := range sources {
			if r.DoNotTranslate || r.Locale == locale {
				continue
			}
			translation, _ := s.Get(r.HashKeyForTranslation(locale), r.Context)
			for _, unit := range unitsForRecord(r, locale, translation) {
				if unit.Target == "" {
					status.New++
				} else {
					status.Translated++
				}
			}
		}
		out[locale] = status
	}
	return out
}

// Rekey copies each document to <name>-new<ext>, replacing the key of every unit whose
// datatype is listed by the hash of its source text. It returns the copies and how many
// keys changed.
func Rekey(datatypes []string, docs ...*xliff.Document) ([]*xliff.Document, int) {
	var out []*xliff.Document
	changed := 0
	for _, doc := range docs {
		ext := filepath.Ext(doc.Path())
		rekeyed := xliff.New(strings.TrimSuffix(doc.Path(), ext) + "-new" + ext)
		for _, unit := range doc.TranslationUnits() {
			if h.ContainsString(datatypes, unit.Datatype) && unit.Source != "" {
				if key := record.MakeKey(unit.Source); key != unit.Key {
					log.Info("file: %s key: %s -> %s", unit.File, unit.Key, key)
					unit.Key = key
					changed++
				}
			}
			rekeyed.AddTranslationUnit(unit)
		}
		out = append(out, rekeyed)
	}
	return out, changed
}
