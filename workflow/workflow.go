package workflow

import (
	"fmt"
	"path/filepath"

	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"github.com/soffa-projects/loctool/xliff"
)

type ExportOptions struct {
	// Locales to export. Empty means every target locale found in the store.
	Locales []string
	// OutFile puts every locale into one document.
	OutFile string
	// OutDir holds the per-locale documents, new-<locale>.xliff.
	OutDir  string
	OnlyNew bool
}

// ExportLocales resolves the locales an export covers.
func ExportLocales(s *store.Store, opts ExportOptions) []string {
	if len(opts.Locales) > 0 {
		return h.UniqStrings(opts.Locales)
	}
	var locales []string
	for _, project := range s.Projects() {
		locales = append(locales, s.TargetLocales(project)...)
	}
	return h.UniqStrings(locales)
}

// UnitsFromStore flattens s for every locale the export covers, locale by locale.
func UnitsFromStore(s *store.Store, opts ExportOptions) []xliff.TranslationUnit {
	var units []xliff.TranslationUnit
	for _, locale := range ExportLocales(s, opts) {
		units = append(units, UnitsForLocale(s, locale, opts.OnlyNew)...)
	}
	return units
}

// Export builds one document per target locale, or a single document when OutFile is set.
func Export(s *store.Store, opts ExportOptions) ([]*xliff.Document, error) {
	locales := ExportLocales(s, opts)
	if len(locales) == 0 {
		return nil, errors.NotFound("no target locales to export")
	}
	if opts.OutFile != "" {
		doc := xliff.New(opts.OutFile)
		doc.AddTranslationUnits(UnitsFromStore(s, opts))
		return []*xliff.Document{doc}, nil
	}
	var docs []*xliff.Document
	for _, locale := range locales {
		units := UnitsForLocale(s, locale, opts.OnlyNew)
		log.Debug("%d units to export for %s", len(units), locale)
		doc := xliff.New(filepath.Join(opts.OutDir, fmt.Sprintf("new-%s.xliff", locale)))
		doc.AddTranslationUnits(units)
		docs = append(docs, doc)
	}
	return docs, nil
}

// Import adds the records of every document to s and returns how many were new. Records
// missing an identity field, such as units without a project, are logged and skipped.
func Import(s *store.Store, docs ...*xliff.Document) int {
	added := 0
	for _, doc := range docs {
		var records []*record.Record
		for _, r := range RecordsFromUnits(doc.TranslationUnits()) {
			if err := r.Validate(); err != nil {
				log.Warn("skipping %s from %s: missing %s", r.Key, doc.Path(), errors.MissingField(err))
				continue
			}
			records = append(records, r)
		}
		n := s.AddAll(records)
		log.Info("%d new resources imported from %s", n, doc.Path())
		added += n
	}
	return added
}

// Merge concatenates the units of docs in order. Duplicates are kept.
func Merge(out string, docs ...*xliff.Document) *xliff.Document {
	merged := xliff.New(out)
	for _, doc := range docs {
		merged.AddTranslationUnits(doc.TranslationUnits())
	}
	return merged
}

type SplitKey string

const (
	SplitLanguage SplitKey = "language"
	SplitProject  SplitKey = "project"
)

func ParseSplitKey(value string) (SplitKey, error) {
	switch SplitKey(value) {
	case SplitLanguage, SplitProject:
		return SplitKey(value), nil
	}
	return "", fmt.Errorf("unknown split type %q, expected language or project", value)
}

func (k SplitKey) of(unit xliff.TranslationUnit) string {
	if k == SplitProject {
		return unit.Project
	}
	return unit.TargetLocale
}

// Split partitions the units of docs into one document per distinct key value, written
// to <outDir>/<value>.xliff. Documents come out in first-seen key order.
func Split(by SplitKey, outDir string, docs ...*xliff.Document) []*xliff.Document {
	var out []*xliff.Document
	index := map[string]*xliff.Document{}
	for _, doc := range docs {
		for _, unit := range doc.TranslationUnits() {
			value := by.of(unit)
			target, ok := index[value]
			if !ok {
				target = xliff.New(filepath.Join(outDir, h.FirstNonEmpty(value, "none")+".xliff"))
				index[value] = target
				out = append(out, target)
			}
			target.AddTranslationUnit(unit)
		}
	}
	return out
}
