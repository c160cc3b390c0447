package project

import (
	"context"
	"os"
	"path/filepath"

	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/formats"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/pseudo"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"go.uber.org/multierr"
)

// Extract parses every collected file of p into s and returns how many records were
// added. Unreadable or malformed files and invalid records are logged and skipped.
// Records in a locale other than the source locale are translations.
func Extract(p *Project, registry *formats.Registry, s *store.Store) int {
	added := 0
	for _, rel := range p.Paths() {
		format, ok := registry.ForPath(rel)
		if !ok {
			log.Debug("no format for %s", rel)
			continue
		}
		data, err := os.ReadFile(p.Abs(rel))
		if err != nil {
			log.Warn("%v", errors.IO(rel, err))
			continue
		}
		records, err := format.Parse(f.ParseContext{
			Project:      p.ID,
			PathName:     rel,
			SourceLocale: p.SourceLocale,
		}, data)
		if err != nil {
			log.Warn("%v", err)
			continue
		}
		var valid []*record.Record
		for _, r := range records {
			if err := r.Validate(); err != nil {
				log.Warn("%s: skipping %s, missing %s", rel, r.Key, errors.MissingField(err))
				continue
			}
			if r.Locale != p.SourceLocale {
				r.Origin = record.OriginTarget
			}
			valid = append(valid, r)
		}
		n := s.AddAll(valid)
		log.Debug("%s: %d records", rel, n)
		added += n
	}
	return added
}

type Options struct {
	Registry *formats.Registry
	// Transform generates the pseudo locale. No pseudo records are made when nil.
	Transform record.Transform
	// Repository, when set, is loaded before extraction and saved afterwards if new
	// records were found.
	Repository f.ResourceRepository
}

type Result struct {
	Extracted int
	Pseudo    int
	Saved     int
	Written   []string
}

// Localize extracts the resources of p, generates the pseudo locale and writes one
// output per source file and target locale.
func Localize(ctx context.Context, p *Project, opts Options) (Result, error) {
	var result Result
	s := store.New(store.WithSourceLocale(p.SourceLocale))
	if opts.Repository != nil {
		loaded, err := opts.Repository.Load(ctx, p.ID)
		if err != nil {
			return result, err
		}
		s.AddSet(loaded)
		s.SetClean()
	}

	result.Extracted = Extract(p, opts.Registry, s)
	if opts.Transform != nil {
		transform := pseudo.Skipping(opts.Transform, opts.Registry.SkipPseudo)
		result.Pseudo = s.GeneratePseudo(p.PseudoLocale, transform)
	}
	log.Info("project %s: %d records extracted, %d pseudo records", p.ID, result.Extracted, result.Pseudo)

	written, err := Write(p, opts.Registry, s)
	result.Written = written

	if opts.Repository != nil && s.IsDirty() {
		saved, saveErr := opts.Repository.Save(ctx, s)
		if saveErr != nil {
			return result, multierr.Append(err, saveErr)
		}
		result.Saved = saved
	}
	return result, err
}

// Write renders the source files of p into every target locale. Untranslated entries
// are left out so the runtime falls back to the source. A failed output does not stop
// the others.
func Write(p *Project, registry *formats.Registry, s *store.Store) ([]string, error) {
	var (
		written []string
		errs    error
	)
	files, order := sourceFiles(p, s)
	for _, rel := range order {
		format, ok := registry.ForPath(rel)
		if !ok {
			continue
		}
		for _, locale := range p.TargetLocales() {
			var records []*record.Record
			for _, source := range files[rel] {
				if r, ok := s.Get(source.HashKeyForTranslation(locale), source.Context); ok {
					records = append(records, r)
				}
			}
			if len(records) == 0 {
				log.Debug("%s: nothing translated into %s", rel, locale)
				continue
			}
			data, err := format.Write(locale, records)
			if err != nil {
				errs = multierr.Append(errs, errors.Unwritable(rel, err))
				continue
			}
			out := format.OutputPath(p.Abs(rel), locale)
			if err := writeFile(out, data); err != nil {
				log.Error("%v", err)
				errs = multierr.Append(errs, err)
				continue
			}
			written = append(written, out)
		}
	}
	return written, errs
}

func sourceFiles(p *Project, s *store.Store) (map[string][]*record.Record, []string) {
	files := map[string][]*record.Record{}
	var order []string
	for _, r := range s.GetAll() {
		if r.Project != p.ID || !r.IsSource() || r.Locale != p.SourceLocale || r.PathName == "" {
			continue
		}
		if _, ok := files[r.PathName]; !ok {
			order = append(order, r.PathName)
		}
		files[r.PathName] = append(files[r.PathName], r)
	}
	return files, order
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Unwritable(path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Unwritable(path, err)
	}
	return nil
}
