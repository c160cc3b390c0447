package main

import (
	"context"

	"github.com/soffa-projects/loctool/adapters"
	"github.com/soffa-projects/loctool/config"
	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/formats"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/project"
	"github.com/soffa-projects/loctool/pseudo"
	"github.com/soffa-projects/loctool/store"
	"github.com/soffa-projects/loctool/workflow"
	"go.uber.org/multierr"
)

type runner struct {
	settings  config.Settings
	registry  *formats.Registry
	transform *pseudo.Transformer
	repo      f.ResourceRepository
}

func newRunner(settings config.Settings) (*runner, error) {
	r := &runner{
		settings:  settings,
		registry:  formats.Default(settings.SourceLocale),
		transform: pseudo.Default(),
	}
	if settings.DatabaseURL != "" {
		cnx, err := adapters.NewConnection(settings.DatabaseURL)
		if err != nil {
			return nil, err
		}
		r.repo = adapters.NewResourceRepository(cnx)
	}
	return r, nil
}

func (r *runner) Close() error {
	if r.repo == nil {
		return nil
	}
	return r.repo.Close()
}

func (r *runner) localize(ctx context.Context, root string) error {
	log.Info("searching root: %s", root)
	projects, err := project.Walk(root, r.settings)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		log.Warn("no project found under %s", root)
		return nil
	}
	var errs error
	for _, p := range projects {
		result, err := project.Localize(ctx, p, project.Options{
			Registry:   r.registry,
			Transform:  r.transform.Transform,
			Repository: r.repo,
		})
		log.Info("project %s: %d files written", p.ID, len(result.Written))
		errs = multierr.Append(errs, err)
	}
	return errs
}

// workspace extracts every project under the root directory into one store, together with
// what the repository already holds for them.
func (r *runner) workspace(ctx context.Context) ([]*project.Project, *store.Store, error) {
	projects, err := project.Walk(h.FirstNonEmpty(r.settings.RootDir, "."), r.settings)
	if err != nil {
		return nil, nil, err
	}
	s := store.New(store.WithSourceLocale(r.settings.SourceLocale))
	for _, p := range projects {
		if r.repo != nil {
			loaded, err := r.repo.Load(ctx, p.ID)
			if err != nil {
				return nil, nil, err
			}
			s.AddSet(loaded)
		}
		project.Extract(p, r.registry, s)
	}
	return projects, s, nil
}

// locales are the -l locales, or else every locale the projects declare.
func (r *runner) locales(projects []*project.Project) []string {
	if len(r.settings.Locales) > 0 {
		return r.settings.Locales
	}
	var locales []string
	for _, p := range projects {
		locales = append(locales, p.Locales...)
	}
	return h.UniqStrings(locales)
}

func (r *runner) report(ctx context.Context) error {
	projects, s, err := r.workspace(ctx)
	if err != nil {
		return err
	}
	status := workflow.Status(s, r.locales(projects))
	if len(status) == 0 {
		log.Warn("no target locale to report on")
		return nil
	}
	for _, locale := range h.SortedKeys(status) {
		st := status[locale]
		log.Info("%s: %d of %d strings translated, %d new", locale, st.Translated, st.Total(), st.New)
	}
	return nil
}

func (r *runner) export(ctx context.Context, outFile string) error {
	projects, s, err := r.workspace(ctx)
	if err != nil {
		return err
	}
	locales := r.locales(projects)
	docs, err := workflow.Export(s, workflow.ExportOptions{
		Locales: locales,
		OutFile: outFile,
		OutDir:  r.settings.OutputDir,
		OnlyNew: true,
	})
	if err != nil {
		return err
	}
	return workflow.WriteDocuments(docs...)
}

// importFiles adds the translations of files and rewrites the localized resource files.
func (r *runner) importFiles(ctx context.Context, files []string) error {
	docs, report := workflow.ReadDocuments(files...)
	if len(report.Skipped) > 0 {
		log.Warn("%d unreadable and %d malformed input files skipped", report.Unreadable, report.Malformed)
	}
	if report.Read == 0 {
		log.Warn("no readable input file")
		return nil
	}
	projects, s, err := r.workspace(ctx)
	if err != nil {
		return err
	}
	log.Info("%d translations imported", workflow.Import(s, docs...))

	var errs error
	for _, p := range projects {
		_, err := project.Write(p, r.registry, s)
		errs = multierr.Append(errs, err)
	}
	if r.repo != nil && s.IsDirty() {
		_, err := r.repo.Save(ctx, s)
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (r *runner) split(by string, files []string) error {
	key, err := workflow.ParseSplitKey(by)
	if err != nil {
		return err
	}
	docs, _ := workflow.ReadDocuments(files...)
	return workflow.WriteDocuments(workflow.Split(key, r.settings.OutputDir, docs...)...)
}

func (r *runner) rekey(datatypes []string, files []string) error {
	docs, _ := workflow.ReadDocuments(files...)
	rekeyed, changed := workflow.Rekey(datatypes, docs...)
	log.Info("%d keys changed", changed)
	return workflow.WriteDocuments(rekeyed...)
}

func (r *runner) merge(outFile string, files []string) error {
	docs, _ := workflow.ReadDocuments(files...)
	merged := workflow.Merge(outFile, docs...)
	log.Info("merged %d units into %s", merged.Size(), outFile)
	return workflow.WriteDocument(merged)
}
