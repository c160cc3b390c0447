package main

import (
	"context"
	"testing"

	"github.com/soffa-projects/loctool/config"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/test"
	"github.com/soffa-projects/loctool/workflow"
	"github.com/soffa-projects/loctool/xliff"
)

const projectToml = `
name = "ios"
projectType = "ios"
locales = ["de-DE"]
`

func setup(t *testing.T) (*test.Helper, config.Settings) {
	th := test.New(t)
	th.WriteFiles(map[string]string{
		"project.toml":            projectToml,
		"Base.lproj/Main.strings": "/* i18n: terms button */\n\"a.text\" = \"Terms\";\n",
	})
	settings := config.Settings{
		SourceLocale: config.DefaultSourceLocale,
		PseudoLocale: config.DefaultPseudoLocale,
		LogLevel:     "info",
		RootDir:      th.RootDir,
		OutputDir:    th.FilePath("out"),
	}
	return th, settings
}

func TestRun_ExportImportLocalize(t *testing.T) {
	th, settings := setup(t)
	assert := th.Assert
	ctx := context.Background()

	assert.Nil(run(ctx, []string{"export"}, settings))

	exported, err := workflow.ReadDocument(th.FilePath("out/new-de-DE.xliff"))
	assert.Nil(err)
	assert.Equals(exported.Size(), 1)
	unit := exported.TranslationUnits()[0]
	assert.Equals(unit.Source, "Terms")
	assert.Equals(unit.Comment, "terms button")

	unit.Target = "Bedingungen"
	unit.State = "translated"
	translated := xliff.New(th.FilePath("translated.xliff"))
	translated.AddTranslationUnit(unit)
	assert.Nil(workflow.WriteDocument(translated))

	assert.Nil(run(ctx, []string{"import", translated.Path(), th.FilePath("missing.xliff")}, settings))
	assert.Contains(th.ReadFile("de-DE.lproj/Main.strings"), `"a.text" = "Bedingungen";`)

	assert.Nil(run(ctx, []string{"-l", "de-de", "localize", th.RootDir}, settings))
	assert.Contains(th.ReadFile("zxx-XX.lproj/Main.strings"), `"a.text" = "[`)
	assert.Contains(th.ReadFile("de-DE.lproj/Main.strings"), `"a.text" = "Bedingungen";`)
}

func TestRun_SplitAndMerge(t *testing.T) {
	th, settings := setup(t)
	assert := th.Assert
	ctx := context.Background()
	doc := xliff.New(th.FilePath("in.xliff"))
	doc.AddTranslationUnits([]xliff.TranslationUnit{
		{Key: "a", Source: "A", SourceLocale: "en-US", TargetLocale: "de-DE", Project: "web"},
		{Key: "b", Source: "B", SourceLocale: "en-US", TargetLocale: "fr-FR", Project: "web"},
		{Key: "c", Source: "C", SourceLocale: "en-US", TargetLocale: "de-DE", Project: "ios"},
	})
	assert.Nil(workflow.WriteDocument(doc))

	assert.Nil(run(ctx, []string{"split", "language", doc.Path()}, settings))
	german, err := workflow.ReadDocument(th.FilePath("out/de-DE.xliff"))
	assert.Nil(err)
	assert.Equals(german.Size(), 2)
	french, err := workflow.ReadDocument(th.FilePath("out/fr-FR.xliff"))
	assert.Nil(err)
	assert.Equals(french.Size(), 1)

	merged := th.FilePath("merged.xliff")
	assert.Nil(run(ctx, []string{"merge", merged, german.Path(), french.Path()}, settings))
	result, err := workflow.ReadDocument(merged)
	assert.Nil(err)
	assert.Equals(result.Size(), 3)
}

func TestRun_Report(t *testing.T) {
	_, settings := setup(t)
	assert := test.NewAssertions(t)

	assert.Nil(run(context.Background(), []string{"report"}, settings))
	assert.Nil(run(context.Background(), []string{"-l", "fr-FR,de-DE", "report"}, settings))
}

func TestRun_Rekey(t *testing.T) {
	th, settings := setup(t)
	assert := th.Assert
	doc := xliff.New(th.FilePath("strings.xliff"))
	doc.AddTranslationUnits([]xliff.TranslationUnit{
		{Key: "old", Source: "Symptoms", SourceLocale: "en-US", Project: "shop", Datatype: "java"},
		{Key: "a.text", Source: "Terms", SourceLocale: "en-US", Project: "ios", Datatype: "x-ios-strings"},
	})
	assert.Nil(workflow.WriteDocument(doc))

	assert.Nil(run(context.Background(), []string{"rekey", doc.Path()}, settings))

	rekeyed, err := workflow.ReadDocument(th.FilePath("strings-new.xliff"))
	assert.Nil(err)
	units := rekeyed.TranslationUnits()
	assert.Equals(units[0].Key, record.MakeKey("Symptoms"))
	assert.Equals(units[1].Key, "a.text")
}

func TestRun_UsageErrors(t *testing.T) {
	_, settings := setup(t)
	assert := test.NewAssertions(t)
	ctx := context.Background()

	assert.Error(run(ctx, []string{"import"}, settings))
	assert.Error(run(ctx, []string{"split", "country", "in.xliff"}, settings))
	assert.Error(run(ctx, []string{"merge", "out.xliff"}, settings))
	assert.Error(run(ctx, []string{"rekey"}, settings))
	assert.Error(run(ctx, []string{"-l", "not a locale!", "export"}, settings))
}
