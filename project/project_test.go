package project

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soffa-projects/loctool/config"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/formats"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"github.com/soffa-projects/loctool/test"
)

const iosProject = `
name = "ios"
projectType = "ios"
sourceLocale = "en-US"
locales = ["de-DE"]
excludes = ["vendor"]
includes = ["vendor/keep.strings"]
`

func loadProject(t *testing.T, root string) *Project {
	projects, err := Walk(root, config.Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected one project, got %d", len(projects))
	}
	return projects[0]
}

type repository struct {
	saved *store.Store
	saves int
}

func (r *repository) Save(_ context.Context, s *store.Store) (int, error) {
	r.saves++
	r.saved = s
	s.SetClean()
	return s.Size(), nil
}

func (r *repository) Load(_ context.Context, _ string) (*store.Store, error) {
	if r.saved == nil {
		return store.New(), nil
	}
	return r.saved, nil
}

func (r *repository) Close() error {
	return nil
}

// -----------------------------------------------------------------------------------------------------------------

func TestLoad_Toml(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{TomlFile: iosProject})

	p, ok, err := Load(root)

	assert.Nil(err)
	assert.True(ok)
	assert.Equals(p.ID, "ios")
	assert.Equals(p.Name, "ios")
	assert.Equals(p.ProjectType, "ios")
	assert.Equals(p.Locales, []string{"de-DE"})
	assert.Equals(p.Excludes, []string{"vendor"})
	assert.Equals(p.Root(), root)
}

func TestLoad_Json(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{JsonFile: `{"id": "web", "name": "Web site", "locales": ["fr-FR", "de-DE"], "pseudoLocale": "zxx-XX"}`})

	p, ok, err := Load(root)

	assert.Nil(err)
	assert.True(ok)
	assert.Equals(p.ID, "web")
	assert.Equals(p.Name, "Web site")
	assert.Equals(p.Locales, []string{"fr-FR", "de-DE"})
	assert.Equals(p.PseudoLocale, "zxx-XX")
}

func TestLoad_NotAProject(t *testing.T) {
	assert := test.NewAssertions(t)

	p, ok, err := Load(t.TempDir())

	assert.Nil(err)
	assert.False(ok)
	assert.Nil(p)
}

func TestLoad_Malformed(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{JsonFile: `{"id": `})

	_, ok, err := Load(root)

	assert.True(ok)
	assert.True(errors.IsMalformed(err))
}

func TestConfigure(t *testing.T) {
	assert := test.NewAssertions(t)
	p := (&Project{Locales: []string{"de-de", "fr", "en-US"}}).init("web")

	err := p.Configure(config.Settings{Locales: []string{"de-DE", "it"}})

	assert.Nil(err)
	assert.Equals(p.SourceLocale, config.DefaultSourceLocale)
	assert.Equals(p.PseudoLocale, config.DefaultPseudoLocale)
	assert.Equals(p.Locales, []string{"de-DE"})
	assert.Equals(p.TargetLocales(), []string{"de-DE", "zxx-XX"})

	p = (&Project{SourceLocale: "xx-!!"}).init("web")
	assert.Error(p.Configure(config.Settings{}))
}

// -----------------------------------------------------------------------------------------------------------------

func TestWalk_IncludesAndExcludes(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		TomlFile:                  iosProject,
		"Base.lproj/Main.strings": `"a" = "b";`,
		"vendor/skip.strings":     `"a" = "b";`,
		"vendor/keep.strings":     `"a" = "b";`,
		".git/config.strings":     `"a" = "b";`,
	})

	p := loadProject(t, root)

	assert.Equals(p.Paths(), []string{"vendor/keep.strings", "Base.lproj/Main.strings"})
}

func TestWalk_NestedProjects(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		"README.md":                     "not a project",
		"app/" + JsonFile:               `{"id": "web", "locales": ["de-de", "fr"]}`,
		"app/locales/active.en-US.toml": `hello = "Hello"`,
	})

	projects, err := Walk(root, config.Settings{Locales: []string{"de-DE"}})

	assert.Nil(err)
	assert.Len(projects, 1)
	assert.Equals(projects[0].ID, "web")
	assert.Equals(projects[0].Locales, []string{"de-DE"})
	assert.Equals(projects[0].Paths(), []string{"locales/active.en-US.toml"})
}

func TestWalk_ResourceDir(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		TomlFile:                       "name = \"ios\"\nresourceDir = \"Resources\"\n",
		"Resources/en.lproj/a.strings": `"a" = "A";`,
		"Sources/b.strings":            `"b" = "B";`,
	})

	projects, err := Walk(root, config.Settings{})

	assert.Nil(err)
	assert.Len(projects, 1)
	assert.Equals(projects[0].Paths(), []string{"Resources/en.lproj/a.strings"})
}

func TestWalk_MissingRoot(t *testing.T) {
	assert := test.NewAssertions(t)

	_, err := Walk(filepath.Join(t.TempDir(), "missing"), config.Settings{})

	assert.Error(err)
}

// -----------------------------------------------------------------------------------------------------------------

func TestExtract(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		TomlFile:                   iosProject,
		"Base.lproj/Main.strings":  "\"a.text\" = \"Terms\";\n\"b.text\" = \"Privacy\";\n",
		"de-DE.lproj/Main.strings": "\"a.text\" = \"Bedingungen\";\n",
		"Broken.strings":           "\"a.text\" = ",
	})
	p := loadProject(t, root)
	s := store.New(store.WithSourceLocale(p.SourceLocale))

	added := Extract(p, formats.Default(p.SourceLocale), s)

	assert.Equals(added, 3)
	source, ok := s.GetBySource("Terms", "")
	assert.True(ok)
	assert.Equals(source.Locale, "en-US")
	assert.Equals(source.PathName, "Base.lproj/Main.strings")
	translation, ok := s.Get(source.HashKeyForTranslation("de-DE"), "")
	assert.True(ok)
	assert.Equals(translation.Text, "Bedingungen")
	assert.Equals(translation.Origin, record.OriginTarget)
	assert.Equals(s.TargetLocales("ios"), []string{"de-DE"})
}

func TestLocalize(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		TomlFile:                   iosProject,
		"Base.lproj/Main.strings":  "\"a.text\" = \"Terms\";\n\"b.text\" = \"Privacy\";\n",
		"de-DE.lproj/Main.strings": "\"a.text\" = \"Bedingungen\";\n",
	})
	p := loadProject(t, root)
	repo := &repository{}
	opts := Options{Registry: formats.Default(p.SourceLocale), Transform: strings.ToUpper, Repository: repo}

	result, err := Localize(context.Background(), p, opts)

	assert.Nil(err)
	assert.Equals(result.Extracted, 3)
	assert.Equals(result.Pseudo, 2)
	assert.Equals(result.Saved, 5)
	assert.Equals(repo.saves, 1)
	assert.Equals(result.Written, []string{
		filepath.Join(root, "de-DE.lproj", "Main.strings"),
		filepath.Join(root, "zxx-XX.lproj", "Main.strings"),
	})

	german := th.ReadFile("de-DE.lproj/Main.strings")
	assert.Contains(german, `"a.text" = "Bedingungen";`)
	assert.NotContains(german, `"b.text"`)
	assert.Contains(th.ReadFile("zxx-XX.lproj/Main.strings"), `"a.text" = "TERMS";`)

	// nothing new: the store loaded from the repository stays clean
	result, err = Localize(context.Background(), p, opts)
	assert.Nil(err)
	assert.Equals(result.Extracted, 0)
	assert.Equals(repo.saves, 1)
}

func TestLocalize_PseudoKeepsFormatOnlyText(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		TomlFile:                  iosProject,
		"Base.lproj/Main.strings": "\"a.text\" = \"Terms\";\n\"c.text\" = \"%@ / %@\";\n",
	})
	p := loadProject(t, root)
	brackets := func(text string) string { return "[" + text + "]" }

	result, err := Localize(context.Background(), p, Options{Registry: formats.Default(p.SourceLocale), Transform: brackets})

	assert.Nil(err)
	assert.Equals(result.Pseudo, 2)
	pseudo := th.ReadFile("zxx-XX.lproj/Main.strings")
	assert.Contains(pseudo, `"a.text" = "[Terms]";`)
	assert.Contains(pseudo, `"c.text" = "%@ / %@";`)
}

func TestLocalize_Unwritable(t *testing.T) {
	th := test.New(t)
	assert, root := th.Assert, th.RootDir
	th.WriteFiles(map[string]string{
		TomlFile:                   iosProject,
		"Base.lproj/Main.strings":  "\"a.text\" = \"Terms\";\n",
		"de-DE.lproj/Main.strings": "\"a.text\" = \"Bedingungen\";\n",
		"zxx-XX.lproj":             "a file where a directory is expected",
	})
	p := loadProject(t, root)

	result, err := Localize(context.Background(), p, Options{Registry: formats.Default(p.SourceLocale), Transform: strings.ToUpper})

	assert.Equals(errors.GetCode(err), errors.CodeUnwritable)
	assert.Equals(result.Written, []string{filepath.Join(root, "de-DE.lproj", "Main.strings")})
}
