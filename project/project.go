package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/soffa-projects/loctool/config"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/h"
)

const (
	TomlFile = "project.toml"
	// JsonFile is the legacy project description.
	JsonFile = "project.json"
)

// Project is a directory tree of resource files that share a project id.
type Project struct {
	ID           string   `toml:"id"`
	Name         string   `toml:"name"`
	ProjectType  string   `toml:"projectType"`
	SourceLocale string   `toml:"sourceLocale"`
	PseudoLocale string   `toml:"pseudoLocale"`
	Locales      []string `toml:"locales"`
	Includes     []string `toml:"includes"`
	Excludes     []string `toml:"excludes"`
	ResourceDir  string   `toml:"resourceDir"`

	root  string
	paths []string
	seen  map[string]bool
}

// Load reads the project description of dir. The boolean is false when dir is not a
// project root.
func Load(dir string) (*Project, bool, error) {
	path := filepath.Join(dir, TomlFile)
	data, err := os.ReadFile(path)
	if err == nil {
		p := &Project{}
		if _, err := toml.Decode(string(data), p); err != nil {
			return nil, true, errors.MalformedDocument(path, err)
		}
		return p.init(dir), true, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, errors.IO(path, err)
	}

	path = filepath.Join(dir, JsonFile)
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.IO(path, err)
	}
	value := h.NewJsonValue(string(data))
	if !value.Valid() {
		return nil, true, errors.MalformedDocument(path, nil)
	}
	p := &Project{
		ID:           value.GetString("id"),
		Name:         value.GetString("name"),
		ProjectType:  value.GetString("projectType"),
		SourceLocale: value.GetString("sourceLocale"),
		PseudoLocale: value.GetString("pseudoLocale"),
		Locales:      value.GetStrings("locales"),
		Includes:     value.GetStrings("includes"),
		Excludes:     value.GetStrings("excludes"),
		ResourceDir:  value.GetString("resourceDir"),
	}
	return p.init(dir), true, nil
}

func (p *Project) init(dir string) *Project {
	p.root = dir
	base := filepath.Base(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		base = filepath.Base(abs)
	}
	p.ID = h.FirstNonEmpty(p.ID, p.Name, base)
	p.Name = h.FirstNonEmpty(p.Name, p.ID)
	p.seen = map[string]bool{}
	return p
}

// Configure fills the locale defaults from settings and canonicalizes every tag. When
// settings restrict the locales, only those are kept.
func (p *Project) Configure(settings config.Settings) error {
	p.SourceLocale = h.FirstNonEmpty(p.SourceLocale, settings.SourceLocale, config.DefaultSourceLocale)
	p.PseudoLocale = h.FirstNonEmpty(p.PseudoLocale, settings.PseudoLocale, config.DefaultPseudoLocale)
	source, err := config.CanonicalLocale(p.SourceLocale)
	if err != nil {
		return err
	}
	p.SourceLocale = source
	locales, err := config.CanonicalLocales(p.Locales)
	if err != nil {
		return err
	}
	switch {
	case len(settings.Locales) == 0:
	case len(locales) == 0:
		locales = settings.Locales
	default:
		var kept []string
		for _, locale := range locales {
			if h.ContainsString(settings.Locales, locale) {
				kept = append(kept, locale)
			}
		}
		locales = kept
	}
	p.Locales = h.Without(h.UniqStrings(locales), p.SourceLocale)
	return nil
}

func (p *Project) Root() string {
	return p.root
}

// Paths lists the collected files relative to the root, slash separated.
func (p *Project) Paths() []string {
	return h.EmptyIfNull(p.paths)
}

// Abs maps a collected path back to the file system.
func (p *Project) Abs(rel string) string {
	return filepath.Join(p.root, filepath.FromSlash(rel))
}

// TargetLocales is every locale outputs are written for, the pseudo locale included.
func (p *Project) TargetLocales() []string {
	return h.Without(h.UniqStrings(append(append([]string{}, p.Locales...), p.PseudoLocale)), p.SourceLocale)
}

func (p *Project) addPath(path string) {
	rel := p.rel(path)
	if p.seen[rel] {
		return
	}
	p.seen[rel] = true
	p.paths = append(p.paths, rel)
}

func (p *Project) rel(path string) string {
	rel, err := filepath.Rel(p.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// included applies the excludes, then lets the includes override them.
func (p *Project) included(path string) bool {
	rel := p.rel(path)
	if h.ContainsString(p.Includes, rel) {
		return true
	}
	return !h.ContainsString(p.Excludes, rel)
}
