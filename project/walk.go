package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/soffa-projects/loctool/config"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
)

type walker struct {
	settings config.Settings
	projects []*Project
}

// Walk searches root for project directories and collects the files of each project.
// Files outside of any project are ignored. A project with a resource directory is only
// scanned below it.
func Walk(root string, settings config.Settings) ([]*Project, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	w := &walker{settings: settings}
	if err := w.walk(root, nil); err != nil {
		return nil, err
	}
	return w.projects, nil
}

func (w *walker) walk(dir string, p *Project) error {
	log.Debug("searching %s", dir)
	if p == nil {
		loaded, ok, err := Load(dir)
		if err != nil {
			return err
		}
		if ok {
			if err := loaded.Configure(w.settings); err != nil {
				return err
			}
			log.Info("project %q, type: %s", loaded.Name, loaded.ProjectType)
			w.projects = append(w.projects, loaded)
			p = loaded
			if err := w.includes(p); err != nil {
				return err
			}
			if p.ResourceDir != "" {
				return w.walk(p.Abs(p.ResourceDir), p)
			}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("could not read directory %s: %v", dir, err)
		return nil
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if p == nil {
			if entry.IsDir() {
				if err := w.walk(path, nil); err != nil {
					return err
				}
			}
			continue
		}
		if !p.included(path) || w.skipped(p, path, entry) {
			log.Debug("excluded %s", path)
			continue
		}
		if entry.IsDir() {
			if err := w.walk(path, p); err != nil {
				return err
			}
		} else {
			p.addPath(path)
		}
	}
	return nil
}

// includes adds the explicitly included paths, which may lie outside the walked tree.
func (w *walker) includes(p *Project) error {
	for _, include := range p.Includes {
		path := p.Abs(include)
		stat, err := os.Stat(path)
		if err != nil {
			log.Warn("could not access included path %s: %v", path, err)
			continue
		}
		if stat.IsDir() {
			if err := w.walk(path, p); err != nil {
				return err
			}
		} else {
			p.addPath(path)
		}
	}
	return nil
}

// skipped drops the project description itself and hidden directories that were not
// explicitly included.
func (w *walker) skipped(p *Project, path string, entry os.DirEntry) bool {
	if rel := p.rel(path); rel == TomlFile || rel == JsonFile {
		return true
	}
	return entry.IsDir() && strings.HasPrefix(entry.Name(), ".") && !h.ContainsString(p.Includes, p.rel(path))
}
