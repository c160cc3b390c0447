package formats

import (
	"path/filepath"
	"sort"
	"strings"

	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/formats/goi18n"
	"github.com/soffa-projects/loctool/formats/iosstrings"
	"github.com/soffa-projects/loctool/formats/javaprops"
)

// Registry finds the format for a resource file by its extension.
type Registry struct {
	byExtension map[string]f.Format
}

func NewRegistry(formats ...f.Format) *Registry {
	r := &Registry{byExtension: map[string]f.Format{}}
	for _, format := range formats {
		r.Register(format)
	}
	return r
}

// Default registers every built-in format.
func Default(sourceLocale string) *Registry {
	return NewRegistry(iosstrings.New(), goi18n.New(sourceLocale), javaprops.New())
}

// Register adds format under each of its extensions, replacing earlier registrations.
func (r *Registry) Register(format f.Format) {
	for _, ext := range format.Extensions() {
		r.byExtension[strings.ToLower(ext)] = format
	}
}

func (r *Registry) ForPath(path string) (f.Format, bool) {
	format, ok := r.byExtension[strings.ToLower(filepath.Ext(path))]
	if !ok || !format.Handles(path) {
		return nil, false
	}
	return format, true
}

// SkipPseudo reports whether any registered format keeps text out of the pseudo locale.
func (r *Registry) SkipPseudo(text string) bool {
	for _, format := range r.byExtension {
		if skipper, ok := format.(f.PseudoSkipper); ok && skipper.SkipPseudo(text) {
			return true
		}
	}
	return false
}

func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
