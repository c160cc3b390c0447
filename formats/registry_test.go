package formats

import (
	"testing"

	"github.com/go-playground/assert/v2"
	"github.com/soffa-projects/loctool/formats/goi18n"
	"github.com/soffa-projects/loctool/formats/iosstrings"
	"github.com/soffa-projects/loctool/formats/javaprops"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry(iosstrings.New(), goi18n.New("en-US"))

	format, ok := registry.ForPath("a/b/Base.lproj/Localizable.STRINGS")
	assert.Equal(t, ok, true)
	assert.Equal(t, format.Name(), "ios-strings")

	format, ok = registry.ForPath("locales/active.de-DE.toml")
	assert.Equal(t, ok, true)
	assert.Equal(t, format.Datatype(), goi18n.Datatype)

	_, ok = registry.ForPath("project.toml")
	assert.Equal(t, ok, false)
	_, ok = registry.ForPath("index.html")
	assert.Equal(t, ok, false)

	assert.Equal(t, registry.Extensions(), []string{".strings", ".toml"})
}

func TestDefault(t *testing.T) {
	registry := Default("en-US")

	_, ok := registry.ForPath("en.lproj/Main.strings")
	assert.Equal(t, ok, true)
	format, ok := registry.ForPath("src/Messages_de_DE.properties")
	assert.Equal(t, ok, true)
	assert.Equal(t, format.Datatype(), javaprops.Datatype)
	assert.Equal(t, registry.Extensions(), []string{".properties", ".strings", ".toml"})
}

func TestRegistry_SkipPseudo(t *testing.T) {
	assert.Equal(t, Default("en-US").SkipPseudo("%@ - %@"), true)
	assert.Equal(t, Default("en-US").SkipPseudo("Hello %@"), false)
	assert.Equal(t, NewRegistry(goi18n.New("en-US")).SkipPseudo("%@ - %@"), false)
}
