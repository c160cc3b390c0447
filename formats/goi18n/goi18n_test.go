package goi18n

import (
	"path/filepath"
	"testing"

	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/test"
)

const messages = `
hello = "Hello"

[welcome]
description = "Shown on the home page"
other = "Welcome {{.Name}}"

[items]
one = "{{.Count}} item"
other = "{{.Count}} items"
`

func TestParse(t *testing.T) {
	assert := test.NewAssertions(t)

	records, err := New("en-US").Parse(f.ParseContext{Project: "web", PathName: "locales/active.en-US.toml"}, []byte(messages))

	assert.Nil(err)
	assert.Len(records, 3)
	byKey := map[string]*record.Record{}
	for _, r := range records {
		byKey[r.Key] = r
		assert.Equals(r.Locale, "en-US")
		assert.Equals(r.Datatype, Datatype)
		assert.Equals(r.Project, "web")
	}
	assert.Equals(byKey["hello"].Text, "Hello")
	assert.Equals(byKey["welcome"].Type, record.TypeString)
	assert.Equals(byKey["welcome"].Comment, "Shown on the home page")
	assert.Equals(byKey["items"].Type, record.TypePlural)
	assert.Equals(byKey["items"].Plurals, map[string]string{"one": "{{.Count}} item", "other": "{{.Count}} items"})
}

func TestParse_Malformed(t *testing.T) {
	assert := test.NewAssertions(t)

	_, err := New("en").Parse(f.ParseContext{Project: "web", PathName: "active.en.toml"}, []byte("hello = "))

	assert.True(errors.IsMalformed(err))
}

func TestWrite(t *testing.T) {
	assert := test.NewAssertions(t)
	format := New("en-US")
	records := []*record.Record{
		record.New(record.Props{Project: "web", Key: "hello", Locale: "de-DE", Text: "Hallo", Comment: "greeting"}),
		record.New(record.Props{Project: "web", Key: "items", Locale: "de-DE", Plurals: map[string]string{"one": "1 Artikel", "other": "{{.Count}} Artikel"}}),
		record.New(record.Props{Project: "web", Key: "planets", Locale: "de-DE", Array: []string{"Merkur"}}),
	}

	data, err := format.Write("de-DE", records)
	assert.Nil(err)

	parsed, err := format.Parse(f.ParseContext{Project: "web", PathName: "active.de-DE.toml"}, data)
	assert.Nil(err)
	assert.Len(parsed, 2)
	for _, r := range parsed {
		switch r.Key {
		case "hello":
			assert.Equals(r.Text, "Hallo")
			assert.Equals(r.Comment, "greeting")
		case "items":
			assert.Equals(r.Plurals["one"], "1 Artikel")
		default:
			t.Fatalf("unexpected key %s", r.Key)
		}
	}
}

func TestPaths(t *testing.T) {
	assert := test.NewAssertions(t)
	format := New("")

	assert.Equals(format.SourceLocale, record.DefaultLocale)
	assert.True(format.Handles("locales/active.en.toml"))
	assert.True(format.Handles("de-DE.toml"))
	assert.False(format.Handles("project.toml"))
	assert.False(format.Handles("active.en.json"))
	assert.Equals(LocaleFromPath("locales/active.fr-FR.toml"), "fr-FR")
	assert.Equals(format.OutputPath(filepath.Join("locales", "active.en.toml"), "de-DE"), filepath.Join("locales", "active.de-DE.toml"))
	assert.Equals(format.OutputPath("en.toml", "fr"), "fr.toml")
	assert.Equals(format.OutputPath("messages.toml", "fr"), "messages.fr.toml")
}
