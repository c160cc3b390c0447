package javaprops

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/magiconair/properties"
	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
	"golang.org/x/text/language"
)

const (
	Datatype     = "java"
	commentLabel = "i18n:"
)

// localeSuffix matches the _<language>[_<REGION>] suffix of a bundle name.
var localeSuffix = regexp.MustCompile(`_([a-z]{2,3})(_([A-Z]{2}|[0-9]{3}))?$`)

// Format reads and writes Java resource bundles, <base>[_<language>[_<REGION>]].properties.
type Format struct{}

func New() *Format {
	return &Format{}
}

func (*Format) Name() string {
	return "java-properties"
}

func (*Format) Extensions() []string {
	return []string{".properties"}
}

func (*Format) Datatype() string {
	return Datatype
}

func (*Format) Handles(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".properties")
}

// LocaleFromPath returns the BCP-47 form of the bundle locale suffix, "" for the base bundle.
func LocaleFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	match := localeSuffix.FindStringSubmatch(base)
	if match == nil {
		return ""
	}
	tag, err := language.Parse(strings.TrimPrefix(strings.ReplaceAll(match[0], "_", "-"), "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}

func (*Format) OutputPath(sourcePath string, locale string) string {
	dir, name := filepath.Split(sourcePath)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if LocaleFromPath(name) != "" {
		base = localeSuffix.ReplaceAllString(base, "")
	}
	return filepath.Join(dir, base+"_"+strings.ReplaceAll(locale, "-", "_")+ext)
}

// Parse reads every key of a bundle as a string record in file order. A "# i18n:" comment
// above a key becomes the translator comment. ${...} references are kept as written.
func (*Format) Parse(ctx f.ParseContext, data []byte) ([]*record.Record, error) {
	locale := h.FirstNonEmpty(ctx.Locale, LocaleFromPath(ctx.PathName), ctx.SourceLocale)
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	bundle, err := loader.LoadBytes(data)
	if err != nil {
		return nil, errors.MalformedDocument(ctx.PathName, err)
	}
	out := make([]*record.Record, 0, bundle.Len())
	for _, key := range bundle.Keys() {
		value, _ := bundle.Get(key)
		out = append(out, record.New(record.Props{
			Project:  ctx.Project,
			Key:      key,
			Locale:   locale,
			Text:     value,
			Comment:  translatorComment(bundle.GetComments(key)),
			Datatype: Datatype,
			PathName: ctx.PathName,
		}))
	}
	return out, nil
}

func translatorComment(comments []string) string {
	for i := len(comments) - 1; i >= 0; i-- {
		if label := strings.TrimSpace(comments[i]); strings.HasPrefix(label, commentLabel) {
			return strings.TrimSpace(strings.TrimPrefix(label, commentLabel))
		}
	}
	return ""
}

// Write emits the string records in order. Arrays and plurals have no bundle form and
// are skipped.
func (*Format) Write(locale string, records []*record.Record) ([]byte, error) {
	bundle := properties.NewProperties()
	bundle.DisableExpansion = true
	for _, r := range records {
		if r.Type != record.TypeString {
			log.Debug("skipping %s record %s, not supported in resource bundles", r.Type, r.Key)
			continue
		}
		if _, _, err := bundle.Set(r.Key, r.Text); err != nil {
			return nil, err
		}
		if r.Comment != "" {
			bundle.SetComments(r.Key, []string{commentLabel + " " + r.Comment})
		}
	}
	var buf bytes.Buffer
	if _, err := bundle.WriteComment(&buf, "# ", properties.UTF8); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
