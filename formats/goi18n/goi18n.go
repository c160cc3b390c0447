package goi18n

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
	"golang.org/x/text/language"
)

const Datatype = "x-go-i18n"

var localeSegment = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]{2,8})*$`)

// Format reads and writes go-i18n TOML message files named <prefix>.<locale>.toml.
type Format struct {
	// SourceLocale is the default language of the bundle used for parsing.
	SourceLocale string
}

func New(sourceLocale string) *Format {
	return &Format{SourceLocale: h.FirstNonEmpty(sourceLocale, record.DefaultLocale)}
}

func (*Format) Name() string {
	return "go-i18n"
}

func (*Format) Extensions() []string {
	return []string{".toml"}
}

func (*Format) Datatype() string {
	return Datatype
}

// Handles accepts only TOML files whose name carries a locale, e.g. active.en.toml.
func (*Format) Handles(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml") && LocaleFromPath(path) != ""
}

// LocaleFromPath returns the locale segment of a message file name.
func LocaleFromPath(path string) string {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) < 2 {
		return ""
	}
	candidate := parts[len(parts)-2]
	if len(parts) == 2 {
		candidate = parts[0]
	}
	if !localeSegment.MatchString(candidate) {
		return ""
	}
	if _, err := language.Parse(candidate); err != nil {
		return ""
	}
	return candidate
}

func (*Format) OutputPath(sourcePath string, locale string) string {
	dir, base := filepath.Split(sourcePath)
	parts := strings.Split(base, ".")
	switch {
	case len(parts) >= 3:
		parts[len(parts)-2] = locale
	case len(parts) == 2 && LocaleFromPath(base) != "":
		parts[0] = locale
	default:
		parts = append(parts[:len(parts)-1], locale, parts[len(parts)-1])
	}
	return filepath.Join(dir, strings.Join(parts, "."))
}

func (fm *Format) newBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.Make(fm.SourceLocale))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return bundle
}

// Parse reads one message file. Messages with only an "other" form become string
// records, the rest plural records.
func (fm *Format) Parse(ctx f.ParseContext, data []byte) ([]*record.Record, error) {
	locale := h.FirstNonEmpty(ctx.Locale, LocaleFromPath(ctx.PathName), ctx.SourceLocale, fm.SourceLocale)
	file, err := fm.newBundle().ParseMessageFileBytes(data, fmt.Sprintf("active.%s.toml", locale))
	if err != nil {
		return nil, errors.MalformedDocument(ctx.PathName, err)
	}
	out := make([]*record.Record, 0, len(file.Messages))
	for _, message := range file.Messages {
		props := record.Props{
			Project:  ctx.Project,
			Key:      message.ID,
			Locale:   locale,
			Comment:  message.Description,
			Datatype: Datatype,
			PathName: ctx.PathName,
		}
		plurals := pluralForms(message)
		if len(plurals) == 1 && message.Other != "" {
			props.Type = record.TypeString
			props.Text = message.Other
		} else {
			props.Type = record.TypePlural
			props.Plurals = plurals
		}
		out = append(out, record.New(props))
	}
	return out, nil
}

func pluralForms(m *i18n.Message) map[string]string {
	forms := map[string]string{}
	for category, text := range map[string]string{
		"zero": m.Zero, "one": m.One, "two": m.Two, "few": m.Few, "many": m.Many, "other": m.Other,
	} {
		if text != "" {
			forms[category] = text
		}
	}
	return forms
}

// Write encodes string and plural records as a TOML message file. Arrays have no
// go-i18n form and are skipped.
func (*Format) Write(locale string, records []*record.Record) ([]byte, error) {
	messages := map[string]any{}
	for _, r := range records {
		entry := map[string]string{}
		switch r.Type {
		case record.TypeString:
			entry["other"] = r.Text
		case record.TypePlural:
			for category, text := range r.Plurals {
				entry[category] = text
			}
		default:
			log.Debug("skipping %s record %s, not supported by go-i18n", r.Type, r.Key)
			continue
		}
		if r.Comment != "" {
			entry["description"] = r.Comment
		}
		messages[r.Key] = entry
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(messages); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
