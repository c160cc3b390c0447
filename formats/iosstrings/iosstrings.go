package iosstrings

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/pseudo"
	"github.com/soffa-projects/loctool/record"
)

const (
	Datatype     = "x-ios-strings"
	commentLabel = "i18n:"
)

// Format reads and writes Apple .strings files. Keys are Interface Builder object keys
// generated by Xcode, so records are looked up by their source text.
type Format struct{}

func New() *Format {
	return &Format{}
}

func (Format) Name() string {
	return "ios-strings"
}

func (Format) Extensions() []string {
	return []string{".strings"}
}

func (Format) Datatype() string {
	return Datatype
}

func (Format) Handles(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".strings")
}

// LocaleFromPath reads the locale from the enclosing <locale>.lproj directory. Base.lproj
// and paths outside an .lproj directory return "".
func LocaleFromPath(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if !strings.HasSuffix(dir, ".lproj") {
		return ""
	}
	locale := strings.TrimSuffix(dir, ".lproj")
	if locale == "Base" {
		return ""
	}
	return locale
}

func (Format) OutputPath(sourcePath string, locale string) string {
	dir := filepath.Dir(sourcePath)
	if strings.HasSuffix(dir, ".lproj") {
		dir = filepath.Join(filepath.Dir(dir), locale+".lproj")
	} else {
		dir = filepath.Join(dir, locale+".lproj")
	}
	return filepath.Join(dir, filepath.Base(sourcePath))
}

// SkipPseudo keeps text without any letters outside its format verbs, such as "%@ / %@".
func (Format) SkipPseudo(text string) bool {
	return strings.IndexFunc(pseudo.StripPlaceholders(text), unicode.IsLetter) < 0
}

func (Format) Parse(ctx f.ParseContext, data []byte) ([]*record.Record, error) {
	locale := h.FirstNonEmpty(ctx.Locale, LocaleFromPath(ctx.PathName), ctx.SourceLocale)
	p := &parser{input: strings.TrimPrefix(string(data), "\uFEFF"), line: 1}
	var out []*record.Record
	comment := ""
	for {
		p.skipSpace()
		if p.eof() {
			return out, nil
		}
		switch {
		case p.hasPrefix("/*"):
			text, err := p.blockComment()
			if err != nil {
				return nil, p.fail(ctx.PathName, err)
			}
			if label := strings.TrimSpace(text); strings.HasPrefix(label, commentLabel) {
				comment = strings.TrimSpace(strings.TrimPrefix(label, commentLabel))
			}
		case p.hasPrefix("//"):
			p.lineComment()
		case p.peek() == '"':
			key, value, err := p.entry()
			if err != nil {
				return nil, p.fail(ctx.PathName, err)
			}
			out = append(out, record.New(record.Props{
				Project:  ctx.Project,
				Key:      key,
				Locale:   locale,
				Text:     value,
				Comment:  comment,
				Datatype: Datatype,
				PathName: ctx.PathName,
				AutoKey:  true,
			}))
			comment = ""
		default:
			return nil, p.fail(ctx.PathName, fmt.Errorf("unexpected %q", p.peek()))
		}
	}
}

// Write emits the string records in order. Other record types have no .strings form and
// are skipped.
func (Format) Write(locale string, records []*record.Record) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range records {
		if r.Type != record.TypeString {
			log.Debug("skipping %s record %s, not supported in .strings files", r.Type, r.Key)
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		if r.Comment != "" {
			fmt.Fprintf(&buf, "/* %s %s */\n", commentLabel, r.Comment)
		}
		fmt.Fprintf(&buf, "%s = %s;\n", quote(r.Key), quote(r.Text))
	}
	return buf.Bytes(), nil
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

type parser struct {
	input string
	pos   int
	line  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	return p.input[p.pos]
}

func (p *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(p.input[p.pos:], prefix)
}

func (p *parser) advance(n int) {
	p.line += strings.Count(p.input[p.pos:p.pos+n], "\n")
	p.pos += n
}

func (p *parser) skipSpace() {
	for !p.eof() && strings.IndexByte(" \t\n\r\f\v", p.peek()) >= 0 {
		if p.peek() == '\n' {
			p.line++
		}
		p.pos++
	}
}

func (p *parser) blockComment() (string, error) {
	end := strings.Index(p.input[p.pos+2:], "*/")
	if end < 0 {
		return "", fmt.Errorf("unterminated comment")
	}
	text := p.input[p.pos+2 : p.pos+2+end]
	p.advance(end + 4)
	return text, nil
}

func (p *parser) lineComment() {
	end := strings.IndexByte(p.input[p.pos:], '\n')
	if end < 0 {
		p.pos = len(p.input)
		return
	}
	p.advance(end + 1)
}

func (p *parser) entry() (string, string, error) {
	key, err := p.quoted()
	if err != nil {
		return "", "", err
	}
	p.skipSpace()
	if p.eof() || p.peek() != '=' {
		return "", "", fmt.Errorf("expected = after %q", key)
	}
	p.pos++
	p.skipSpace()
	if p.eof() || p.peek() != '"' {
		return "", "", fmt.Errorf("expected value for %q", key)
	}
	value, err := p.quoted()
	if err != nil {
		return "", "", err
	}
	p.skipSpace()
	if p.eof() || p.peek() != ';' {
		return "", "", fmt.Errorf("expected ; after value of %q", key)
	}
	p.pos++
	return key, value, nil
}

func (p *parser) quoted() (string, error) {
	var b strings.Builder
	p.pos++
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '"':
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.input):
			n, err := p.escape(&b)
			if err != nil {
				return "", err
			}
			p.pos += n
		default:
			if c == '\n' {
				p.line++
			}
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string")
}

// escape decodes the escape sequence at p.pos and returns its length.
func (p *parser) escape(b *strings.Builder) (int, error) {
	switch c := p.input[p.pos+1]; c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '"', '\\', '\'':
		b.WriteByte(c)
	case 'U', 'u':
		if p.pos+6 > len(p.input) {
			return 0, fmt.Errorf("short unicode escape")
		}
		code, err := strconv.ParseUint(p.input[p.pos+2:p.pos+6], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bad unicode escape: %w", err)
		}
		b.WriteRune(rune(code))
		return 6, nil
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return 2, nil
}

func (p *parser) fail(path string, err error) error {
	return errors.MalformedDocument(path, fmt.Errorf("line %d: %w", p.line, err))
}
