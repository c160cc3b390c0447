package core

import (
	"github.com/soffa-projects/loctool/record"
)

// ParseContext describes the file a parser is reading.
type ParseContext struct {
	Project      string
	PathName     string
	Locale       string
	// SourceLocale is used when neither Locale nor the path name a locale.
	SourceLocale string
}

type Parser interface {
	Name() string
	// Handles reports whether the parser reads files at path.
	Handles(path string) bool
	Parse(ctx ParseContext, data []byte) ([]*record.Record, error)
}

type Writer interface {
	Write(locale string, records []*record.Record) ([]byte, error)
	// OutputPath maps a source file to the file holding its translation into locale.
	OutputPath(sourcePath string, locale string) string
}

// PseudoSkipper is implemented by formats whose files hold text that is already final and
// must stay unchanged in the pseudo locale.
type PseudoSkipper interface {
	SkipPseudo(text string) bool
}

// Format reads and writes one resource file type.
type Format interface {
	Parser
	Writer
	Extensions() []string
	Datatype() string
}
