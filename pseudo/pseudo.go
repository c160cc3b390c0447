package pseudo

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/record"
)

const (
	DefaultExpansion = 0.3
	padding          = "0123456789"
)

// placeholders are copied verbatim: printf verbs, positional verbs, iOS %@, Ruby %{name},
// brace placeholders, markup tags and entities.
var placeholders = regexp.MustCompile(
	`%(\d+\$)?[-+#0]*\d*(\.\d+)?[hlqLjzt]*[diouxXeEfFgGaAcspn@%]` +
		`|%\{[^}]*\}` +
		`|\{[^}]*\}` +
		`|</?[A-Za-z][^>]*>` +
		`|&[A-Za-z]+;|&#[0-9]+;`)

var accents = map[rune]rune{
	'a': 'à', 'b': 'ƀ', 'c': 'ç', 'd': 'ð', 'e': 'ë', 'f': 'ƒ', 'g': 'ĝ', 'h': 'ĥ', 'i': 'í',
	'j': 'ĵ', 'k': 'ķ', 'l': 'ļ', 'm': 'ɱ', 'n': 'ñ', 'o': 'ö', 'p': 'þ', 'q': 'ʠ', 'r': 'ŕ',
	's': 'š', 't': 'ţ', 'u': 'ü', 'v': 'ṽ', 'w': 'ŵ', 'x': 'ẋ', 'y': 'ÿ', 'z': 'ž',
	'A': 'À', 'B': 'Ɓ', 'C': 'Ç', 'D': 'Ð', 'E': 'Ë', 'F': 'Ƒ', 'G': 'Ĝ', 'H': 'Ĥ', 'I': 'Í',
	'J': 'Ĵ', 'K': 'Ķ', 'L': 'Ļ', 'M': 'Ṁ', 'N': 'Ñ', 'O': 'Ö', 'P': 'Þ', 'Q': 'Ǫ', 'R': 'Ŕ',
	'S': 'Š', 'T': 'Ţ', 'U': 'Ü', 'V': 'Ṽ', 'W': 'Ŵ', 'X': 'Ẋ', 'Y': 'Ÿ', 'Z': 'Ž',
}

type Options struct {
	// Expansion is the share of the text length appended as padding. Zero disables it.
	Expansion float64
	// NoBrackets drops the surrounding [ ].
	NoBrackets bool
	CacheSize  int64
}

// Transformer produces pseudo-localized text. A Transformer is safe to share.
type Transformer struct {
	opts  Options
	cache h.Cache
}

func New(opts Options) (*Transformer, error) {
	if opts.Expansion < 0 {
		opts.Expansion = 0
	}
	cache, err := h.NewCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Transformer{opts: opts, cache: cache}, nil
}

// Default uses DefaultExpansion with brackets.
func Default() *Transformer {
	t, err := New(Options{Expansion: DefaultExpansion})
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Transformer) Transform(text string) string {
	if text == "" {
		return ""
	}
	return t.cache.GetOrSet(text, func() string {
		return t.transform(text)
	})
}

func (t *Transformer) transform(text string) string {
	var b strings.Builder
	if !t.opts.NoBrackets {
		b.WriteString("[")
	}
	last := 0
	for _, loc := range placeholders.FindAllStringIndex(text, -1) {
		b.WriteString(accent(text[last:loc[0]]))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(accent(text[last:]))
	if pad := int(math.Ceil(float64(utf8.RuneCountInString(text)) * t.opts.Expansion)); pad > 0 {
		for i := 0; i < pad; i++ {
			b.WriteByte(padding[i%len(padding)])
		}
	}
	if !t.opts.NoBrackets {
		b.WriteString("]")
	}
	return b.String()
}

func accent(s string) string {
	return strings.Map(func(r rune) rune {
		if mapped, ok := accents[r]; ok {
			return mapped
		}
		return r
	}, s)
}

// StripPlaceholders removes everything Transform copies verbatim from text.
func StripPlaceholders(text string) string {
	return placeholders.ReplaceAllString(text, "")
}

// Skipping wraps t so that text matching skip is returned unchanged. Format handlers use it
// for content that is already in its final form, such as resource references.
func Skipping(t record.Transform, skip func(text string) bool) record.Transform {
	return func(text string) string {
		if skip != nil && skip(text) {
			return text
		}
		return t(text)
	}
}
