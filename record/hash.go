package record

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

const (
	hashModulus    = 1073741789
	hashMultiplier = 65521
)

var (
	escapedWhitespace = regexp.MustCompile(`\\[btnfr]`)
	whitespaceRun     = regexp.MustCompile(`[ \n\t\r\f]+`)
)

// HashKey identifies a resource in one locale: "<tag>_<project>_<locale>_<key>".
func HashKey(t Type, project, locale, key string) string {
	return strings.Join([]string{t.Tag(), project, locale, key}, "_")
}

func (r *Record) HashKey() string {
	return HashKey(r.Type, r.Project, r.Locale, r.Key)
}

// HashKeyForTranslation is the hash key the same resource would have in locale.
func (r *Record) HashKeyForTranslation(locale string) string {
	return HashKey(r.Type, r.Project, locale, r.Key)
}

// CleanSource normalizes source text before hashing so that whitespace-only edits keep the
// same key.
func CleanSource(source string) string {
	s := strings.ReplaceAll(source, `\\`, `\`)
	s = escapedWhitespace.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.Trim(s, " ")
}

// MakeKey derives the auto-generated key of a source string.
func MakeKey(source string) string {
	var hash int64
	for _, unit := range utf16.Encode([]rune(CleanSource(source))) {
		hash = (hash + int64(unit)) % hashModulus
		hash = (hash * hashMultiplier) % hashModulus
	}
	return "r" + strconv.FormatInt(hash, 10)
}
