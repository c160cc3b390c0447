package xliff

import (
	"fmt"
	"strconv"
	"strings"
)

const escapedBackslash = "backslash"

// allowed reports whether r may appear in an XML 1.0 document.
func allowed(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// escape returns text unchanged when every character is legal XML. Otherwise backslashes
// and illegal characters are written as \\ and \uXXXX and the escape marker is returned.
func escape(text string) (string, string) {
	if strings.IndexFunc(text, func(r rune) bool { return !allowed(r) }) < 0 {
		return text, ""
	}
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case !allowed(r):
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), escapedBackslash
}

func unescape(text string, marker string) string {
	if marker != escapedBackslash {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] != '\\' || i+1 >= len(text) {
			b.WriteByte(text[i])
			continue
		}
		switch text[i+1] {
		case '\\':
			b.WriteByte('\\')
			i++
		case 'u':
			if i+6 <= len(text) {
				if code, err := strconv.ParseUint(text[i+2:i+6], 16, 32); err == nil {
					b.WriteRune(rune(code))
					i += 5
					continue
				}
			}
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
		}
	}
	return b.String()
}
