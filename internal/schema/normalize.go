package schema

import (
	"strings"
	"unicode"
)

// NormKey is a header string reduced to its comparison form: lowercase
// letters, digits, and underscores only. The empty key never matches
// any column.
type NormKey string

// Normalize reduces an operator-supplied header to its comparison key.
// Surrounding whitespace and non-breaking spaces are stripped, every
// character that is not a letter, digit, or underscore is removed, and the
// remainder is lower-cased. Deterministic and pure.
func Normalize(header string) NormKey {
	s := strings.TrimSpace(header)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\u00a0':
			// non-breaking space, common in pasted headers
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return NormKey(b.String())
}

// IsEmpty reports whether the key carries no comparable content.
func (k NormKey) IsEmpty() bool { return k == "" }

// Contains reports whether other is a substring of k.
func (k NormKey) Contains(other NormKey) bool {
	return strings.Contains(string(k), string(other))
}
