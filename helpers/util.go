package helpers

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
