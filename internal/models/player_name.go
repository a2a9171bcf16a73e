package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeName lowercases the whole name and uppercases only its first character.
// "mcDONALD" becomes "Mcdonald".
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	first, size := utf8.DecodeRuneInString(name)
	if first == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(first)) + name[size:]
}
