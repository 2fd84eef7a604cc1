package mapping

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// wordStartRegex splits before a capitalized word preceded by any character.
	wordStartRegex = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	// lowerUpperRegex splits a lowercase letter or digit from a following capital.
	lowerUpperRegex = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// CamelToSnake converts a CamelCase identifier to snake_case, e.g.
// "FMDatePicker" becomes "fm_date_picker". A single capitalized word has no
// internal boundary and is only lowercased.
func CamelToSnake(name string) string {
	s := wordStartRegex.ReplaceAllString(name, "${1}_${2}")
	s = lowerUpperRegex.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// SnakeToCamel joins snake_case segments back into CamelCase, capitalizing
// the first letter of each segment.
func SnakeToCamel(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	return b.String()
}
