package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separatorRegex matches runs of hyphens and whitespace. Go's \s is ASCII
// only, so Unicode separators, \v and the BOM are listed explicitly.
var separatorRegex = regexp.MustCompile(`[-\s\v\p{Z}\x{FEFF}]+`)

// Unit spellings rewritten by StandardizeUnit, applied in this order
var unitRewrites = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)litro`), "l"},
	{regexp.MustCompile(`(?i)quilo`), "kg"},
}

// Normalize canonicalizes a product title for matching: lowercase, accents
// stripped, hyphens and whitespace runs collapsed to one space, trimmed.
func Normalize(title string) string {
	s := strings.ToLower(title)
	s = stripAccents(s)
	s = separatorRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripAccents decomposes to NFD and drops the combining marks.
// transform.Chain is stateful, so a fresh chain is built per call.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// StandardizeUnit rewrites the first "litro" to "l" and the first "quilo"
// to "kg", case-insensitively. It runs on short size fragments like "2 litros".
func StandardizeUnit(size string) string {
	for _, rw := range unitRewrites {
		if loc := rw.pattern.FindStringIndex(size); loc != nil {
			size = size[:loc[0]] + rw.replacement + size[loc[1]:]
		}
	}
	return size
}
