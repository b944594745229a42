package categories

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKeyword trims and lower-cases a keyword for storage and comparison.
func NormalizeKeyword(raw string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(raw)))
}

// matchForm upper-cases s without trimming, so keywords padded with spaces
// (" PG ") keep acting as word-ish boundaries.
func matchForm(s string) string {
	return cases.Upper(language.Und).String(norm.NFC.String(s))
}
