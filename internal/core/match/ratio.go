package match

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Scorer returns a similarity score in [0,100].
type Scorer func(a, b string) int

// Process lowercases s, turns every rune that is not a letter or digit into
// a space and trims the result.
func Process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

// Ratio scores two strings after Process:
//
//	100 * (1 - levenshtein(a, b) / max(len(a), len(b)))
//
// rounded to the nearest integer, lengths counted in runes. An empty string
// on either side scores 0.
func Ratio(a, b string) int {
	a, b = Process(a), Process(b)
	if a == "" || b == "" {
		return 0
	}

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}

	dist := levenshtein.Distance(a, b, nil)
	score := int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
