package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds case and strips combining marks so "Éte" and "ete" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}

// Score returns how far text is from query, from 0 (query occurs in text) to 1 (no
// resemblance). Both arguments are expected to be normalized.
//
// The query is compared against every window of text whose length is within one rune of
// the query length, and the best edit distance is divided by the query length.
func Score(query, text string) float64 {
	if query == "" || strings.Contains(text, query) {
		return 0
	}

	q := []rune(query)
	t := []rune(text)
	if len(t) == 0 {
		return 1
	}

	best := len(q)
	if len(t) <= len(q)+1 {
		best = levenshtein.ComputeDistance(query, text)
	} else {
		for size := max(len(q)-1, 1); size <= len(q)+1; size++ {
			for i := 0; i+size <= len(t); i++ {
				if d := levenshtein.ComputeDistance(query, string(t[i:i+size])); d < best {
					best = d
				}
			}
		}
	}

	score := float64(best) / float64(utf8.RuneCountInString(query))
	return min(score, 1)
}
