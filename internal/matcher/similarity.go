package matcher

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Ratio is the Levenshtein similarity of two strings: 1 - distance / the
// longer rune length. Two empty strings are identical.
func Ratio(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// ClosestMatch returns the candidate most similar to word with a Ratio of
// at least cutoff. Equal ratios are settled by Jaro-Winkler, then by
// candidate order.
func ClosestMatch(word string, candidates []string, cutoff float64) (string, bool) {
	best, bestRatio, bestJW := "", -1.0, -1.0
	for _, c := range candidates {
		r := Ratio(word, c)
		if r < cutoff {
			continue
		}
		jw := smetrics.JaroWinkler(word, c, 0.7, 4)
		if r > bestRatio || (r == bestRatio && jw > bestJW) {
			best, bestRatio, bestJW = c, r, jw
		}
	}
	return best, bestRatio >= 0
}
