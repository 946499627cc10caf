package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var vowelFold = strings.NewReplacer("Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U")

// Normalize returns the comparison form of a sheet cell or a user value:
// NFC composed, upper-cased, trimmed and with accented vowels folded.
// Ñ and Ü are kept as they are.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.ToUpper(strings.TrimSpace(s))
	return vowelFold.Replace(s)
}

// StripDiacritics removes every combining mark, Ñ included.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
