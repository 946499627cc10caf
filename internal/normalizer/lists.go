package normalizer

import "strings"

// Separators used by multi-valued cells.
const (
	ListSeparators = ",/"
	ZoneSeparators = ",;/-"
)

// SplitList splits a multi-valued cell on any rune of seps and trims the
// items. Empty items left by stray separators are dropped.
func SplitList(value, seps string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether items holds value exactly.
func Contains(items []string, value string) bool {
	for _, it := range items {
		if it == value {
			return true
		}
	}
	return false
}

// IsGeneric reports whether the normalized value is one of the markers.
func IsGeneric(value string, markers []string) bool {
	return Contains(markers, Normalize(value))
}
