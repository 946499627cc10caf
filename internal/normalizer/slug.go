package normalizer

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugDrop  = regexp.MustCompile(`[^\w\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// Slug turns free text (customer names, brands) into a token that is safe
// inside a file name: transliterated to ASCII, punctuation removed, blanks
// collapsed to underscores.
func Slug(s string) string {
	s = unidecode.Unidecode(strings.TrimSpace(s))
	s = slugDrop.ReplaceAllString(s, "")
	return slugSpace.ReplaceAllString(strings.TrimSpace(s), "_")
}
