package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// NormalizeName canonicalizes a player name or guess for comparison:
// trim, transliterate diacritics, case-fold, collapse separators.
// Both sides of a guess comparison go through this — the match itself
// stays exact, no fuzzy matching.
func NormalizeName(name string) string {
	return slug.Make(strings.TrimSpace(name))
}
