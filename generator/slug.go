package generator

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveSlug lower-cases text, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
// The result is empty when text has no ASCII letters or digits.
func DeriveSlug(text string) string {
	return strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(text), "-"), "-")
}
