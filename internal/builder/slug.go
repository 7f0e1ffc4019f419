package builder

import (
	"regexp"
	"strings"
)

var (
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
	nonWordPattern       = regexp.MustCompile(`[^a-z0-9_]`)
	underscorePattern    = regexp.MustCompile(`_+`)
)

// Slugify derives the stable category identifier from a free-text
// description: lowercase, parentheticals dropped, whitespace collapsed to
// underscores, non-word characters stripped, repeated underscores collapsed.
func Slugify(description string) string {
	s := strings.ToLower(description)
	s = parentheticalPattern.ReplaceAllString(s, "")
	s = whitespacePattern.ReplaceAllString(strings.TrimSpace(s), "_")
	s = nonWordPattern.ReplaceAllString(s, "")
	s = underscorePattern.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
