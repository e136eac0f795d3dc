package parse

import (
	"regexp"
	"strings"
)

var spaceRe = regexp.MustCompile(`[\s\p{Zs}]+`)

// Line cleans a single-line form value: trims it and collapses inner whitespace
// (including non-breaking and full-width spaces) to one ASCII space.
func Line(raw string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(raw, " "))
}

// Text cleans a multi-line value by trimming surrounding whitespace only.
func Text(raw string) string {
	return strings.TrimSpace(raw)
}
