// Package image validates, decomposes and rewrites container image references
// as they appear in compose files.
package image

import (
	"regexp"
	"strings"
)

// component is one lowercase alphanumeric run optionally joined to further runs
// by a single '.', '_' or '-'.
const component = `[a-z0-9]+(?:[._-][a-z0-9]+)*`

// referencePattern matches [registry/]repository[:tag] where every path segment
// and the tag use the component grammar.
var referencePattern = regexp.MustCompile(`^` + component + `(?:/` + component + `)*(?::` + component + `)?$`)

// IsValid reports whether s is a syntactically valid image reference.
// Matching is case-insensitive: the input is lowercased first.
func IsValid(s string) bool {
	return referencePattern.MatchString(strings.ToLower(s))
}
