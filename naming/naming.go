// Package naming converts between the three identifier cases the compiler
// deals with: class-style type names, underscore-separated relation/column
// names, and capitalized variable names.
package naming

import (
	"regexp"
	"strings"
)

var (
	acronymBoundary = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	camelBoundary   = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// ClassToSnake converts a class-style name (e.g. "Employee", "HNSWIndex")
// to a lowercase underscore-separated relation name ("employee",
// "hnsw_index"). A single ASCII letter is returned unchanged (lowercased).
func ClassToSnake(name string) string {
	if len(name) <= 1 {
		return strings.ToLower(name)
	}
	s := acronymBoundary.ReplaceAllString(name, "${1}_${2}")
	s = camelBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(s)
}

// SnakeToPascal converts an underscore-separated name to PascalCase by
// splitting on "_" and capitalizing each part (first letter upper, rest
// lower), then concatenating.
func SnakeToPascal(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

// ColumnToVar is SnakeToPascal, used verbatim by the compiler to turn a
// column name into its variable name.
func ColumnToVar(column string) string {
	return SnakeToPascal(column)
}
