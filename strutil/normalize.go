// Package strutil holds small string helpers shared by config parsing and the
// command-line tools.
package strutil

import "strings"

// NormalizeLower trims surrounding whitespace and converts to lower case.
// Use for modes and other keywords where case is not significant.
func NormalizeLower(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
