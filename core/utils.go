package core

import "strings"

// CleanString trims `s`, collapses inner runs of whitespace to a single space and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}
