package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// SameIdentity reports whether two user identifiers (emails or IDs) refer to the same user.
// Empty identifiers never match.
func SameIdentity(a, b string) bool {
	a = CleanString(a, true /* lower */)
	return a != "" && a == CleanString(b, true /* lower */)
}
