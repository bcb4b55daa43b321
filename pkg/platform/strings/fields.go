// Package strings holds the string-slice clean-up shared by request DTOs.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim trims every value and drops blanks and repeats, keeping
// first-seen order. Inputs are small, bounded field lists.
func DedupeAndTrim(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// SplitFields accepts field paths sent either as a list or comma-joined
// (query strings often carry "a.b,c[0].d") and returns them cleaned up.
func SplitFields(values []string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return DedupeAndTrim(parts)
}
