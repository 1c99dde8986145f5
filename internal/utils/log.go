package utils

import "strings"

// TruncateForLog collapses whitespace runs in s to single spaces and cuts the
// result to limit runes, appending an ellipsis when something was dropped.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > limit {
		return string(r[:limit]) + "..."
	}
	return s
}
