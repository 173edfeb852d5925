package stringutils

import "strings"

// TrimAndCap trims surrounding whitespace and caps the result at max runes.
func TrimAndCap(s string, max int) string {
	trimmed := strings.TrimSpace(s)
	runes := []rune(trimmed)
	if len(runes) <= max {
		return trimmed
	}
	return string(runes[:max])
}

// Preview returns s truncated to max runes with an ellipsis marker when longer.
func Preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
