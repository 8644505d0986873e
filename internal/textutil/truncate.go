package textutil

import "strings"

// Truncate shortens s to at most max runes, appending "..." when content was
// dropped. Values of max below 4 return the first max runes unmodified.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
