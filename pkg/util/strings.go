package util

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// Tokenize splits text into lower-cased alphanumeric words.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// TruncateWithMarker cuts s to at most limit bytes, appending marker when cut.
// The returned string including the marker never exceeds limit.
func TruncateWithMarker(s string, limit int, marker string) string {
	if len(s) <= limit {
		return s
	}
	if limit <= len(marker) {
		return marker[:limit]
	}
	return s[:limit-len(marker)] + marker
}
