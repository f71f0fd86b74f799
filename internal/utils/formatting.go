package utils

import (
	"strings"
	"time"
)

// Truncate shortens a string to max runes, appending an ellipsis
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// FormatDate renders a server timestamp as a short human-readable date.
// Unparseable values fall back to the date portion of the raw string.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	if i := strings.IndexByte(raw, 'T'); i > 0 {
		return raw[:i]
	}
	return raw
}
