package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if
// truncated. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// unsafeFileChars are characters that break paths or shells when a candidate
// name is used in an output file name.
const unsafeFileChars = `/\:*?"<>|`

// SanitizeFileName replaces path-hostile characters in s with underscores and
// collapses whitespace runs to single underscores.
func SanitizeFileName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case strings.ContainsRune(unsafeFileChars, r), r == ' ', r == '\t':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	return b.String()
}
