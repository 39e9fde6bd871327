package extract

import "strings"

// Sanitize removes null bytes and control characters that break downstream
// consumers, keeping tabs, newlines and carriage returns.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")

	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range text {
		if r == '\t' || r == '\n' || r == '\r' || (r >= 0x20 && r != 0x7F) {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// Truncate caps text at limit bytes on a rune boundary, appending a marker
// line when content was dropped.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && (text[cut]&0xC0) == 0x80 {
		cut--
	}

	return text[:cut] + "\n[content truncated]"
}
