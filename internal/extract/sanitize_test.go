package extract

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal text unchanged",
			input:    "Hello, World!",
			expected: "Hello, World!",
		},
		{
			name:     "removes null bytes",
			input:    "Hello\x00World",
			expected: "HelloWorld",
		},
		{
			name:     "preserves newlines and tabs",
			input:    "Line 1\nLine 2\tTabbed",
			expected: "Line 1\nLine 2\tTabbed",
		},
		{
			name:     "preserves carriage returns",
			input:    "Line 1\r\nLine 2",
			expected: "Line 1\r\nLine 2",
		},
		{
			name:     "removes control characters",
			input:    "Hello\x01\x02\x03World",
			expected: "HelloWorld",
		},
		{
			name:     "removes DEL character",
			input:    "Hello\x7FWorld",
			expected: "HelloWorld",
		},
		{
			name:     "preserves arabic text",
			input:    "مرحبا بالعالم",
			expected: "مرحبا بالعالم",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only null bytes",
			input:    "\x00\x00\x00",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sanitize(tt.input)
			if result != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	short := "short text"
	if got := Truncate(short, 100); got != short {
		t.Errorf("Truncate should not change text under the limit, got %q", got)
	}

	long := strings.Repeat("a", 100)
	got := Truncate(long, 10)
	if !strings.HasPrefix(got, "aaaaaaaaaa") {
		t.Errorf("Truncate kept wrong prefix: %q", got)
	}
	if !strings.HasSuffix(got, "[content truncated]") {
		t.Errorf("Truncate missing marker: %q", got)
	}

	// Cutting inside a multi-byte rune must back up to the boundary.
	arabic := strings.Repeat("م", 50) // two bytes per rune
	got = Truncate(arabic, 5)
	for _, part := range strings.Split(strings.TrimSuffix(got, "\n[content truncated]"), "") {
		if part != "م" {
			t.Errorf("Truncate split a rune: %q", got)
		}
	}
}
