package cmd

import (
	"testing"

	"github.com/doclens-app/doclens/internal/ingest"
)

func TestInspectDetails(t *testing.T) {
	tests := []struct {
		name     string
		info     *ingest.Info
		expected string
	}{
		{
			name:     "no details",
			info:     &ingest.Info{},
			expected: "-",
		},
		{
			name:     "pdf with pages",
			info:     &ingest.Info{Pages: 12},
			expected: "12 pages",
		},
		{
			name:     "encrypted pdf",
			info:     &ingest.Info{Encrypted: true},
			expected: "encrypted",
		},
		{
			name:     "image dimensions",
			info:     &ingest.Info{Width: 800, Height: 600},
			expected: "800x600",
		},
		{
			name:     "workbook sheets",
			info:     &ingest.Info{Sheets: []string{"Sheet1", "Sheet2"}},
			expected: "2 sheets",
		},
		{
			name:     "text with words",
			info:     &ingest.Info{Words: 120},
			expected: "120 words",
		},
		{
			name:     "combined",
			info:     &ingest.Info{Pages: 3, Encrypted: true},
			expected: "3 pages, encrypted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inspectDetails(tt.info); got != tt.expected {
				t.Errorf("inspectDetails() = %q, want %q", got, tt.expected)
			}
		})
	}
}
