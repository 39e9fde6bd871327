package gemini

import (
	"regexp"
	"strings"

	"github.com/doclens-app/doclens/internal/analysis"
)

var (
	textMarkerRe    = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(TextStartMarker) + `(.*?)` + regexp.QuoteMeta(TextEndMarker))
	summaryMarkerRe = regexp.MustCompile(`(?is)` + regexp.QuoteMeta(SummaryStartMarker) + `(.*?)` + regexp.QuoteMeta(SummaryEndMarker))
)

// Parsed is the marker-delimited content of one model response.
type Parsed struct {
	Text    string
	Summary string
}

// ParseResponse splits a model response on the output markers. Marker
// matching is case-insensitive; models occasionally change the casing.
// When no marker matches at all, the whole trimmed response is treated as
// the extracted text so a well-formed answer without fences still counts.
func ParseResponse(raw string, mode analysis.Mode) Parsed {
	var parsed Parsed

	if m := textMarkerRe.FindStringSubmatch(raw); m != nil {
		parsed.Text = strings.TrimSpace(m[1])
	}

	if mode == analysis.ModeSummarize {
		if m := summaryMarkerRe.FindStringSubmatch(raw); m != nil {
			parsed.Summary = strings.TrimSpace(m[1])
		}
	}

	if parsed.Text == "" && parsed.Summary == "" {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			parsed.Text = trimmed
		}
	}

	return parsed
}
