// Package analysis defines the document analysis request/result model and
// the orchestration service that ties ingestion, the remote model call and
// output writing together.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doclens-app/doclens/internal/ingest"
)

// Mode selects what the model is asked to produce.
type Mode string

const (
	// ModeExtract asks for a verbatim transcription of the document text.
	ModeExtract Mode = "extract"
	// ModeSummarize asks for a summary alongside the full transcription.
	ModeSummarize Mode = "summarize"
)

// ParseMode normalizes a user-supplied mode token. The long spellings
// "full" and "summary" are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extract", "full", "":
		return ModeExtract, nil
	case "summarize", "summary":
		return ModeSummarize, nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected extract or summarize)", s)
	}
}

// Language selects the output language of the analysis.
type Language string

const (
	LangArabic  Language = "ar"
	LangEnglish Language = "en"
)

// ParseLanguage normalizes a user-supplied language token.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ar", "ara", "arabic", "":
		return LangArabic, nil
	case "en", "eng", "english":
		return LangEnglish, nil
	default:
		return "", fmt.Errorf("invalid language %q (expected ar or en)", s)
	}
}

// Name returns the language name used in prompts.
func (l Language) Name() string {
	if l == LangEnglish {
		return "english"
	}
	return "arabic"
}

// Direction returns the text direction hint for the language.
func (l Language) Direction() string {
	if l == LangEnglish {
		return "left-to-right"
	}
	return "right-to-left"
}

// RTL reports whether the language is written right-to-left.
func (l Language) RTL() bool {
	return l == LangArabic
}

// Format selects how results are persisted.
type Format string

const (
	FormatText Format = "txt"
	FormatDocx Format = "docx"
	// FormatNone skips the output writer; callers consume the result directly.
	FormatNone Format = "none"
)

// ParseFormat normalizes a user-supplied format token.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text", "":
		return FormatText, nil
	case "docx", "word":
		return FormatDocx, nil
	case "none":
		return FormatNone, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected txt, docx or none)", s)
	}
}

// Ext returns the file extension for the format, with the leading dot.
func (f Format) Ext() string {
	if f == FormatDocx {
		return ".docx"
	}
	return ".txt"
}

// Request is a single analysis of one document.
type Request struct {
	ID       string
	Document *ingest.Document
	// Text carries locally extracted content for document-kind inputs;
	// empty for pdf and image inputs, which are sent as raw bytes.
	Text     string
	Mode     Mode
	Language Language
}

// Usage reports model token consumption for one request.
type Usage struct {
	PromptTokens int32 `json:"prompt_tokens"`
	CachedTokens int32 `json:"cached_tokens,omitempty"`
	OutputTokens int32 `json:"output_tokens"`
	TotalTokens  int32 `json:"total_tokens"`
}

// Result is the outcome of one model call.
type Result struct {
	// Text is the full extracted text.
	Text string
	// Summary is set in summarize mode when the model produced one.
	Summary string
	Model   string
	Usage   Usage
	Elapsed time.Duration
}

// Content returns the text to persist for the given mode: the summary in
// summarize mode when present, the full text otherwise.
func (r *Result) Content(mode Mode) string {
	if mode == ModeSummarize && r.Summary != "" {
		return r.Summary
	}
	return r.Text
}

// Title builds the document title used by the docx writer.
func Title(mode Mode, base string) string {
	if mode == ModeSummarize {
		return "Summary - " + base
	}
	return "Extracted Text - " + base
}

// Provider performs the remote analysis call. Implementations make exactly
// one generate call per request; retrying or caching is the caller's
// decision, and no implementation does either.
type Provider interface {
	Analyze(ctx context.Context, req *Request) (*Result, error)
}
