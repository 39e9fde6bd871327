// Package gemini implements the remote analysis provider on Google's
// Generative AI API. One request maps to one generate call; transport-level
// upload plumbing for oversized files is the only place that retries.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/doclens-app/doclens/internal/analysis"
	"github.com/doclens-app/doclens/internal/config"
	"github.com/doclens-app/doclens/internal/extract"
	"github.com/doclens-app/doclens/internal/ingest"
)

// Payload limits. Small PDFs and images travel inline with the request;
// anything larger goes through the Files API first. Locally extracted text
// is capped so prompts stay within model context.
const (
	inlinePDFLimit   = 20 * 1024 * 1024
	inlineImageLimit = 7 * 1024 * 1024
	maxPromptText    = 200 * 1024
)

// Client talks to the Gemini API. It implements analysis.Provider.
type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
}

var _ analysis.Provider = (*Client)(nil)

// New creates a Gemini client from validated configuration. No request is
// sent here; the underlying connection dials lazily.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &Client{
		genai:   gc,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.genai.Close()
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Analyze performs one synchronous generate call for the request and parses
// the marker-delimited response.
func (c *Client) Analyze(ctx context.Context, req *analysis.Request) (*analysis.Result, error) {
	start := time.Now()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	doc := req.Document
	part, cleanup, err := c.payloadPart(ctx, req)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	prompt := BuildPrompt(req.Mode, req.Language, doc.Name)

	log.Debug().
		Str("request_id", req.ID).
		Str("model", c.model).
		Str("file", doc.Name).
		Str("kind", string(doc.Kind)).
		Msg("Sending analysis request")

	model := c.genai.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt), part)
	if err != nil {
		return nil, mapRemoteError(err)
	}

	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	parsed := ParseResponse(raw, req.Mode)
	if parsed.Text == "" && parsed.Summary == "" {
		return nil, fmt.Errorf("%w: response had no usable content", analysis.ErrEmptyResponse)
	}

	result := &analysis.Result{
		Text:    parsed.Text,
		Summary: parsed.Summary,
		Model:   c.model,
		Elapsed: time.Since(start),
	}
	if resp.UsageMetadata != nil {
		result.Usage = analysis.Usage{
			PromptTokens: resp.UsageMetadata.PromptTokenCount,
			CachedTokens: resp.UsageMetadata.CachedContentTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		}
	}

	return result, nil
}

// payloadPart builds the content part carrying the document. The returned
// cleanup deletes a remote upload, when one was needed.
func (c *Client) payloadPart(ctx context.Context, req *analysis.Request) (genai.Part, func(), error) {
	doc := req.Document

	switch doc.Kind {
	case ingest.KindDocument:
		text := req.Text
		if text == "" {
			return nil, nil, fmt.Errorf("%w: no text extracted from %s", analysis.ErrEmptyResponse, doc.Name)
		}
		return genai.Text(extract.Truncate(text, maxPromptText)), nil, nil

	case ingest.KindPDF:
		if doc.Size <= inlinePDFLimit {
			return genai.Blob{MIMEType: doc.MIME, Data: doc.Data}, nil, nil
		}

	case ingest.KindImage:
		if doc.Size <= inlineImageLimit {
			return genai.Blob{MIMEType: doc.MIME, Data: doc.Data}, nil, nil
		}
	}

	file, err := c.uploadFile(ctx, doc)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() { c.deleteFile(file.Name) }
	return genai.FileData{MIMEType: file.MIMEType, URI: file.URI}, cleanup, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("%w: %v", analysis.ErrBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no response candidates", analysis.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no content in response", analysis.ErrEmptyResponse)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			text.WriteString(string(textPart))
		}
	}

	return text.String(), nil
}

// mapRemoteError classifies transport and API failures onto the analysis
// error taxonomy. The SDK surfaces REST failures as googleapi errors and
// gRPC failures as status strings, so both spellings are checked.
func mapRemoteError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return fmt.Errorf("%w: %v", analysis.ErrQuota, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "resourceexhausted"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: %v", analysis.ErrQuota, err)
	default:
		return fmt.Errorf("%w: %v", analysis.ErrRemote, err)
	}
}
