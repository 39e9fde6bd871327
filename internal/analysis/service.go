package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/doclens-app/doclens/internal/export"
	"github.com/doclens-app/doclens/internal/extract"
	"github.com/doclens-app/doclens/internal/history"
	"github.com/doclens-app/doclens/internal/ingest"
)

// Options selects what one analysis run produces and where it lands.
type Options struct {
	Mode     Mode
	Language Language
	Format   Format
	// OutputPath overrides the derived destination. Ignored with FormatNone.
	OutputPath string
	// OutputDir is where derived output paths are placed.
	OutputDir string
}

// Outcome is the result of one completed run.
type Outcome struct {
	RequestID  string
	Result     *Result
	OutputPath string
	Written    bool
}

// Service runs the analysis pipeline: read the file, extract text locally
// when possible, call the provider, persist the result, journal the run.
type Service struct {
	provider  Provider
	journal   *history.Store
	extractor *extract.Extractor
}

// NewService creates a service. A nil journal disables run history.
func NewService(provider Provider, journal *history.Store) *Service {
	return &Service{
		provider:  provider,
		journal:   journal,
		extractor: extract.New(),
	}
}

// Run analyzes one file. Any stage failure aborts the run and no output
// file is written after an analysis failure.
func (s *Service) Run(ctx context.Context, path string, opts Options) (*Outcome, error) {
	requestID := uuid.New().String()
	start := time.Now()

	doc, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var text string
	if doc.Kind == ingest.KindDocument {
		text, err = s.extractor.Extract(doc.Data, doc.MIME)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot extract text from %s: %v", ingest.ErrRead, doc.Name, err)
		}
	}

	log.Info().
		Str("request_id", requestID).
		Str("file", doc.Name).
		Str("kind", string(doc.Kind)).
		Int64("size", doc.Size).
		Str("mode", string(opts.Mode)).
		Str("language", string(opts.Language)).
		Msg("Starting analysis")

	req := &Request{
		ID:       requestID,
		Document: doc,
		Text:     text,
		Mode:     opts.Mode,
		Language: opts.Language,
	}

	result, err := s.provider.Analyze(ctx, req)
	if err != nil {
		log.Error().
			Str("request_id", requestID).
			Str("file", doc.Name).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("Analysis failed")
		s.journalRun(req, nil, "", err)
		return nil, err
	}

	outcome := &Outcome{RequestID: requestID, Result: result}

	if opts.Format != FormatNone {
		content := result.Content(opts.Mode)

		outputPath := opts.OutputPath
		if outputPath == "" {
			outputPath = export.DefaultPath(path, opts.OutputDir,
				string(opts.Mode), string(opts.Language), opts.Format.Ext())
		}

		if opts.Format == FormatDocx {
			err = export.WriteDocx(outputPath, content, Title(opts.Mode, doc.Base()), opts.Language.RTL())
		} else {
			err = export.WriteText(outputPath, content)
		}
		if err != nil {
			s.journalRun(req, result, "", err)
			return nil, err
		}

		outcome.OutputPath = outputPath
		outcome.Written = true
	}

	log.Info().
		Str("request_id", requestID).
		Str("file", doc.Name).
		Str("model", result.Model).
		Int32("tokens", result.Usage.TotalTokens).
		Dur("elapsed", time.Since(start)).
		Str("output", outcome.OutputPath).
		Msg("Analysis complete")

	s.journalRun(req, result, outcome.OutputPath, nil)
	return outcome, nil
}

// journalRun appends the run to the history journal. Journal failures are
// logged and swallowed; history must never fail an analysis.
func (s *Service) journalRun(req *Request, result *Result, outputPath string, runErr error) {
	if s.journal == nil {
		return
	}

	entry := history.Entry{
		ID:         req.ID,
		Time:       time.Now(),
		File:       req.Document.Path,
		Kind:       string(req.Document.Kind),
		Mode:       string(req.Mode),
		Language:   string(req.Language),
		OutputPath: outputPath,
		OK:         runErr == nil,
	}
	if result != nil {
		entry.Model = result.Model
		entry.Tokens = result.Usage.TotalTokens
		entry.Elapsed = result.Elapsed
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if err := s.journal.Append(entry); err != nil {
		log.Warn().Err(err).Str("request_id", req.ID).Msg("Could not record run in history")
	}
}
