package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/doclens-app/doclens/internal/analysis"
	"github.com/doclens-app/doclens/internal/config"
	"github.com/doclens-app/doclens/internal/gemini"
	"github.com/doclens-app/doclens/internal/history"
)

var (
	analyzeMode      string
	analyzeLanguage  string
	analyzeFormat    string
	analyzeOutput    string
	analyzeOutputDir string
	analyzeModel     string
	analyzeTimeout   time.Duration
	analyzeStdout    bool
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze [file...]",
	Aliases: []string{"run"},
	Short:   "Extract or summarize document text with Gemini",
	Long: `Send one or more documents to Gemini and save the extracted text or a
summary next to the input (or under --output-dir).

PDFs and images are analyzed by the model directly; office and text
formats have their text extracted locally before the request.

Examples:
  doclens analyze scan.pdf
  doclens analyze --mode summarize --language en report.docx
  doclens analyze --format docx --output-dir out/ page1.png page2.png
  doclens analyze --output result.txt contract.pdf
  doclens analyze --format none --stdout notes.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "extract",
		"analysis mode: extract or summarize")
	analyzeCmd.Flags().StringVarP(&analyzeLanguage, "language", "l", "ar",
		"output language: ar or en")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "txt",
		"output file format: txt, docx or none")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "",
		"output file path (single input only)")
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "",
		"directory for derived output paths")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "",
		"override the configured Gemini model")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 0,
		"override the per-file analysis timeout")
	analyzeCmd.Flags().BoolVar(&analyzeStdout, "stdout", false,
		"print the result to stdout as well")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeOutput != "" && len(args) > 1 {
		return fmt.Errorf("--output applies to a single file, got %d inputs", len(args))
	}

	mode, err := analysis.ParseMode(analyzeMode)
	if err != nil {
		return err
	}

	language, err := analysis.ParseLanguage(analyzeLanguage)
	if err != nil {
		return err
	}

	format, err := analysis.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyLogConfig(cmd, cfg)
	if analyzeModel != "" {
		cfg.Model = analyzeModel
	}
	if analyzeTimeout > 0 {
		cfg.Timeout = analyzeTimeout
	}
	if analyzeOutputDir != "" {
		cfg.OutputDir = analyzeOutputDir
	}

	ctx := cmd.Context()

	client, err := gemini.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	service := analysis.NewService(client, openJournal())
	out := GetFormatter()

	failed := 0
	for _, path := range args {
		outcome, err := service.Run(ctx, path, analysis.Options{
			Mode:       mode,
			Language:   language,
			Format:     format,
			OutputPath: analyzeOutput,
			OutputDir:  cfg.OutputDir,
		})
		if err != nil {
			out.PrintError(fmt.Sprintf("%s: %v", path, err))
			failed++
			continue
		}

		result := outcome.Result
		if analyzeStdout || format == analysis.FormatNone {
			fmt.Fprintln(out.Writer, result.Content(mode))
		}
		if outcome.Written {
			out.PrintSuccess(fmt.Sprintf("Saved: %s (%d tokens, %s)",
				outcome.OutputPath, result.Usage.TotalTokens, result.Elapsed.Round(time.Millisecond)))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// openJournal opens the run history journal. History is advisory; when the
// data dir is unusable the analysis proceeds without it.
func openJournal() *history.Store {
	dir, err := config.DataDir()
	if err != nil {
		log.Warn().Err(err).Msg("Run history disabled")
		return nil
	}
	return history.NewStore(dir)
}
