package api

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/doclens-app/doclens/internal/analysis"
)

// AnalyzeResponse is the result of one analysis request.
type AnalyzeResponse struct {
	Success    bool           `json:"success"`
	Text       string         `json:"text,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	OutputPath string         `json:"output_path,omitempty"`
	Model      string         `json:"model,omitempty"`
	RequestID  string         `json:"request_id"`
	Tokens     analysis.Usage `json:"tokens"`
	ElapsedMS  int64          `json:"elapsed_ms"`
}

// handleAnalyze runs one analysis for an uploaded file.
// POST /api/v1/analyze, multipart: file + mode, language, format, output.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return SendErrorWithCode(c, fiber.StatusBadRequest, "file is required", "FILE_REQUIRED")
	}

	name := filepath.Base(file.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return SendErrorWithCode(c, fiber.StatusBadRequest, "file name is required", "FILE_REQUIRED")
	}

	mode, err := analysis.ParseMode(c.FormValue("mode"))
	if err != nil {
		return SendErrorWithCode(c, fiber.StatusBadRequest, err.Error(), "INVALID_MODE")
	}

	language, err := analysis.ParseLanguage(c.FormValue("language"))
	if err != nil {
		return SendErrorWithCode(c, fiber.StatusBadRequest, err.Error(), "INVALID_LANGUAGE")
	}

	format, outputPath, err := resolveOutput(c.FormValue("format"), c.FormValue("output"))
	if err != nil {
		return SendErrorWithCode(c, fiber.StatusBadRequest, err.Error(), "INVALID_FORMAT")
	}

	// The pipeline works on paths, so the upload lands in a scratch dir
	// under its original name; the extension drives kind detection.
	tmpDir, err := os.MkdirTemp("", "doclens-upload-")
	if err != nil {
		log.Error().Err(err).Msg("Failed to create upload scratch dir")
		return SendErrorWithCode(c, fiber.StatusInternalServerError, "failed to store upload", "UPLOAD_FAILED")
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	inputPath := filepath.Join(tmpDir, name)
	if err := c.SaveFile(file, inputPath); err != nil {
		log.Error().Err(err).Str("file", name).Msg("Failed to store upload")
		return SendErrorWithCode(c, fiber.StatusInternalServerError, "failed to store upload", "UPLOAD_FAILED")
	}

	outcome, err := s.service.Run(c.Context(), inputPath, analysis.Options{
		Mode:       mode,
		Language:   language,
		Format:     format,
		OutputPath: outputPath,
		OutputDir:  s.config.OutputDir,
	})
	if err != nil {
		return sendPipelineError(c, err)
	}

	result := outcome.Result
	return c.JSON(AnalyzeResponse{
		Success:    true,
		Text:       result.Text,
		Summary:    result.Summary,
		OutputPath: outcome.OutputPath,
		Model:      result.Model,
		RequestID:  outcome.RequestID,
		Tokens:     result.Usage,
		ElapsedMS:  result.Elapsed.Milliseconds(),
	})
}

// resolveOutput decides persistence for an analyze request. With neither a
// format nor an output path the result is returned in the response only;
// an output path without a format takes its format from the extension.
func resolveOutput(formatField, outputField string) (analysis.Format, string, error) {
	if formatField == "" {
		if outputField == "" {
			return analysis.FormatNone, "", nil
		}
		if strings.EqualFold(filepath.Ext(outputField), ".docx") {
			return analysis.FormatDocx, outputField, nil
		}
		return analysis.FormatText, outputField, nil
	}

	format, err := analysis.ParseFormat(formatField)
	if err != nil {
		return "", "", err
	}
	if format == analysis.FormatNone {
		return analysis.FormatNone, "", nil
	}
	return format, outputField, nil
}
