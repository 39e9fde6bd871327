// Package api exposes the analysis pipeline over a local HTTP server for
// the GUI shell. The server binds to loopback by default and carries no
// authentication; it is a process-to-process seam, not a public API.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/doclens-app/doclens/internal/analysis"
	"github.com/doclens-app/doclens/internal/config"
	"github.com/doclens-app/doclens/internal/history"
	"github.com/doclens-app/doclens/internal/ingest"
)

// Server represents the HTTP server
type Server struct {
	app     *fiber.App
	config  *config.Config
	service *analysis.Service
	journal *history.Store
	version string
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, service *analysis.Service, journal *history.Store, version string) *Server {
	app := fiber.New(fiber.Config{
		ServerHeader:          "doclens",
		AppName:               "doclens " + version,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	server := &Server{
		app:     app,
		config:  cfg,
		service: service,
		journal: journal,
		version: version,
	}

	server.setupMiddlewares()
	server.setupRoutes()

	return server
}

// setupMiddlewares sets up global middlewares
func (s *Server) setupMiddlewares() {
	// Request ID first so the logger and error responses can reference it.
	s.app.Use(requestid.New())

	s.app.Use(requestLogger())

	s.app.Use(recover.New())

	// The GUI shell may run inside a webview with a browser origin.
	s.app.Use(cors.New())
}

// setupRoutes sets up all routes
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.handleHealth)

	v1 := s.app.Group("/api/v1")
	v1.Get("/health", s.handleHealth)
	v1.Get("/config", s.handleConfig)
	v1.Post("/analyze", s.handleAnalyze)
	v1.Get("/history", s.handleHistory)
}

// handleHealth reports server liveness. There is no dependency to probe;
// the remote model is only contacted on analyze requests.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"version":   s.version,
		"model":     s.config.Model,
		"timestamp": time.Now().UTC(),
	})
}

// handleConfig echoes the non-secret configuration so the GUI shell can
// populate its controls without duplicating defaults.
func (s *Server) handleConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"model":         s.config.Model,
		"output_dir":    s.config.OutputDir,
		"timeout":       s.config.Timeout.String(),
		"max_file_size": ingest.MaxFileSize,
		"modes":         []string{string(analysis.ModeExtract), string(analysis.ModeSummarize)},
		"languages":     []string{string(analysis.LangArabic), string(analysis.LangEnglish)},
		"formats":       []string{string(analysis.FormatText), string(analysis.FormatDocx), string(analysis.FormatNone)},
	})
}

// handleHistory returns recent analysis runs, newest first.
func (s *Server) handleHistory(c *fiber.Ctx) error {
	if s.journal == nil {
		return c.JSON(fiber.Map{"entries": []history.Entry{}, "count": 0})
	}

	limit := c.QueryInt("limit", 50)
	if limit < 0 {
		limit = 0
	}

	entries, err := s.journal.List(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read history")
		return SendErrorWithCode(c, fiber.StatusInternalServerError, "failed to read history", "HISTORY_READ_FAILED")
	}

	return c.JSON(fiber.Map{
		"entries": entries,
		"count":   len(entries),
	})
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	return s.app.Listen(s.config.Server.Addr())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App returns the underlying Fiber app instance for testing
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler handles errors that escape route handlers
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		log.Error().Err(err).Str("path", c.Path()).Msg("Server error")
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:     message,
		RequestID: getRequestID(c),
	})
}
