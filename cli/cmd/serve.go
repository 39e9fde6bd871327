package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/doclens-app/doclens/internal/analysis"
	"github.com/doclens-app/doclens/internal/api"
	"github.com/doclens-app/doclens/internal/config"
	"github.com/doclens-app/doclens/internal/gemini"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP server for the GUI shell",
	Long: `Start an HTTP server exposing the analysis pipeline on loopback. The
desktop GUI shell talks to this server; it is not meant to be reachable
from other machines.

Examples:
  doclens serve
  doclens serve --port 9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "",
		"address to bind (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyLogConfig(cmd, cfg)
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	client, err := gemini.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	journal := openJournal()
	service := analysis.NewService(client, journal)
	server := api.NewServer(cfg, service, journal, Version)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("address", cfg.Server.Addr()).
			Str("model", cfg.Model).
			Str("version", Version).
			Msg("Starting doclens server")
		errCh <- server.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
