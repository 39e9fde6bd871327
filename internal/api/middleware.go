package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// requestLogger returns a middleware that logs each request with structured
// fields. Health probes are skipped; they would dominate the log.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/health" || path == "/api/v1/health" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		var event *zerolog.Event
		switch {
		case err != nil || status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}
		if err != nil {
			event = event.Err(err)
		}

		event.
			Str("request_id", getRequestID(c)).
			Str("method", c.Method()).
			Str("path", path).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("HTTP request")

		return err
	}
}
