package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/doclens-app/doclens/internal/analysis"
	"github.com/doclens-app/doclens/internal/export"
	"github.com/doclens-app/doclens/internal/ingest"
)

// getRequestID extracts the request ID from the Fiber context.
// It first checks the requestid middleware local, then falls back to the X-Request-ID header.
func getRequestID(c *fiber.Ctx) string {
	if requestID := c.Locals("requestid"); requestID != nil {
		if id, ok := requestID.(string); ok && id != "" {
			return id
		}
	}
	return c.Get("X-Request-ID", "")
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// SendError sends a standardized error response with request ID
func SendError(c *fiber.Ctx, statusCode int, errMsg string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Error:     errMsg,
		RequestID: getRequestID(c),
	})
}

// SendErrorWithCode sends a standardized error response with error code and request ID
func SendErrorWithCode(c *fiber.Ctx, statusCode int, errMsg string, code string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Error:     errMsg,
		Code:      code,
		RequestID: getRequestID(c),
	})
}

// classifyError maps pipeline errors onto HTTP status and error codes.
// Remote failures are the upstream's fault (502), input problems the
// client's (4xx), write failures ours (500).
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, ingest.ErrUnsupportedType):
		return fiber.StatusUnsupportedMediaType, "UNSUPPORTED_TYPE"
	case errors.Is(err, ingest.ErrEmptyFile), errors.Is(err, ingest.ErrRead):
		return fiber.StatusUnprocessableEntity, "UNREADABLE_INPUT"
	case errors.Is(err, analysis.ErrQuota):
		return fiber.StatusTooManyRequests, "QUOTA_EXCEEDED"
	case errors.Is(err, analysis.ErrBlocked):
		return fiber.StatusBadGateway, "CONTENT_BLOCKED"
	case errors.Is(err, analysis.ErrEmptyResponse):
		return fiber.StatusBadGateway, "EMPTY_RESPONSE"
	case errors.Is(err, analysis.ErrRemote):
		return fiber.StatusBadGateway, "REMOTE_FAILURE"
	case errors.Is(err, export.ErrWrite):
		return fiber.StatusInternalServerError, "WRITE_FAILED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// sendPipelineError renders a pipeline failure as a coded JSON error.
func sendPipelineError(c *fiber.Ctx, err error) error {
	status, code := classifyError(err)
	return SendErrorWithCode(c, status, err.Error(), code)
}
