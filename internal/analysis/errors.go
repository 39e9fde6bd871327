package analysis

import "errors"

// Remote boundary errors. Provider implementations wrap these so callers
// can classify failures without knowing the backend.
var (
	// ErrRemote covers any failure of the remote analysis service.
	ErrRemote = errors.New("remote analysis failed")

	// ErrQuota indicates the provider rejected the request for rate or
	// quota reasons (HTTP 429 or equivalent).
	ErrQuota = errors.New("analysis quota exceeded")

	// ErrBlocked indicates the provider refused the content (safety
	// filters); the request must not be retried as-is.
	ErrBlocked = errors.New("analysis request blocked")

	// ErrEmptyResponse indicates the model returned no usable text.
	ErrEmptyResponse = errors.New("empty model response")
)
