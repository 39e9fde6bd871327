package gemini

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"

	"github.com/doclens-app/doclens/internal/analysis"
	"github.com/doclens-app/doclens/internal/ingest"
)

// Files API plumbing for documents too large to inline. Upload attempts
// retry on transport failures; the generate call itself never does.
const (
	uploadRetries     = 3
	uploadRetryDelay  = 5 * time.Second
	uploadPollTimeout = 5 * time.Minute
	uploadPollEvery   = 15 * time.Second
)

// uploadFile pushes the document through the Files API and waits until the
// service reports it active.
func (c *Client) uploadFile(ctx context.Context, doc *ingest.Document) (*genai.File, error) {
	var lastErr error

	for attempt := 1; attempt <= uploadRetries; attempt++ {
		file, err := c.genai.UploadFile(ctx, "", bytes.NewReader(doc.Data), &genai.UploadFileOptions{
			DisplayName: doc.Name,
			MIMEType:    doc.MIME,
		})
		if err == nil {
			log.Debug().Str("file", doc.Name).Str("remote", file.Name).Msg("File uploaded, waiting for processing")
			return c.waitForFile(ctx, file)
		}

		lastErr = err
		if attempt < uploadRetries {
			log.Warn().Err(err).Int("attempt", attempt).Str("file", doc.Name).Msg("Upload failed, retrying")
			select {
			case <-ctx.Done():
				return nil, mapRemoteError(ctx.Err())
			case <-time.After(uploadRetryDelay):
			}
		}
	}

	return nil, fmt.Errorf("%w: upload failed after %d attempts: %v", analysis.ErrRemote, uploadRetries, lastErr)
}

// waitForFile polls until the uploaded file leaves the processing state.
// Files that time out or end in a failed state are removed remotely.
func (c *Client) waitForFile(ctx context.Context, file *genai.File) (*genai.File, error) {
	deadline := time.Now().Add(uploadPollTimeout)

	for file.State == genai.FileStateProcessing {
		if time.Now().After(deadline) {
			c.deleteFile(file.Name)
			return nil, fmt.Errorf("%w: file processing timed out", analysis.ErrRemote)
		}

		select {
		case <-ctx.Done():
			c.deleteFile(file.Name)
			return nil, mapRemoteError(ctx.Err())
		case <-time.After(uploadPollEvery):
		}

		refreshed, err := c.genai.GetFile(ctx, file.Name)
		if err != nil {
			c.deleteFile(file.Name)
			return nil, mapRemoteError(err)
		}
		file = refreshed
		log.Debug().Str("remote", file.Name).Str("state", fmt.Sprintf("%v", file.State)).Msg("File state")
	}

	if file.State != genai.FileStateActive {
		c.deleteFile(file.Name)
		return nil, fmt.Errorf("%w: file processing ended in state %v", analysis.ErrRemote, file.State)
	}

	return file, nil
}

// deleteFile removes a remote upload. Best effort: the file expires
// server-side anyway, so failures only get logged.
func (c *Client) deleteFile(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.genai.DeleteFile(ctx, name); err != nil {
		log.Warn().Err(err).Str("remote", name).Msg("Could not delete uploaded file")
		return
	}
	log.Debug().Str("remote", name).Msg("Uploaded file deleted")
}
