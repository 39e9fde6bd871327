package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens-app/doclens/internal/analysis"
)

func analyzeRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAnalyze_ReturnsResult(t *testing.T) {
	provider := &fakeProvider{result: &analysis.Result{
		Text:    "extracted body",
		Model:   "gemini-2.0-flash",
		Usage:   analysis.Usage{PromptTokens: 10, OutputTokens: 5, TotalTokens: 15},
		Elapsed: 1500 * time.Millisecond,
	}}
	server, _ := newTestServer(t, provider)

	req := analyzeRequest(t, "notes.txt", []byte("hello world"), nil)
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "extracted body", body.Text)
	assert.Equal(t, "gemini-2.0-flash", body.Model)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, int32(15), body.Tokens.TotalTokens)
	assert.Equal(t, int64(1500), body.ElapsedMS)

	// Without a format field nothing is written to disk.
	assert.Empty(t, body.OutputPath)

	require.NotNil(t, provider.lastReq)
	assert.Equal(t, analysis.ModeExtract, provider.lastReq.Mode)
	assert.Equal(t, analysis.LangArabic, provider.lastReq.Language)
	assert.Equal(t, "hello world", provider.lastReq.Text)
}

func TestAnalyze_WritesOutputFile(t *testing.T) {
	provider := &fakeProvider{result: &analysis.Result{Text: "saved text"}}
	server, _ := newTestServer(t, provider)

	req := analyzeRequest(t, "report.txt", []byte("input"), map[string]string{
		"mode":     "extract",
		"language": "en",
		"format":   "txt",
	})
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.NotEmpty(t, body.OutputPath)
	assert.Equal(t, "report_extract_en.txt", filepath.Base(body.OutputPath))

	data, err := os.ReadFile(body.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "saved text", string(data))
}

func TestAnalyze_OutputPathImpliesFormat(t *testing.T) {
	provider := &fakeProvider{result: &analysis.Result{Text: "saved text"}}
	server, _ := newTestServer(t, provider)

	target := filepath.Join(t.TempDir(), "picked.txt")
	req := analyzeRequest(t, "report.txt", []byte("input"), map[string]string{
		"output": target,
	})
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body AnalyzeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, target, body.OutputPath)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "saved text", string(data))
}

func TestAnalyze_MissingFile(t *testing.T) {
	server, _ := newTestServer(t, &fakeProvider{result: &analysis.Result{Text: "ok"}})

	req := analyzeRequest(t, "", nil, map[string]string{"mode": "extract"})
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "FILE_REQUIRED", body.Code)
	assert.NotEmpty(t, body.RequestID)
}

func TestAnalyze_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		code   string
	}{
		{"bad mode", map[string]string{"mode": "translate"}, "INVALID_MODE"},
		{"bad language", map[string]string{"language": "fr"}, "INVALID_LANGUAGE"},
		{"bad format", map[string]string{"format": "pdf"}, "INVALID_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, &fakeProvider{result: &analysis.Result{Text: "ok"}})

			req := analyzeRequest(t, "notes.txt", []byte("hello"), tt.fields)
			resp, err := server.App().Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestAnalyze_UnsupportedType(t *testing.T) {
	server, _ := newTestServer(t, &fakeProvider{result: &analysis.Result{Text: "ok"}})

	req := analyzeRequest(t, "firmware.bin", []byte{0x00, 0x01, 0x02, 0x7f}, nil)
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNSUPPORTED_TYPE", body.Code)
}

func TestAnalyze_EmptyFile(t *testing.T) {
	server, _ := newTestServer(t, &fakeProvider{result: &analysis.Result{Text: "ok"}})

	req := analyzeRequest(t, "empty.txt", nil, nil)
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNREADABLE_INPUT", body.Code)
}

func TestAnalyze_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"quota", analysis.ErrQuota, http.StatusTooManyRequests, "QUOTA_EXCEEDED"},
		{"blocked", analysis.ErrBlocked, http.StatusBadGateway, "CONTENT_BLOCKED"},
		{"empty response", analysis.ErrEmptyResponse, http.StatusBadGateway, "EMPTY_RESPONSE"},
		{"remote failure", analysis.ErrRemote, http.StatusBadGateway, "REMOTE_FAILURE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, &fakeProvider{err: tt.err})

			req := analyzeRequest(t, "notes.txt", []byte("hello"), nil)
			resp, err := server.App().Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestAnalyze_RecordsHistory(t *testing.T) {
	provider := &fakeProvider{result: &analysis.Result{Text: "ok", Model: "gemini-2.0-flash"}}
	server, journal := newTestServer(t, provider)

	req := analyzeRequest(t, "notes.txt", []byte("hello"), nil)
	resp, err := server.App().Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries, err := journal.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].OK)
	assert.Equal(t, "notes.txt", filepath.Base(entries[0].File))
	assert.Equal(t, "gemini-2.0-flash", entries[0].Model)
}
