// Package extract turns office, ebook and text formats into plain text for
// prompt assembly. PDF and image inputs are not handled here; those go to
// the model as raw bytes (images can be OCR'd locally in tagged builds).
package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/kapmahc/epub"
	"github.com/nguyenthenguyen/docx"
	"github.com/xuri/excelize/v2"
)

// ErrOCRUnavailable means the binary was built without OCR support or no
// tesseract install was found.
var ErrOCRUnavailable = errors.New("OCR not available")

// Extractor extracts text content from document formats
type Extractor struct {
	ocrLanguages []string
}

// New creates an extractor. OCR language hints apply only to builds with
// OCR support.
func New() *Extractor {
	return &Extractor{ocrLanguages: []string{"eng"}}
}

// NewWithOCRLanguages creates an extractor with tesseract language codes
// for image inputs (e.g. "ara", "eng").
func NewWithOCRLanguages(languages []string) *Extractor {
	if len(languages) == 0 {
		return New()
	}
	return &Extractor{ocrLanguages: languages}
}

// SupportedMimeTypes returns the MIME types the extractor handles.
func (e *Extractor) SupportedMimeTypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/html",
		"text/csv",
		"text/tab-separated-values",
		"application/json",
		"application/rtf",
		"application/epub+zip",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
}

// Extract extracts text from a document based on its MIME type.
func (e *Extractor) Extract(data []byte, mimeType string) (string, error) {
	var text string
	var err error

	switch mimeType {
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		text, err = e.FromDOCX(data)
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		text, err = e.FromXLSX(data)
	case "text/html":
		text, err = e.FromHTML(data)
	case "text/csv":
		text, err = e.fromDelimited(data, ',')
	case "text/tab-separated-values":
		text, err = e.fromDelimited(data, '\t')
	case "application/rtf":
		text, err = e.FromRTF(data)
	case "application/epub+zip":
		text, err = e.FromEPUB(data)
	case "text/plain", "text/markdown", "application/json":
		text, err = e.FromText(data)
	default:
		return "", fmt.Errorf("unsupported MIME type: %s", mimeType)
	}

	if err != nil {
		return "", err
	}

	return Sanitize(text), nil
}

// FromDOCX extracts text from Word documents. The library exposes the raw
// WordprocessingML, so paragraph tags are turned into newlines and the
// remaining markup is stripped.
func (e *Extractor) FromDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	paraRe := regexp.MustCompile(`(?i)</w:p>`)
	content = paraRe.ReplaceAllString(content, "\n")

	tagRe := regexp.MustCompile(`<[^>]+>`)
	content = tagRe.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", "\"")
	content = strings.ReplaceAll(content, "&apos;", "'")

	newlineRe := regexp.MustCompile(`\n{3,}`)
	content = newlineRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content), nil
}

// FromXLSX extracts text from Excel spreadsheets
func (e *Extractor) FromXLSX(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read XLSX: %w", err)
	}
	defer f.Close()

	var text strings.Builder
	sheets := f.GetSheetList()

	for _, sheet := range sheets {
		text.WriteString(fmt.Sprintf("=== Sheet: %s ===\n", sheet))

		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		for _, row := range rows {
			text.WriteString(strings.Join(row, "\t"))
			text.WriteString("\n")
		}
		text.WriteString("\n")
	}

	return strings.TrimSpace(text.String()), nil
}

// FromHTML extracts text from HTML documents by stripping tags
func (e *Extractor) FromHTML(data []byte) (string, error) {
	content := string(data)

	// Remove script and style tags with their content
	scriptRe := regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	content = scriptRe.ReplaceAllString(content, "")

	styleRe := regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	content = styleRe.ReplaceAllString(content, "")

	// Replace block elements with newlines
	blockRe := regexp.MustCompile(`(?i)</(div|p|h[1-6]|li|tr|br|hr)[^>]*>`)
	content = blockRe.ReplaceAllString(content, "\n")

	// Remove all remaining HTML tags
	tagRe := regexp.MustCompile(`<[^>]+>`)
	content = tagRe.ReplaceAllString(content, "")

	// Decode common HTML entities
	content = strings.ReplaceAll(content, "&nbsp;", " ")
	content = strings.ReplaceAll(content, "&amp;", "&")
	content = strings.ReplaceAll(content, "&lt;", "<")
	content = strings.ReplaceAll(content, "&gt;", ">")
	content = strings.ReplaceAll(content, "&quot;", "\"")
	content = strings.ReplaceAll(content, "&#39;", "'")

	// Clean up whitespace
	spaceRe := regexp.MustCompile(`[ \t]+`)
	content = spaceRe.ReplaceAllString(content, " ")

	newlineRe := regexp.MustCompile(`\n{3,}`)
	content = newlineRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content), nil
}

// fromDelimited extracts text from CSV and TSV files
func (e *Extractor) fromDelimited(data []byte, comma rune) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	var text strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Try to continue despite errors
			continue
		}
		text.WriteString(strings.Join(record, "\t"))
		text.WriteString("\n")
	}

	return strings.TrimSpace(text.String()), nil
}

// FromCSV extracts text from CSV files
func (e *Extractor) FromCSV(data []byte) (string, error) {
	return e.fromDelimited(data, ',')
}

// FromRTF extracts text from RTF documents. Header groups (font and color
// tables, metadata, embedded pictures) are dropped; the enclosing document
// group itself must survive, it holds the text.
func (e *Extractor) FromRTF(data []byte) (string, error) {
	content := string(data)

	// Escaped braces must not look like group delimiters below.
	content = strings.ReplaceAll(content, "\\{", "\x01")
	content = strings.ReplaceAll(content, "\\}", "\x02")

	// Paragraph and line marks become newlines before control words go.
	parRe := regexp.MustCompile(`\\(par|line)\b`)
	content = parRe.ReplaceAllString(content, "\n")

	// Ignorable destinations carry no document text.
	ignorableRe := regexp.MustCompile(`\{\\\*[^{}]*\}`)
	for ignorableRe.MatchString(content) {
		content = ignorableRe.ReplaceAllString(content, "")
	}

	// Header tables, with one nesting level for their subgroups.
	headerRe := regexp.MustCompile(`\{\\(?:fonttbl|colortbl|stylesheet|info|themedata|pict)(?:[^{}]|\{[^{}]*\})*\}`)
	for headerRe.MatchString(content) {
		content = headerRe.ReplaceAllString(content, "")
	}

	// Remove RTF control words
	controlRe := regexp.MustCompile(`\\[a-zA-Z]+-?\d*\s?`)
	content = controlRe.ReplaceAllString(content, "")

	// Remaining braces are group delimiters, not text.
	content = strings.ReplaceAll(content, "{", "")
	content = strings.ReplaceAll(content, "}", "")

	// Restore escapes
	content = strings.ReplaceAll(content, "\x01", "{")
	content = strings.ReplaceAll(content, "\x02", "}")
	content = strings.ReplaceAll(content, "\\\\", "\\")

	// Clean up
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	spaceRe := regexp.MustCompile(`[ \t]+`)
	content = spaceRe.ReplaceAllString(content, " ")

	newlineRe := regexp.MustCompile(`\n{3,}`)
	content = newlineRe.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content), nil
}

// FromEPUB extracts text from EPUB e-books
func (e *Extractor) FromEPUB(data []byte) (string, error) {
	// Write data to a temp file since the epub library needs a file path
	tmpFile, err := os.CreateTemp("", "doclens-*.epub")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	book, err := epub.Open(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read EPUB: %w", err)
	}
	defer book.Close()

	var text strings.Builder

	// Extract text from each chapter
	for _, rf := range book.Opf.Manifest {
		if rf.MediaType == "application/xhtml+xml" || rf.MediaType == "text/html" {
			content, err := book.Open(rf.Href)
			if err != nil {
				continue
			}
			contentBytes, err := io.ReadAll(content)
			content.Close()
			if err != nil {
				continue
			}

			extracted, err := e.FromHTML(contentBytes)
			if err == nil && extracted != "" {
				text.WriteString(extracted)
				text.WriteString("\n\n")
			}
		}
	}

	return strings.TrimSpace(text.String()), nil
}

// FromText handles plain text, markdown, and JSON files
func (e *Extractor) FromText(data []byte) (string, error) {
	return string(data), nil
}

// FromImage runs local OCR over an image. It returns ErrOCRUnavailable in
// default builds; analysis of images normally happens remotely.
func (e *Extractor) FromImage(data []byte) (string, error) {
	text, err := ocrImage(data, e.ocrLanguages)
	if err != nil {
		return "", err
	}
	return Sanitize(text), nil
}

// OCRAvailable reports whether this build can OCR images locally.
func OCRAvailable() bool {
	return ocrAvailable()
}
