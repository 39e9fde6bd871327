package ingest

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// mimeByExtension maps supported extensions to their MIME types. The
// extension is authoritative; content sniffing only runs when the
// extension is unknown.
var mimeByExtension = map[string]string{
	// sent to the model as raw bytes
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"heic": "image/heic",
	"heif": "image/heif",

	// text extracted locally
	"txt":  "text/plain",
	"md":   "text/markdown",
	"log":  "text/plain",
	"json": "application/json",
	"html": "text/html",
	"htm":  "text/html",
	"csv":  "text/csv",
	"tsv":  "text/tab-separated-values",
	"rtf":  "application/rtf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"epub": "application/epub+zip",
}

// MimeTypeFromExtension returns the MIME type for a file extension, or
// application/octet-stream when the extension is unknown.
func MimeTypeFromExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if mime, ok := mimeByExtension[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// KindForMime classifies a MIME type.
func KindForMime(mime string) (Kind, bool) {
	switch {
	case mime == "application/pdf":
		return KindPDF, true
	case strings.HasPrefix(mime, "image/"):
		return KindImage, true
	case strings.HasPrefix(mime, "text/"),
		mime == "application/json",
		mime == "application/rtf",
		mime == "application/epub+zip",
		mime == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		mime == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return KindDocument, true
	default:
		return "", false
	}
}

// DetectKind classifies a file by extension first, then by content when the
// extension is unknown.
func DetectKind(path string, data []byte) (Kind, string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if mime, ok := mimeByExtension[ext]; ok {
		kind, _ := KindForMime(mime)
		return kind, mime, nil
	}

	mime := sniffContentType(data)
	if kind, ok := KindForMime(mime); ok {
		return kind, mime, nil
	}

	return "", "", fmt.Errorf("%w: %s (detected %s)", ErrUnsupportedType, filepath.Base(path), mime)
}

// sniffContentType inspects the leading bytes of the file. The charset
// suffix DetectContentType appends is stripped.
func sniffContentType(data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return "application/pdf"
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}

	mime := http.DetectContentType(head)
	if base, _, found := strings.Cut(mime, ";"); found {
		mime = strings.TrimSpace(base)
	}
	return mime
}
