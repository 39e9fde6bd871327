// Package ingest reads input files and classifies them for analysis.
// Documents are held fully in memory; the size cap keeps that sane.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// MaxFileSize is the hard cap on input files. Anything larger is rejected
// before analysis regardless of kind.
const MaxFileSize = 100 * 1024 * 1024

var (
	// ErrRead covers filesystem failures while loading an input file.
	ErrRead = errors.New("cannot read input file")

	// ErrUnsupportedType means neither the extension nor the content
	// identified a supported format.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileTooLarge means the input exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file too large")

	// ErrEmptyFile means the input has no content.
	ErrEmptyFile = errors.New("file is empty")
)

// Kind classifies how an input is analyzed.
type Kind string

const (
	// KindPDF inputs are sent to the model as raw bytes.
	KindPDF Kind = "pdf"
	// KindImage inputs are sent to the model as raw bytes.
	KindImage Kind = "image"
	// KindDocument inputs have their text extracted locally first.
	KindDocument Kind = "document"
)

// Document is one fully loaded input file.
type Document struct {
	Path string
	Name string
	Data []byte
	Kind Kind
	MIME string
	Size int64
}

// Base returns the file name without its extension, used for output naming
// and document titles.
func (d *Document) Base() string {
	name := filepath.Base(d.Name)
	return name[:len(name)-len(filepath.Ext(name))]
}

// ReadFile loads path into memory and classifies it.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrFileTooLarge, path, len(data), MaxFileSize)
	}

	kind, mime, err := DetectKind(path, data)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path: path,
		Name: filepath.Base(path),
		Data: data,
		Kind: kind,
		MIME: mime,
		Size: int64(len(data)),
	}, nil
}
