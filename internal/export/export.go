// Package export persists analysis results as .txt or .docx files.
// Writes are atomic: content lands in a temp file in the destination
// directory and is renamed into place, so a failed write never leaves a
// partial output behind.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrWrite covers filesystem failures while persisting an output file.
var ErrWrite = errors.New("cannot write output file")

// WriteText writes content to path as UTF-8 text, creating parent
// directories as needed.
func WriteText(path string, content string) error {
	return writeFileAtomic(path, []byte(content))
}

// DefaultPath derives the conventional output path for an input file:
// {base}_{mode}_{lang}{ext} inside outDir. An empty outDir means the
// current directory.
func DefaultPath(inputPath, outDir, mode, lang, ext string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if outDir == "" {
		outDir = "."
	}

	return filepath.Join(outDir, fmt.Sprintf("%s_%s_%s%s", base, mode, lang, ext))
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	tmp, err := os.CreateTemp(dir, ".doclens-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	return nil
}
