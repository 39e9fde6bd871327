//go:build cgo && ocr

package extract

import (
	"fmt"
	"os/exec"

	"github.com/otiai10/gosseract/v2"
)

func ocrAvailable() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

func ocrImage(data []byte, languages []string) (string, error) {
	if !ocrAvailable() {
		return "", ErrOCRUnavailable
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return text, nil
}
