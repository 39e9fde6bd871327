//go:build !cgo || !ocr

package extract

func ocrAvailable() bool {
	return false
}

func ocrImage(data []byte, languages []string) (string, error) {
	return "", ErrOCRUnavailable
}
