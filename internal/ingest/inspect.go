package ingest

import (
	"bytes"
	"image"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/kapmahc/epub"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/doclens-app/doclens/internal/extract"
)

// Info is offline metadata about an input file. Format details are best
// effort; a file that cannot be parsed still gets the basic fields.
type Info struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
	MIME string `json:"mime"`
	Size int64  `json:"size"`

	Pages     int      `json:"pages,omitempty"`
	Encrypted bool     `json:"encrypted,omitempty"`
	Width     int      `json:"width,omitempty"`
	Height    int      `json:"height,omitempty"`
	Sheets    []string `json:"sheets,omitempty"`
	Chapters  int      `json:"chapters,omitempty"`
	Words     int      `json:"words,omitempty"`
}

// Inspect loads a file and reports its metadata without any network call.
func Inspect(path string) (*Info, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Path: doc.Path,
		Name: doc.Name,
		Kind: doc.Kind,
		MIME: doc.MIME,
		Size: doc.Size,
	}

	switch {
	case doc.Kind == KindPDF:
		inspectPDF(doc.Data, info)
	case doc.Kind == KindImage:
		inspectImage(doc.Data, info)
	case doc.MIME == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		inspectXLSX(doc.Data, info)
	case doc.MIME == "application/epub+zip":
		inspectEPUB(doc.Data, info)
	default:
		inspectText(doc, info)
	}

	return info, nil
}

func inspectPDF(data []byte, info *Info) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// Encrypted documents fail to open without a password; they are
		// still analyzable remotely, so this is advisory only.
		if bytes.Contains(data, []byte("/Encrypt")) {
			info.Encrypted = true
		}
		log.Debug().Err(err).Str("file", info.Name).Msg("PDF details unavailable")
		return
	}

	info.Pages = reader.NumPage()
}

func inspectImage(data []byte, info *Info) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Str("file", info.Name).Msg("Image dimensions unavailable")
		return
	}

	info.Width = cfg.Width
	info.Height = cfg.Height

	// Word count for images needs local OCR, which only tagged builds have.
	if extract.OCRAvailable() {
		text, err := extract.NewWithOCRLanguages([]string{"ara", "eng"}).FromImage(data)
		if err != nil {
			log.Debug().Err(err).Str("file", info.Name).Msg("OCR word count unavailable")
			return
		}
		info.Words = len(strings.Fields(text))
	}
}

func inspectXLSX(data []byte, info *Info) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Str("file", info.Name).Msg("Workbook details unavailable")
		return
	}
	defer f.Close()

	info.Sheets = f.GetSheetList()
}

func inspectEPUB(data []byte, info *Info) {
	// The epub library only opens paths.
	tmp, err := os.CreateTemp("", "doclens-*.epub")
	if err != nil {
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return
	}
	tmp.Close()

	book, err := epub.Open(tmp.Name())
	if err != nil {
		log.Debug().Err(err).Str("file", info.Name).Msg("EPUB details unavailable")
		return
	}
	defer book.Close()

	for _, rf := range book.Opf.Manifest {
		if rf.MediaType == "application/xhtml+xml" || rf.MediaType == "text/html" {
			info.Chapters++
		}
	}
}

func inspectText(doc *Document, info *Info) {
	text, err := extract.New().Extract(doc.Data, doc.MIME)
	if err != nil {
		log.Debug().Err(err).Str("file", info.Name).Msg("Text details unavailable")
		return
	}

	info.Words = len(strings.Fields(text))
}
