package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// The OOXML skeleton is written by hand: the docx libraries in use read and
// edit existing packages but cannot create one. Three fixed parts plus the
// generated document body make a package Word and LibreOffice accept.
const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// WriteDocx writes content to path as a Word document. The title paragraph
// is bold, centered and 16pt. With rtl set, body paragraphs are
// right-aligned and flagged bidirectional for Arabic text.
func WriteDocx(path, content, title string, rtl bool) error {
	data, err := buildDocx(content, title, rtl)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	return writeFileAtomic(path, data)
}

func buildDocx(content, title string, rtl bool) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentXML(content, title, rtl)},
	}

	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("writing %s: %v", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %v", err)
	}

	return buf.Bytes(), nil
}

func documentXML(content, title string, rtl bool) string {
	var body strings.Builder

	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	// Title: bold, centered, 16pt (sizes are half-points).
	if title != "" {
		body.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
		body.WriteString(`<w:r><w:rPr><w:b/><w:sz w:val="32"/><w:szCs w:val="32"/></w:rPr>`)
		body.WriteString(`<w:t xml:space="preserve">`)
		body.WriteString(xmlEscaper.Replace(title))
		body.WriteString(`</w:t></w:r></w:p><w:p/>`)
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if rtl {
			body.WriteString(`<w:p><w:pPr><w:bidi/><w:jc w:val="right"/></w:pPr><w:r><w:rPr><w:rtl/></w:rPr>`)
		} else {
			body.WriteString(`<w:p><w:r>`)
		}
		body.WriteString(`<w:t xml:space="preserve">`)
		body.WriteString(xmlEscaper.Replace(line))
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	body.WriteString(`</w:body></w:document>`)
	return body.String()
}
