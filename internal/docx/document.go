// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads and writes Word documents (WordprocessingML packages).
// The writer produces a minimal package with paragraphs, headings, tables
// and page breaks; the reader recovers body tables as cell text.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Document accumulates body content. The zero value is an empty document
// ready to use.
type Document struct {
	body strings.Builder
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// AddHeading appends a heading paragraph. Levels outside 1..3 are clamped.
func (d *Document) AddHeading(text string, level int) {
	level = max(1, min(level, 3))
	d.body.WriteString(`<w:p><w:pPr><w:pStyle w:val="Heading`)
	fmt.Fprintf(&d.body, "%d", level)
	d.body.WriteString(`"/></w:pPr>`)
	writeRuns(&d.body, text)
	d.body.WriteString(`</w:p>`)
}

// AddParagraph appends a body paragraph. Newlines become line breaks.
func (d *Document) AddParagraph(text string) {
	d.body.WriteString(`<w:p>`)
	writeRuns(&d.body, text)
	d.body.WriteString(`</w:p>`)
}

// AddTable appends a bordered table with header as its first row. Rows
// shorter than the widest row are padded with empty cells.
func (d *Document) AddTable(header []string, rows [][]string) {
	width := len(header)
	for _, r := range rows {
		width = max(width, len(r))
	}
	if width == 0 {
		return
	}

	b := &d.body
	b.WriteString(`<w:tbl><w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
	colWidth := textWidth / width
	for range width {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, colWidth)
	}
	b.WriteString(`</w:tblGrid>`)
	writeRow(b, header, width, colWidth)
	for _, r := range rows {
		writeRow(b, r, width, colWidth)
	}
	b.WriteString(`</w:tbl>`)
	// Word merges adjacent tables unless a paragraph separates them.
	b.WriteString(`<w:p/>`)
}

// AddPageBreak starts a new page.
func (d *Document) AddPageBreak() {
	d.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

// Save writes the document as a .docx package at path, replacing any
// existing file.
func (d *Document) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	zw := zip.NewWriter(f)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", d.documentXML()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing %s: %w", path, err)
	}
	return nil
}

func (d *Document) documentXML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)
	b.WriteString(d.body.String())
	b.WriteString(sectionXML)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeRow(b *strings.Builder, cells []string, width, colWidth int) {
	b.WriteString(`<w:tr>`)
	for i := range width {
		var text string
		if i < len(cells) {
			text = cells[i]
		}
		fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/></w:tcPr>`, colWidth)
		// A cell holds at least one paragraph; each line of the text gets
		// its own so the reader joins them back with newlines.
		for _, line := range strings.Split(text, "\n") {
			b.WriteString(`<w:p>`)
			writeRuns(b, line)
			b.WriteString(`</w:p>`)
		}
		b.WriteString(`</w:tc>`)
	}
	b.WriteString(`</w:tr>`)
}

// writeRuns writes text as one run, turning newlines into breaks and tabs
// into tab elements.
func writeRuns(b *strings.Builder, text string) {
	if text == "" {
		return
	}
	b.WriteString(`<w:r>`)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString(`<w:tab/>`)
			}
			if seg == "" {
				continue
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			_ = xml.EscapeText(b, []byte(seg))
			b.WriteString(`</w:t>`)
		}
	}
	b.WriteString(`</w:r>`)
}
