// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdflayout recovers positioned text from PDF pages and infers
// lines and tables from it. Documents are read with rsc.io/pdf, which
// resolves objects, decodes content streams, and maps shown strings
// through each font's encoding or ToUnicode CMap. Files rsc.io/pdf cannot
// open are rewritten by pdfcpu, which repairs damaged cross-reference
// data, and read again.
package pdflayout

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	rpdf "rsc.io/pdf"
)

// Page holds the text fragments of one page. Number is 1-based.
type Page struct {
	Number    int
	Fragments []Fragment
}

// Lines groups the page's fragments into lines.
func (p Page) Lines(opts Options) []Line {
	return GroupLines(p.Fragments, opts)
}

// Tables detects tables on the page.
func (p Page) Tables(opts Options) []Table {
	return DetectTables(p.Lines(opts), opts)
}

// Blocks lays the page out as text lines and tables in reading order.
func (p Page) Blocks(opts Options) []Block {
	return Blocks(p.Lines(opts), opts)
}

// ReadFile opens the PDF at path and returns every page in order. A page
// whose content cannot be interpreted keeps the fragments read before the
// failure; a page without content yields an empty Page.
func ReadFile(path string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}

	r, n, err := open(f, info.Size())
	if err != nil {
		r, n, err = repair(f)
		if err != nil {
			return nil, fmt.Errorf("reading PDF %s: %w", path, err)
		}
	}

	pages := make([]Page, 0, n)
	for nr := 1; nr <= n; nr++ {
		frags, _ := pageFragments(r, nr)
		pages = append(pages, Page{Number: nr, Fragments: frags})
	}
	return pages, nil
}

// open reads the cross-reference data and page tree of a PDF.
func open(ra io.ReaderAt, size int64) (r *rpdf.Reader, n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, n, err = nil, 0, fmt.Errorf("malformed PDF: %v", p)
		}
	}()
	r, err = rpdf.NewReader(ra, size)
	if err != nil {
		return nil, 0, err
	}
	return r, r.NumPage(), nil
}

// repair has pdfcpu read, validate and rewrite the document with a plain
// cross-reference table, then opens the rewritten copy.
func repair(rs io.ReadSeeker) (*rpdf.Reader, int, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}
	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	ctx, err := api.ReadValidateAndOptimize(rs, conf)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, 0, fmt.Errorf("rewriting: %w", err)
	}
	data := buf.Bytes()
	return open(bytes.NewReader(data), int64(len(data)))
}
