// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/pdflayout"
	"github.com/pdiddy/docconv/pkg/types"
)

// ErrNoPages is returned by FromPDF for a PDF without pages.
var ErrNoPages = errors.New("PDF has no pages")

// Binding is the document-model capability: it reads and writes Word
// documents and rebuilds a PDF's text flow as a Word document.
type Binding struct {
	enabled bool
	layout  pdflayout.Options
}

// NewBinding returns the document-model binding. Layout tolerances are
// shared with the layout table strategy.
func NewBinding(cfg types.DocumentConfig, layout types.LayoutConfig) *Binding {
	return &Binding{
		enabled: cfg.Enabled,
		layout:  pdflayout.Options{LineTolerance: layout.LineTolerance, ColumnTolerance: layout.ColumnTolerance},
	}
}

func (b *Binding) Capability() capability.Name { return capability.DocumentModel }
func (b *Binding) Available() bool             { return b.enabled }
func (b *Binding) Describe() string            { return "built-in WordprocessingML" }

// ReadTables returns the body tables of the document at path.
func (b *Binding) ReadTables(path string) ([]Table, error) {
	return ReadTables(path)
}

// Save writes doc to path.
func (b *Binding) Save(doc *Document, path string) error {
	return doc.Save(path)
}

// FromPDF writes a Word document at out holding the text of the PDF at
// pdfPath. Each page's lines become paragraphs and detected tables become
// Word tables; pages are separated by page breaks.
func (b *Binding) FromPDF(ctx context.Context, pdfPath, out string) error {
	pages, err := pdflayout.ReadFile(pdfPath)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("%s: %w", pdfPath, ErrNoPages)
	}

	doc := New()
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			doc.AddPageBreak()
		}
		for _, blk := range p.Blocks(b.layout) {
			switch {
			case blk.Table != nil && len(blk.Table.Rows) > 0:
				doc.AddTable(blk.Table.Rows[0], blk.Table.Rows[1:])
			case blk.Line != nil:
				doc.AddParagraph(blk.Line.Text())
			}
		}
	}
	return doc.Save(out)
}
