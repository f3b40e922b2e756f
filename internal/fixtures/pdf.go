// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fixtures writes small sample documents for tests and for the
// mage Fixtures target. PDFs are authored with fpdf using left-aligned
// cells, so every cell is one text fragment at its column origin.
package fixtures

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	cellWidth  = 40.0
	cellHeight = 8.0
)

// PDFPage is the content of one generated page. Title and Paragraphs are
// written as single-cell lines; Tables are written as bordered grids
// separated by a paragraph gap.
type PDFPage struct {
	Title      string
	Tables     [][][]string
	Paragraphs []string
}

// WritePDF writes one page per PDFPage to path. At least one page is
// always written.
func WritePDF(path string, pages ...PDFPage) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetFont("Arial", "", 10)

	if len(pages) == 0 {
		pages = []PDFPage{{}}
	}
	for _, p := range pages {
		pdf.AddPage()
		if p.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, p.Title, "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.Ln(4)
		}
		for i, table := range p.Tables {
			if i > 0 {
				pdf.Ln(12)
			}
			for _, row := range table {
				for _, cell := range row {
					pdf.CellFormat(cellWidth, cellHeight, cell, "1", 0, "L", false, 0, "")
				}
				pdf.Ln(cellHeight)
			}
		}
		if len(p.Tables) > 0 && len(p.Paragraphs) > 0 {
			pdf.Ln(12)
		}
		for _, para := range p.Paragraphs {
			pdf.CellFormat(0, 6, para, "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF fixture %s: %w", path, err)
	}
	return nil
}

// SampleTable is a three-column price list with a header row.
func SampleTable() [][]string {
	return [][]string{
		{"Item", "Qty", "Price"},
		{"Apple", "3", "1.20"},
		{"Pear", "5", "0.80"},
	}
}
