//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"

	"github.com/pdiddy/docconv/internal/docx"
	"github.com/pdiddy/docconv/internal/fixtures"
	"github.com/pdiddy/docconv/internal/workbook"
	"github.com/pdiddy/docconv/pkg/types"
)

// Fixtures writes sample PDF, Word and Excel files into testdata/ for
// trying conversions by hand.
func Fixtures() error {
	mg.Deps(Init)

	pdfs := map[string][]fixtures.PDFPage{
		"invoice.pdf": {{
			Title:      "Invoice 2026-014",
			Tables:     [][][]string{fixtures.SampleTable()},
			Paragraphs: []string{"Payment due within 30 days."},
		}},
		"report.pdf": {
			{Title: "Quarterly report", Paragraphs: []string{"Summary of the quarter."}},
			{Title: "Figures", Tables: [][][]string{
				{{"Region", "Q1", "Q2"}, {"North", "120", "135"}, {"South", "98", "101"}},
				fixtures.SampleTable(),
			}},
		},
		"notes.pdf": {{Title: "Meeting notes", Paragraphs: []string{"No tables on this page."}}},
	}
	for name, pages := range pdfs {
		if err := fixtures.WritePDF(filepath.Join("testdata", "pdf", name), pages...); err != nil {
			return err
		}
	}

	doc := docx.New()
	doc.AddHeading("Price list", 1)
	sample := fixtures.SampleTable()
	doc.AddTable(sample[0], sample[1:])
	doc.AddParagraph("Prices include tax.")
	if err := doc.Save(filepath.Join("testdata", "word", "prices.docx")); err != nil {
		return fmt.Errorf("writing Word fixture: %w", err)
	}
	empty := docx.New()
	empty.AddParagraph("This document has no tables.")
	if err := empty.Save(filepath.Join("testdata", "word", "letter.docx")); err != nil {
		return fmt.Errorf("writing Word fixture: %w", err)
	}

	sheets := workbook.NewBinding(types.SpreadsheetConfig{Enabled: true}, nil)
	datasets := []types.Dataset{
		types.DatasetFromRows("Prices", sample),
		types.DatasetFromRows("Stock", [][]string{{"Item", "On hand"}, {"Apple", "40"}, {"Pear", "12"}}),
		{Name: "Empty", Header: []string{"Notes"}},
	}
	if err := sheets.Write(filepath.Join("testdata", "excel", "inventory.xlsx"), datasets); err != nil {
		return fmt.Errorf("writing Excel fixture: %w", err)
	}

	fmt.Println("Fixtures written to testdata/.")
	return nil
}
