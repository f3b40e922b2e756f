// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/docx"
	"github.com/pdiddy/docconv/pkg/types"
)

// EmptySheetText is written in place of the table of a sheet without data
// rows.
const EmptySheetText = "(empty sheet)"

type route struct {
	from, to types.Format
}

// routine writes the conversion of job to out and returns a short detail
// for the progress line.
type routine func(ctx context.Context, job types.ConversionJob, out string) (string, error)

func (c *Converter) dispatch() map[route]routine {
	routes := map[route]routine{
		{types.FormatPDF, types.FormatWord}:         c.pdfToWord,
		{types.FormatPDF, types.FormatSpreadsheet}:  c.pdfToSpreadsheet,
		{types.FormatWord, types.FormatSpreadsheet}: c.wordToSpreadsheet,
		{types.FormatSpreadsheet, types.FormatWord}: c.spreadsheetToWord,
		{types.FormatWord, types.FormatPDF}:         c.officeToPDF,
		{types.FormatSpreadsheet, types.FormatPDF}:  c.officeToPDF,
	}
	for _, f := range types.Formats() {
		routes[route{f, f}] = c.copySame
	}
	return routes
}

func (c *Converter) copySame(_ context.Context, job types.ConversionJob, out string) (string, error) {
	if err := copyFile(job.Source, out); err != nil {
		return "", fmt.Errorf("copying: %w", err)
	}
	return "same format, copied", nil
}

func (c *Converter) pdfToWord(ctx context.Context, job types.ConversionJob, out string) (string, error) {
	if err := c.require(c.needDocuments()); err != nil {
		return "", err
	}
	if err := c.b.Documents.FromPDF(ctx, job.Source, out); err != nil {
		return "", err
	}
	return "", nil
}

func (c *Converter) pdfToSpreadsheet(ctx context.Context, job types.ConversionJob, out string) (string, error) {
	if err := c.require(c.needSheets()); err != nil {
		return "", err
	}
	if c.b.Tables == nil {
		return "", fmt.Errorf("no table extractor configured: %w", capability.ErrMissing)
	}
	res, err := c.b.Tables.Extract(ctx, job.Source)
	if err != nil {
		return "", err
	}
	if len(res.Datasets) == 0 {
		return "", ErrNoDataFound
	}
	if err := c.b.Sheets.Write(out, res.Datasets); err != nil {
		return "", err
	}
	c.logger.Debug("convert.pdf_tables", "source", job.Source, "strategy", res.Strategy,
		"attempted", res.Attempted, "tables", len(res.Datasets))
	return fmt.Sprintf("%s, %s", plural(len(res.Datasets), "sheet"), res.Strategy), nil
}

func (c *Converter) wordToSpreadsheet(_ context.Context, job types.ConversionJob, out string) (string, error) {
	if err := c.require(c.needDocuments(), c.needSheets()); err != nil {
		return "", err
	}
	tbls, err := c.b.Documents.ReadTables(job.Source)
	if err != nil {
		return "", err
	}
	if len(tbls) == 0 {
		return "", fmt.Errorf("%w in document", ErrNoDataFound)
	}

	datasets := make([]types.Dataset, len(tbls))
	for i, t := range tbls {
		datasets[i] = types.DatasetFromRows(fmt.Sprintf("Tabela_%d", i+1), t)
	}
	if err := c.b.Sheets.Write(out, datasets); err != nil {
		return "", err
	}
	return plural(len(datasets), "sheet"), nil
}

// spreadsheetToWord renders every sheet as a level-2 heading with the
// sheet name, then its table (or EmptySheetText), then a page break.
func (c *Converter) spreadsheetToWord(_ context.Context, job types.ConversionJob, out string) (string, error) {
	if err := c.require(c.needSheets(), c.needDocuments()); err != nil {
		return "", err
	}
	sheets, err := c.b.Sheets.Read(job.Source)
	if err != nil {
		return "", err
	}

	doc := docx.New()
	for _, s := range sheets {
		doc.AddHeading(s.Name, 2)
		if len(s.Rows) == 0 {
			doc.AddParagraph(EmptySheetText)
		} else {
			doc.AddTable(s.Header, s.Rows)
		}
		doc.AddPageBreak()
	}
	if err := c.b.Documents.Save(doc, out); err != nil {
		return "", err
	}
	return plural(len(sheets), "sheet"), nil
}

func (c *Converter) officeToPDF(ctx context.Context, job types.ConversionJob, out string) (string, error) {
	if err := c.require(c.needOffice()); err != nil {
		return "", err
	}
	if err := c.b.Office.ExportPDF(ctx, job.Source, out, job.From); err != nil {
		return "", err
	}
	return "", nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
