// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook reads and writes .xlsx workbooks with excelize. Each
// sheet maps to one types.Dataset: the first row holds the column labels,
// the remaining rows hold the data.
package workbook

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/pkg/types"
)

const (
	defaultSheet = "Sheet1"
	maxColWidth  = 60.0
	minColWidth  = 8.0
)

// ErrNoDatasets is returned by Write when there is nothing to put in the
// workbook. A workbook must hold at least one sheet.
var ErrNoDatasets = errors.New("no datasets to write")

// Binding is the spreadsheet capability.
type Binding struct {
	enabled bool
	logger  *slog.Logger
}

// NewBinding returns the excelize-backed spreadsheet binding.
func NewBinding(cfg types.SpreadsheetConfig, logger *slog.Logger) *Binding {
	if logger == nil {
		logger = slog.Default()
	}
	return &Binding{enabled: cfg.Enabled, logger: logger}
}

func (b *Binding) Capability() capability.Name { return capability.Spreadsheet }
func (b *Binding) Available() bool             { return b.enabled }
func (b *Binding) Describe() string            { return "excelize" }

// Write creates a workbook at path with one sheet per dataset, in order.
// The header is written to row 1 in bold and frozen; data rows follow. The
// first sheet is active. An existing file at path is replaced.
func (b *Binding) Write(path string, datasets []types.Dataset) error {
	if len(datasets) == 0 {
		return ErrNoDatasets
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			b.logger.Warn("workbook.close_failed", "path", path, "error", err)
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	used := make(map[string]bool, len(datasets))
	for i, ds := range datasets {
		sheet := SheetName(ds.Name, i+1, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return fmt.Errorf("naming sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("adding sheet %q: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, ds, bold); err != nil {
			return fmt.Errorf("writing sheet %q: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	b.logger.Debug("workbook.written", "path", path, "sheets", len(datasets))
	return nil
}

func writeSheet(f *excelize.File, sheet string, ds types.Dataset, headerStyle int) error {
	width := ds.Width()
	rows := make([][]string, 0, len(ds.Rows)+1)
	if len(ds.Header) > 0 || len(ds.Rows) > 0 {
		rows = append(rows, ds.Header)
	}
	rows = append(rows, ds.Rows...)

	widths := make([]int, width)
	for i, r := range rows {
		cells := make([]interface{}, len(r))
		for j, v := range r {
			cells[j] = v
			widths[j] = max(widths[j], utf8.RuneCountInString(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	if len(ds.Header) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return err
		}
	}

	for j, w := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, min(max(float64(w)+2, minColWidth), maxColWidth)); err != nil {
			return err
		}
	}
	return nil
}

// Read returns every sheet of the workbook at path, in workbook order. Rows
// are padded with empty strings to the sheet's width, so a missing cell
// reads as "". A sheet with no rows yields a dataset with no header.
func (b *Binding) Read(path string) ([]types.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			b.logger.Warn("workbook.close_failed", "path", path, "error", err)
		}
	}()

	var datasets []types.Dataset
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
		}
		datasets = append(datasets, types.DatasetFromRows(sheet, padRows(rows)))
	}
	return datasets, nil
}

func padRows(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for i, r := range rows {
		if len(r) < width {
			padded := make([]string, width)
			copy(padded, r)
			rows[i] = padded
		}
	}
	return rows
}

// SheetName makes name usable as a worksheet name: characters Excel
// rejects become underscores, the result is cut to 31 characters, and a
// name already in used gets a numeric suffix. An empty name becomes
// "Sheet{n}". The chosen name is added to used.
func SheetName(name string, n int, used map[string]bool) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = fmt.Sprintf("Sheet%d", n)
	}
	name = truncateRunes(name, excelize.MaxSheetNameLength)

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate = truncateRunes(name, excelize.MaxSheetNameLength-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
