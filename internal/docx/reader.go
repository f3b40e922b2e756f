// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is the cell text of one body table, row by row.
type Table [][]string

// ReadTables returns every top-level table in the document body, in
// document order. Cell text is verbatim: the paragraphs of a cell are joined
// with "\n". A cell spanning several grid columns is repeated once per
// column, and a vertically merged continuation cell repeats the text of the
// cell above it. Tables nested inside cells are not returned and do not
// contribute to their parent cell's text.
func ReadTables(path string) ([]Table, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in %s", path)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()

	tables, err := parseTables(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tables, nil
}

// cellState collects one table cell while its XML is decoded.
type cellState struct {
	paras  []string
	para   strings.Builder
	inPara bool
	span   int
	vMerge string // "", "restart" or "continue"
}

func parseTables(r io.Reader) ([]Table, error) {
	dec := xml.NewDecoder(r)

	var (
		tables []Table
		table  Table
		row    []string
		cell   *cellState
		depth  int // table nesting depth
		inRun  bool
		inText bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tbl" {
				depth++
				if depth == 1 {
					table = nil
				}
				continue
			}
			if depth != 1 {
				continue
			}
			switch t.Name.Local {
			case "tr":
				row = nil
			case "tc":
				cell = &cellState{span: 1}
			case "gridSpan":
				if cell != nil {
					if n, err := strconv.Atoi(attr(t, "val")); err == nil && n > 1 {
						cell.span = n
					}
				}
			case "vMerge":
				if cell != nil {
					cell.vMerge = "continue"
					if attr(t, "val") == "restart" {
						cell.vMerge = "restart"
					}
				}
			case "p":
				if cell != nil {
					cell.inPara = true
					cell.para.Reset()
				}
			case "r":
				inRun = cell != nil && cell.inPara
			case "t":
				inText = inRun
			case "tab":
				if inRun {
					cell.para.WriteByte('\t')
				}
			case "br", "cr":
				if inRun {
					cell.para.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText && depth == 1 {
				cell.para.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "tbl" {
				if depth == 1 {
					tables = append(tables, table)
				}
				depth--
				continue
			}
			if depth != 1 {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "r":
				inRun = false
			case "p":
				if cell != nil && cell.inPara {
					cell.paras = append(cell.paras, cell.para.String())
					cell.inPara = false
				}
			case "tc":
				if cell == nil {
					continue
				}
				text := strings.Join(cell.paras, "\n")
				if cell.vMerge == "continue" && len(table) > 0 {
					above := table[len(table)-1]
					if col := len(row); col < len(above) {
						text = above[col]
					}
				}
				for range cell.span {
					row = append(row, text)
				}
				cell = nil
			case "tr":
				table = append(table, row)
				row = nil
			}
		}
	}
	return tables, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
