// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the docconv pipeline:
// document formats, conversion jobs, tabular datasets, run outcomes, and
// the configuration of every optional capability.
package types

import (
	"fmt"
	"strings"
)

// Format identifies one of the three document families docconv converts
// between. The same value is used as the input and the output tag.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatWord        Format = "word"
	FormatSpreadsheet Format = "spreadsheet"
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatPDF, FormatWord, FormatSpreadsheet}
}

var extensions = map[Format]string{
	FormatPDF:         ".pdf",
	FormatWord:        ".docx",
	FormatSpreadsheet: ".xlsx",
}

// Extension returns the file extension (with leading dot) of the format's
// native container, or "" for an unknown format.
func (f Format) Extension() string {
	return extensions[f]
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	_, ok := extensions[f]
	return ok
}

// Label returns a human-readable name for progress and help output.
func (f Format) Label() string {
	switch f {
	case FormatPDF:
		return "PDF"
	case FormatWord:
		return "Word"
	case FormatSpreadsheet:
		return "Excel"
	default:
		return string(f)
	}
}

var aliases = map[string]Format{
	"pdf":         FormatPDF,
	"word":        FormatWord,
	"docx":        FormatWord,
	"doc":         FormatWord,
	"spreadsheet": FormatSpreadsheet,
	"excel":       FormatSpreadsheet,
	"xlsx":        FormatSpreadsheet,
	"sheet":       FormatSpreadsheet,
}

// ParseFormat maps a user-supplied name or extension (case-insensitive,
// optional leading dot) onto a Format.
func ParseFormat(s string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q: use pdf, word, or excel", s)
}
