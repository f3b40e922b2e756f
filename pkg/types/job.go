// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionJob describes one file to convert. It has no identity beyond
// the call that consumes it.
type ConversionJob struct {
	// Source is the path of the file to read. It is never modified.
	Source string `json:"source" yaml:"source"`

	// From is the format of Source.
	From Format `json:"from" yaml:"from"`

	// To is the format to produce.
	To Format `json:"to" yaml:"to"`
}

// Dataset is one table: a header row and zero or more data rows. Each
// dataset becomes one sheet when written to a workbook.
type Dataset struct {
	// Name is the sheet name (e.g. "Tabela_1", "P2_T1").
	Name string `json:"name" yaml:"name"`

	// Header holds the column labels taken from the first raw row.
	Header []string `json:"header" yaml:"header"`

	// Rows holds the remaining rows, cell text verbatim.
	Rows [][]string `json:"rows" yaml:"rows"`
}

// Width returns the number of columns needed to hold the header and the
// widest data row.
func (d Dataset) Width() int {
	w := len(d.Header)
	for _, r := range d.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// DatasetFromRows splits raw rows into a Dataset, using the first row as the
// header. An empty input yields a dataset with no header and no rows.
func DatasetFromRows(name string, raw [][]string) Dataset {
	d := Dataset{Name: name}
	if len(raw) == 0 {
		return d
	}
	d.Header = raw[0]
	d.Rows = raw[1:]
	return d
}

// ExtractionResult is the output of the one strategy that found tables in a
// PDF. A result with zero datasets is never returned as a success.
type ExtractionResult struct {
	// Strategy names the strategy that produced the datasets.
	Strategy string `json:"strategy" yaml:"strategy"`

	// Datasets holds the extracted tables in document order.
	Datasets []Dataset `json:"datasets" yaml:"datasets"`

	// Attempted lists every strategy tried, in order, including the winner.
	Attempted []string `json:"attempted" yaml:"attempted"`
}

// FallbackUsed reports whether a strategy other than the first tried
// produced the result.
func (r ExtractionResult) FallbackUsed() bool {
	return len(r.Attempted) > 1
}

// FileStatus is the outcome of converting a single file.
type FileStatus string

const (
	FileConverted FileStatus = "converted"
	FileCopied    FileStatus = "copied"
	FileFailed    FileStatus = "failed"
)

// FileOutcome records what happened to one file in a run.
type FileOutcome struct {
	Job      ConversionJob `json:"job" yaml:"job"`
	Output   string        `json:"output" yaml:"output"`
	Status   FileStatus    `json:"status" yaml:"status"`
	ErrKind  string        `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Message  string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// RunRequest is what the presentation layer hands to the core: a path
// (file or directory), the two format tags, and the batch flag.
type RunRequest struct {
	Path  string `json:"path" yaml:"path"`
	From  Format `json:"from" yaml:"from"`
	To    Format `json:"to" yaml:"to"`
	Batch bool   `json:"batch" yaml:"batch"`
}

// BatchSummary holds the counts of a conversion run.
type BatchSummary struct {
	Converted int
	Failed    int

	// Notice is set when the run ended with an informational outcome
	// (no matching files, batch flag missing) instead of converting.
	Notice string
}

// Total returns the number of files attempted.
func (s BatchSummary) Total() int {
	return s.Converted + s.Failed
}

// HasFailures reports whether any file failed conversion.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}
