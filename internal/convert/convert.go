// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert converts documents between PDF, Word and Excel. A
// dispatch table maps each (from, to) pair to a routine; routines check the
// capability Registry before touching a binding, and a failed conversion
// never leaves a file at the derived output path.
package convert

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pdiddy/docconv/internal/capability"
	"github.com/pdiddy/docconv/internal/docx"
	"github.com/pdiddy/docconv/pkg/types"
)

// TableExtractor finds tables in a PDF. The production implementation is
// a *tables.Chain.
type TableExtractor interface {
	Extract(ctx context.Context, path string) (types.ExtractionResult, error)
}

// DocumentModel reads and writes Word documents.
type DocumentModel interface {
	ReadTables(path string) ([]docx.Table, error)
	Save(doc *docx.Document, path string) error
	FromPDF(ctx context.Context, pdfPath, out string) error
}

// Spreadsheets reads and writes workbooks.
type Spreadsheets interface {
	Write(path string, datasets []types.Dataset) error
	Read(path string) ([]types.Dataset, error)
}

// OfficeDriver exports Word documents and workbooks to PDF through an
// office suite.
type OfficeDriver interface {
	ExportPDF(ctx context.Context, src, dst string, from types.Format) error
}

// Recorder keeps a history of runs. Its failures are logged and never
// affect a conversion.
type Recorder interface {
	StartRun(ctx context.Context, req types.RunRequest) (string, error)
	RecordFile(ctx context.Context, runID string, o types.FileOutcome) error
	FinishRun(ctx context.Context, runID string, s types.BatchSummary) error
}

// Bindings are the optional collaborators. A nil binding behaves as an
// absent capability.
type Bindings struct {
	Tables    TableExtractor
	Documents DocumentModel
	Sheets    Spreadsheets
	Office    OfficeDriver
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the diagnostics logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder attaches a run history.
func WithRecorder(r Recorder) Option {
	return func(c *Converter) { c.recorder = r }
}

// Converter runs conversions. It is safe for one caller at a time; the
// files of a run are converted one after another.
type Converter struct {
	registry *capability.Registry
	b        Bindings
	recorder Recorder
	logger   *slog.Logger
	routes   map[route]routine
}

// New returns a Converter whose routines consult registry for availability.
func New(registry *capability.Registry, b Bindings, opts ...Option) *Converter {
	c := &Converter{registry: registry, b: b, logger: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	c.routes = c.dispatch()
	return c
}

// Supported reports whether a routine exists for converting from to to.
func (c *Converter) Supported(from, to types.Format) bool {
	_, ok := c.routes[route{from, to}]
	return ok
}

// ConvertOne converts job.Source and returns the path written. On failure
// it removes whatever sits at the derived path and returns a
// *ConversionError; an unsupported pair fails before any path is touched.
// The source file is never modified.
func (c *Converter) ConvertOne(ctx context.Context, job types.ConversionJob) (string, error) {
	_, out, err := c.convert(ctx, job)
	return out, err
}

func (c *Converter) convert(ctx context.Context, job types.ConversionJob) (string, string, error) {
	run, ok := c.routes[route{job.From, job.To}]
	if !ok {
		return "", "", &ConversionError{
			Kind: KindUnsupportedPair,
			Job:  job,
			Err:  fmt.Errorf("%w: %s to %s", ErrUnsupportedPair, job.From.Label(), job.To.Label()),
		}
	}

	out := DeriveOutputPath(job.Source, job.To)
	detail, err := run(ctx, job, out)
	if err != nil {
		c.removeOutput(out)
		return "", out, &ConversionError{Kind: classify(err), Job: job, Output: out, Err: err}
	}
	return detail, out, nil
}

func (c *Converter) removeOutput(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		c.logger.Error("convert.cleanup_failed", "path", path, "error", err)
	}
}

// require returns a *capability.MissingError for the first capability that
// is absent from the registry or has no binding.
func (c *Converter) require(checks ...need) error {
	for _, n := range checks {
		if !n.bound {
			return &capability.MissingError{Name: n.name}
		}
		if err := c.registry.Require(n.name); err != nil {
			return err
		}
	}
	return nil
}

type need struct {
	name  capability.Name
	bound bool
}

func (c *Converter) needDocuments() need {
	return need{capability.DocumentModel, c.b.Documents != nil}
}

func (c *Converter) needSheets() need {
	return need{capability.Spreadsheet, c.b.Sheets != nil}
}

func (c *Converter) needOffice() need {
	return need{capability.OfficeAutomation, c.b.Office != nil}
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
