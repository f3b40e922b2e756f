// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/docconv/pkg/types"
)

// Run handles one request from the presentation layer. A directory is only
// processed when req.Batch is set; otherwise a guidance line is written and
// nothing is converted. A file path is converted on its own. Every
// attempted file produces one line on w, and a completion line follows the
// last file.
func (c *Converter) Run(ctx context.Context, req types.RunRequest, w io.Writer) types.BatchSummary {
	runID := c.startRun(ctx, req)

	var summary types.BatchSummary
	info, err := os.Stat(req.Path)
	switch {
	case err == nil && info.IsDir() && !req.Batch:
		summary.Notice = fmt.Sprintf("%s is a directory: enable batch mode to convert every %s file in it",
			req.Path, req.From.Label())
		fmt.Fprintln(w, summary.Notice)
	case err == nil && info.IsDir():
		summary = c.convertBatch(ctx, runID, req.Path, req.From, req.To, w)
	default:
		job := types.ConversionJob{Source: req.Path, From: req.From, To: req.To}
		tally(&summary, c.convertFile(ctx, runID, job, w))
		writeCompletion(w, summary)
	}

	c.finishRun(ctx, runID, summary)
	return summary
}

// Start runs req on a worker goroutine and returns a channel that receives
// the summary once the run is over. The run is detached from ctx's
// cancellation: once started it always completes. Progress lines are
// written to w from the worker goroutine only.
func (c *Converter) Start(ctx context.Context, req types.RunRequest, w io.Writer) <-chan types.BatchSummary {
	done := make(chan types.BatchSummary, 1)
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		done <- c.Run(ctx, req, w)
	}()
	return done
}

// ConvertBatch converts every file directly inside dir whose extension
// matches from (case-insensitively), one at a time in listing order. A
// failed file is reported and the batch moves on. When no file matches, an
// informational line is written and the summary carries a Notice.
func (c *Converter) ConvertBatch(ctx context.Context, dir string, from, to types.Format, w io.Writer) types.BatchSummary {
	return c.convertBatch(ctx, "", dir, from, to, w)
}

func (c *Converter) convertBatch(ctx context.Context, runID, dir string, from, to types.Format, w io.Writer) types.BatchSummary {
	var summary types.BatchSummary

	if !from.Valid() || !to.Valid() {
		summary.Notice = fmt.Sprintf("%v: %s to %s", ErrUnsupportedPair, from.Label(), to.Label())
		fmt.Fprintln(w, summary.Notice)
		return summary
	}

	files, err := MatchingFiles(dir, from)
	if err != nil {
		summary.Notice = fmt.Sprintf("cannot list %s: %v", dir, err)
		fmt.Fprintln(w, summary.Notice)
		return summary
	}
	if len(files) == 0 {
		summary.Notice = fmt.Sprintf("No %s files found in %s", from.Extension(), dir)
		fmt.Fprintln(w, summary.Notice)
		return summary
	}

	c.logger.Info("convert.batch_start", "dir", dir, "from", from, "to", to, "files", len(files))
	for _, path := range files {
		job := types.ConversionJob{Source: path, From: from, To: to}
		tally(&summary, c.convertFile(ctx, runID, job, w))
	}
	writeCompletion(w, summary)
	return summary
}

// MatchingFiles lists the regular files directly inside dir whose
// extension is from's, ignoring case, in directory-listing order (sorted
// by name).
func MatchingFiles(dir string, from types.Format) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	ext := from.Extension()
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// convertFile converts one file, writes its progress line and records the
// outcome.
func (c *Converter) convertFile(ctx context.Context, runID string, job types.ConversionJob, w io.Writer) types.FileOutcome {
	start := time.Now()
	detail, out, err := c.convert(ctx, job)
	o := types.FileOutcome{Job: job, Output: out, Duration: time.Since(start)}
	name := filepath.Base(job.Source)

	switch {
	case err != nil:
		kind := KindOf(err)
		o.Status, o.ErrKind, o.Message = types.FileFailed, string(kind), err.Error()
		fmt.Fprintf(w, "failed:    %s (%v)\n", name, unwrapJob(err))
		c.logger.Warn("convert.failed", "source", job.Source, "kind", kind, "error", err)
	case job.From == job.To:
		o.Status = types.FileCopied
		fmt.Fprintf(w, "copied:    %s -> %s\n", name, filepath.Base(out))
	default:
		o.Status = types.FileConverted
		if detail != "" {
			fmt.Fprintf(w, "converted: %s -> %s (%s)\n", name, filepath.Base(out), detail)
		} else {
			fmt.Fprintf(w, "converted: %s -> %s\n", name, filepath.Base(out))
		}
	}

	if c.recorder != nil && runID != "" {
		if err := c.recorder.RecordFile(ctx, runID, o); err != nil {
			c.logger.Error("convert.record_failed", "source", job.Source, "error", err)
		}
	}
	return o
}

// unwrapJob drops the job prefix of a *ConversionError; the progress line
// already names the file.
func unwrapJob(err error) error {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Err
	}
	return err
}

func tally(s *types.BatchSummary, o types.FileOutcome) {
	if o.Status == types.FileFailed {
		s.Failed++
		return
	}
	s.Converted++
}

func writeCompletion(w io.Writer, s types.BatchSummary) {
	fmt.Fprintf(w, "Conversion complete: %d converted, %d failed (total: %d)\n",
		s.Converted, s.Failed, s.Total())
}

func (c *Converter) startRun(ctx context.Context, req types.RunRequest) string {
	if c.recorder == nil {
		return ""
	}
	id, err := c.recorder.StartRun(ctx, req)
	if err != nil {
		c.logger.Error("convert.record_failed", "path", req.Path, "error", err)
		return ""
	}
	return id
}

func (c *Converter) finishRun(ctx context.Context, runID string, s types.BatchSummary) {
	if c.recorder == nil || runID == "" {
		return
	}
	if err := c.recorder.FinishRun(ctx, runID, s); err != nil {
		c.logger.Error("convert.record_failed", "run", runID, "error", err)
	}
}
