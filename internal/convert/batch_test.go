// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docconv/pkg/types"
)

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, dir, "a.docx", [][]string{{"h"}, {"1"}})
	writeDocx(t, dir, "b.docx")
	writeDocx(t, dir, "c.docx", [][]string{{"h"}, {"2"}})

	var buf bytes.Buffer
	summary := newConverter(setup{}).Run(context.Background(),
		types.RunRequest{Path: dir, From: types.FormatWord, To: types.FormatSpreadsheet, Batch: true}, &buf)

	got := lines(&buf)
	require.Len(t, got, 4, buf.String())
	assert.Equal(t, "converted: a.docx -> a_convertido.xlsx (1 sheet)", got[0])
	assert.True(t, strings.HasPrefix(got[1], "failed:    b.docx ("), got[1])
	assert.Contains(t, got[1], "no tables found")
	assert.Equal(t, "converted: c.docx -> c_convertido.xlsx (1 sheet)", got[2])
	assert.Equal(t, "Conversion complete: 2 converted, 1 failed (total: 3)", got[3])

	assert.Equal(t, 2, summary.Converted)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.FileExists(t, filepath.Join(dir, "c_convertido.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "b_convertido.xlsx"))
}

func TestBatchMatchesExtensionOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.PDF", "1")
	writeFile(t, dir, "two.pdf", "2")
	writeFile(t, dir, "notes.txt", "n")
	writeFile(t, dir, "sheet.xlsx", "s")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))
	writeFile(t, filepath.Join(dir, "nested.pdf"), "deep.pdf", "d")

	files, err := MatchingFiles(dir, types.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "one.PDF"), filepath.Join(dir, "two.pdf")}, files)

	var buf bytes.Buffer
	summary := newConverter(setup{}).ConvertBatch(context.Background(), dir, types.FormatPDF, types.FormatPDF, &buf)
	assert.Equal(t, 2, summary.Converted)
	assert.Equal(t, []string{
		"copied:    one.PDF -> one_convertido.pdf",
		"copied:    two.pdf -> two_convertido.pdf",
		"Conversion complete: 2 converted, 0 failed (total: 2)",
	}, lines(&buf))
	assert.NoFileExists(t, filepath.Join(dir, "nested.pdf", "deep_convertido.pdf"), "batch is not recursive")
}

func TestBatchNoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.docx", "x")

	var buf bytes.Buffer
	summary := newConverter(setup{}).Run(context.Background(),
		types.RunRequest{Path: dir, From: types.FormatPDF, To: types.FormatWord, Batch: true}, &buf)

	assert.Equal(t, 0, summary.Total())
	assert.NotEmpty(t, summary.Notice)
	assert.Equal(t, []string{"No .pdf files found in " + dir}, lines(&buf))
}

func TestDirectoryRequiresBatchFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "x")

	var buf bytes.Buffer
	summary := newConverter(setup{}).Run(context.Background(),
		types.RunRequest{Path: dir, From: types.FormatPDF, To: types.FormatPDF}, &buf)

	assert.Equal(t, 0, summary.Total())
	assert.Contains(t, summary.Notice, "enable batch mode")
	assert.Equal(t, []string{summary.Notice}, lines(&buf))
	assert.Equal(t, []string{"a.pdf"}, listDir(t, dir))
}

func TestRunSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "x.xlsx", "x")

	var buf bytes.Buffer
	summary := newConverter(setup{}).Run(context.Background(),
		types.RunRequest{Path: src, From: types.FormatSpreadsheet, To: types.FormatPDF}, &buf)

	assert.Equal(t, 1, summary.Failed)
	got := lines(&buf)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "capability not installed")
	assert.Equal(t, "Conversion complete: 0 converted, 1 failed (total: 1)", got[1])
}

func TestRunMissingPath(t *testing.T) {
	var buf bytes.Buffer
	summary := newConverter(setup{}).Run(context.Background(),
		types.RunRequest{Path: filepath.Join(t.TempDir(), "gone.pdf"), From: types.FormatPDF, To: types.FormatPDF}, &buf)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, lines(&buf), 2)
}

func TestBatchUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	summary := newConverter(setup{}).ConvertBatch(context.Background(), t.TempDir(), "odt", types.FormatPDF, &buf)
	assert.Contains(t, summary.Notice, "conversion not supported")
	assert.Equal(t, 0, summary.Total())
}

func TestStartIgnoresCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf", "1")
	writeFile(t, dir, "b.pdf", "2")

	ctx, cancel := context.WithCancel(context.Background())
	var buf bytes.Buffer
	done := newConverter(setup{}).Start(ctx,
		types.RunRequest{Path: dir, From: types.FormatPDF, To: types.FormatPDF, Batch: true}, &buf)
	cancel()

	select {
	case summary := <-done:
		assert.Equal(t, 2, summary.Converted)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish")
	}
	_, open := <-done
	assert.False(t, open, "channel is closed after the summary")
	assert.Len(t, lines(&buf), 3)
}

// fakeRecorder captures journal calls.
type fakeRecorder struct {
	started  []types.RunRequest
	files    []types.FileOutcome
	finished []types.BatchSummary
	failFile bool
}

func (r *fakeRecorder) StartRun(_ context.Context, req types.RunRequest) (string, error) {
	r.started = append(r.started, req)
	return "run-1", nil
}

func (r *fakeRecorder) RecordFile(_ context.Context, runID string, o types.FileOutcome) error {
	if runID != "run-1" {
		return errors.New("unknown run")
	}
	r.files = append(r.files, o)
	if r.failFile {
		return errors.New("database is locked")
	}
	return nil
}

func (r *fakeRecorder) FinishRun(_ context.Context, runID string, s types.BatchSummary) error {
	r.finished = append(r.finished, s)
	return nil
}

func TestRecorderReceivesRun(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, dir, "a.docx", [][]string{{"h"}, {"1"}})
	writeDocx(t, dir, "b.docx")

	rec := &fakeRecorder{failFile: true}
	req := types.RunRequest{Path: dir, From: types.FormatWord, To: types.FormatSpreadsheet, Batch: true}
	var buf bytes.Buffer
	summary := newConverter(setup{recorder: rec}).Run(context.Background(), req, &buf)

	assert.Equal(t, 1, summary.Converted, "recorder failures do not affect conversion")
	require.Len(t, rec.started, 1)
	assert.Equal(t, req, rec.started[0])
	require.Len(t, rec.files, 2)
	assert.Equal(t, types.FileConverted, rec.files[0].Status)
	assert.Equal(t, filepath.Join(dir, "a_convertido.xlsx"), rec.files[0].Output)
	assert.Equal(t, types.FileFailed, rec.files[1].Status)
	assert.Equal(t, string(KindNoDataFound), rec.files[1].ErrKind)
	require.Len(t, rec.finished, 1)
	assert.Equal(t, summary, rec.finished[0])
}
