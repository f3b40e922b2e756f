// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a SQLite history of conversion runs and the outcome
// of every file they attempted.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docconv/pkg/types"
)

// DefaultPath returns where the history lives when the configuration names
// no path: history.db in ~/.config/docconv, next to the config file. Without
// a home directory it is relative to the working directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".docconv", "history.db")
	}
	return filepath.Join(home, ".config", "docconv", "history.db")
}

// ErrUnknownRun is returned when a run ID is not in the journal.
var ErrUnknownRun = errors.New("unknown run")

// Run is one recorded invocation of the converter.
type Run struct {
	ID         string              `json:"id" yaml:"id"`
	Path       string              `json:"path" yaml:"path"`
	From       types.Format        `json:"from" yaml:"from"`
	To         types.Format        `json:"to" yaml:"to"`
	Batch      bool                `json:"batch" yaml:"batch"`
	StartedAt  time.Time           `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Converted  int                 `json:"converted" yaml:"converted"`
	Failed     int                 `json:"failed" yaml:"failed"`
	Notice     string              `json:"notice,omitempty" yaml:"notice,omitempty"`
	Files      []types.FileOutcome `json:"files,omitempty" yaml:"files,omitempty"`
}

// Journal is the history database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at cfg.Path (DefaultPath()
// when empty), creating its directory and schema as needed.
func Open(cfg types.JournalConfig) (*Journal, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db, now: time.Now}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			from_format TEXT NOT NULL,
			to_format TEXT NOT NULL,
			batch INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			notice TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			output TEXT,
			status TEXT NOT NULL,
			error_kind TEXT,
			message TEXT,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_run_id ON files(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun records the start of a run and returns its ID.
func (j *Journal) StartRun(ctx context.Context, req types.RunRequest) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, path, from_format, to_format, batch, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, req.Path, string(req.From), string(req.To), req.Batch, formatTime(j.now()),
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// RecordFile stores the outcome of one file of run runID.
func (j *Journal) RecordFile(ctx context.Context, runID string, o types.FileOutcome) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO files (run_id, source, output, status, error_kind, message, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, o.Job.Source, o.Output, string(o.Status), o.ErrKind, o.Message, o.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording file %s: %w", o.Job.Source, err)
	}
	return nil
}

// FinishRun stores the summary of run runID.
func (j *Journal) FinishRun(ctx context.Context, runID string, s types.BatchSummary) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, failed = ?, notice = ? WHERE id = ?`,
		formatTime(j.now()), s.Converted, s.Failed, s.Notice, runID,
	)
	if err != nil {
		return fmt.Errorf("recording run end: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("recording run end: %w: %s", ErrUnknownRun, runID)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A limit of zero or less
// returns every run.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, path, from_format, to_format, batch, started_at, finished_at, converted, failed, notice
		FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                Run
			from, to         string
			started          string
			finished, notice sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Path, &from, &to, &r.Batch, &started, &finished, &r.Converted, &r.Failed, &notice); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.From, r.To = types.Format(from), types.Format(to)
		r.StartedAt = parseTime(started)
		if finished.Valid {
			t := parseTime(finished.String)
			r.FinishedAt = &t
		}
		r.Notice = notice.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the file outcomes of run runID in the order they were
// recorded. The format tags of each job are those of the run.
func (j *Journal) Files(ctx context.Context, runID string) ([]types.FileOutcome, error) {
	var from, to string
	err := j.db.QueryRowContext(ctx, `SELECT from_format, to_format FROM runs WHERE id = ?`, runID).Scan(&from, &to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT source, output, status, error_kind, message, duration_ms FROM files WHERE run_id = ? ORDER BY rowid`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("querying files of run %s: %w", runID, err)
	}
	defer rows.Close()

	var out []types.FileOutcome
	for rows.Next() {
		var (
			o                     types.FileOutcome
			output, kind, message sql.NullString
			status                string
			ms                    int64
		)
		if err := rows.Scan(&o.Job.Source, &output, &status, &kind, &message, &ms); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		o.Job.From, o.Job.To = types.Format(from), types.Format(to)
		o.Output, o.ErrKind, o.Message = output.String, kind.String, message.String
		o.Status = types.FileStatus(status)
		o.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, o)
	}
	return out, rows.Err()
}

// timeLayout has a fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
