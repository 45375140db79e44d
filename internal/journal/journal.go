// Package journal records processed workbooks in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/javajack/xlbudget"
	_ "modernc.org/sqlite"
)

// Status values stored per sheet.
const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Entry is one processed sheet.
type Entry struct {
	ID        int64
	RunID     string
	Input     string
	Output    string
	Sheet     string
	Status    string
	Range     string
	Formulas  int
	Duration  time.Duration
	Error     string
	CreatedAt time.Time
}

// Journal is an open history database.
type Journal struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		sheet TEXT NOT NULL,
		status TEXT NOT NULL,
		used_range TEXT NOT NULL,
		formulas INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		error TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS runs_run_id ON runs(run_id);`

// Open opens (or creates) the journal at path and ensures the schema exists.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// NewRunID returns a fresh identifier grouping the entries of one run.
func NewRunID() string {
	return uuid.NewString()
}

// FromReport converts a processing report into entries. A nil report (the
// workbook could not be read) yields a single failed entry carrying runErr.
func FromReport(runID, input, output string, rep *xlbudget.Report, runErr error) []Entry {
	now := time.Now().UTC()
	if rep == nil {
		msg := ""
		if runErr != nil {
			msg = runErr.Error()
		}
		return []Entry{{RunID: runID, Input: input, Output: output, Status: StatusFailed, Error: msg, CreatedAt: now}}
	}
	entries := make([]Entry, 0, len(rep.Sheets))
	for _, s := range rep.Sheets {
		e := Entry{
			RunID:     runID,
			Input:     input,
			Output:    output,
			Sheet:     s.Sheet,
			Status:    StatusOK,
			Formulas:  s.Formulas,
			Duration:  s.Duration,
			CreatedAt: now,
		}
		switch {
		case s.Skipped:
			e.Status = StatusSkipped
		case s.Err != nil:
			e.Status = StatusFailed
			e.Error = s.Err.Error()
		default:
			e.Range = s.Range.String()
		}
		entries = append(entries, e)
	}
	return entries
}

// Record stores entries in a single transaction.
func (j *Journal) Record(ctx context.Context, entries ...Entry) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO runs (run_id, input, output, sheet, status, used_range, formulas, duration_ns, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, e.RunID, e.Input, e.Output, e.Sheet, e.Status, e.Range,
			e.Formulas, int64(e.Duration), e.Error, created.Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert entry for sheet %q: %w", e.Sheet, err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, run_id, input, output, sheet, status, used_range, formulas, duration_ns, error, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			dur     int64
			created string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Input, &e.Output, &e.Sheet, &e.Status, &e.Range,
			&e.Formulas, &dur, &e.Error, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Duration = time.Duration(dur)
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
