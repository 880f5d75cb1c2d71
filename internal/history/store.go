// Package history keeps a SQLite log of build runs, successful or not, with
// the outcome of every stage.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// StageRecord is one stage outcome for one format.
type StageRecord struct {
	Format  string
	Stage   string
	Outcome string
}

// Run is one recorded build invocation.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	Status       string
	Formats      []string
	FlagsJSON    string
	ErrorKind    string
	ErrorMessage string
	Stages       []StageRecord
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record persists a run and its stage outcomes in one transaction.
func (s *Store) Record(ctx context.Context, run Run) error {
	if s == nil || s.db == nil {
		return errors.New("history store not initialized")
	}
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	flags := run.FlagsJSON
	if strings.TrimSpace(flags) == "" {
		flags = "{}"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, started_at, finished_at, status, formats, flags_json, error_kind, error_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Status,
		strings.Join(run.Formats, ","),
		flags,
		nullableString(run.ErrorKind),
		nullableString(run.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, st := range run.Stages {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_stages (run_id, position, format_key, stage, outcome) VALUES (?, ?, ?, ?, ?)",
			run.ID, i, st.Format, st.Stage, st.Outcome,
		); err != nil {
			return fmt.Errorf("insert stage record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// List returns up to limit runs, newest first. A non-positive limit returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history store not initialized")
	}
	query := `SELECT run_id, started_at, finished_at, status, formats, flags_json, error_kind, error_message
        FROM runs ORDER BY started_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		stages, err := s.stages(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Stages = stages
	}
	return runs, nil
}

func (s *Store) stages(ctx context.Context, runID string) ([]StageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT format_key, stage, outcome FROM run_stages WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	defer rows.Close()

	var out []StageRecord
	for rows.Next() {
		var rec StageRecord
		if err := rows.Scan(&rec.Format, &rec.Stage, &rec.Outcome); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stages: %w", err)
	}
	return out, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                 Run
		started, finished   string
		formats             string
		errKind, errMessage sql.NullString
	)
	if err := rows.Scan(&run.ID, &started, &finished, &run.Status, &formats, &run.FlagsJSON, &errKind, &errMessage); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	if formats != "" {
		run.Formats = strings.Split(formats, ",")
	}
	run.ErrorKind = errKind.String
	run.ErrorMessage = errMessage.String
	return run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
