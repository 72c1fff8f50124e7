// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records migration runs in a SQLite database: one row per
// run, per migrated file and per issue, so a run can be inspected after the
// progress output has scrolled away.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/notion-migrate/internal/migrate"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

const (
	// Dir is the ledger directory created inside the destination vault.
	Dir    = ".notion-migrate"
	dbFile = "ledger.db"
)

// ErrNoRuns is returned when a run is requested from an empty ledger.
var ErrNoRuns = errors.New("ledger has no runs")

// DefaultPath returns the ledger location for a destination directory.
func DefaultPath(dest string) string {
	return filepath.Join(dest, Dir, dbFile)
}

// Run is one recorded migration.
type Run struct {
	ID              int64      `json:"id" yaml:"id"`
	Source          string     `json:"source" yaml:"source"`
	Dest            string     `json:"dest" yaml:"dest"`
	StartedAt       time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Processed       int        `json:"processed" yaml:"processed"`
	Failed          int        `json:"failed" yaml:"failed"`
	Collisions      int        `json:"collisions" yaml:"collisions"`
	TablesConverted int        `json:"tables_converted" yaml:"tables_converted"`
}

// Store manages the ledger database.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the ledger at path, creating its directory and
// schema when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			dest TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			processed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			collisions INTEGER NOT NULL DEFAULT 0,
			tables_converted INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source_path TEXT NOT NULL,
			dest_path TEXT NOT NULL,
			table_path TEXT,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			links_rewritten INTEGER NOT NULL DEFAULT 0,
			links_unresolved INTEGER NOT NULL DEFAULT 0,
			lossy INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, source_path)
		)`,
		`CREATE TABLE IF NOT EXISTS issues (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			source_path TEXT NOT NULL,
			kind TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_issues_run_kind ON issues(run_id, kind)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// StartRun inserts a new run and returns its ID.
func (s *Store) StartRun(ctx context.Context, source, dest string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (source, dest, started_at) VALUES (?, ?, ?)`,
		source, dest, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun stores the final counts of a run.
func (s *Store) FinishRun(ctx context.Context, runID int64, result migrate.BatchResult) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, failed = ?, collisions = ?, tables_converted = ?
		WHERE id = ?`,
		s.now().UTC().Format(time.RFC3339Nano),
		result.Processed, result.Failed, result.Collisions, result.TablesConverted,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finishing run %d: no such run", runID)
	}
	return nil
}

// Recorder returns a migrate.Recorder writing into runID.
func (s *Store) Recorder(runID int64) migrate.Recorder {
	return &recorder{s: s, runID: runID}
}

type recorder struct {
	s     *Store
	runID int64
}

func (r *recorder) RecordFile(ctx context.Context, rec types.FileRecord) error {
	_, err := r.s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO files
			(run_id, source_path, dest_path, table_path, kind, status, links_rewritten, links_unresolved, lossy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.runID, rec.SourcePath, rec.DestPath, nullString(rec.TablePath),
		string(rec.Kind), string(rec.Status), rec.LinksRewritten, rec.LinksUnresolved, rec.Lossy,
	)
	if err != nil {
		return fmt.Errorf("inserting file %s: %w", rec.SourcePath, err)
	}
	return nil
}

func (r *recorder) RecordIssue(ctx context.Context, issue types.Issue) error {
	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO issues (run_id, source_path, kind, message) VALUES (?, ?, ?, ?)`,
		r.runID, issue.SourcePath, string(issue.Kind), issue.Message,
	)
	if err != nil {
		return fmt.Errorf("inserting issue for %s: %w", issue.SourcePath, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
