// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/notion-migrate/pkg/types"
)

// IssueFilter narrows Issues. Zero fields match everything.
type IssueFilter struct {
	RunID int64
	Kind  types.IssueKind
}

// IssueEntry is a recorded issue with the run it belongs to.
type IssueEntry struct {
	RunID       int64 `json:"run_id" yaml:"run_id"`
	types.Issue `yaml:",inline"`
}

// Runs returns all runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, dest, started_at, finished_at, processed, failed, collisions, tables_converted
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Run returns one run. An ID of zero selects the latest run.
func (s *Store) Run(ctx context.Context, runID int64) (Run, error) {
	query := `SELECT id, source, dest, started_at, finished_at, processed, failed, collisions, tables_converted
		FROM runs WHERE id = ?`
	args := []any{runID}
	if runID == 0 {
		query = `SELECT id, source, dest, started_at, finished_at, processed, failed, collisions, tables_converted
		FROM runs ORDER BY id DESC LIMIT 1`
		args = nil
	}

	r, err := scanRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		if runID == 0 {
			return Run{}, ErrNoRuns
		}
		return Run{}, fmt.Errorf("run %d not found", runID)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r        Run
		started  string
		finished sql.NullString
	)
	err := row.Scan(&r.ID, &r.Source, &r.Dest, &started, &finished,
		&r.Processed, &r.Failed, &r.Collisions, &r.TablesConverted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}

	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return Run{}, fmt.Errorf("parsing start time of run %d: %w", r.ID, err)
	}
	if finished.Valid {
		t, err := time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return Run{}, fmt.Errorf("parsing finish time of run %d: %w", r.ID, err)
		}
		r.FinishedAt = &t
	}
	return r, nil
}

// Files returns the file records of a run ordered by source path.
func (s *Store) Files(ctx context.Context, runID int64) ([]types.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_path, dest_path, table_path, kind, status, links_rewritten, links_unresolved, lossy
		FROM files WHERE run_id = ? ORDER BY source_path`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []types.FileRecord
	for rows.Next() {
		var (
			rec          types.FileRecord
			tablePath    sql.NullString
			kind, status string
		)
		if err := rows.Scan(&rec.SourcePath, &rec.DestPath, &tablePath, &kind, &status,
			&rec.LinksRewritten, &rec.LinksUnresolved, &rec.Lossy); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		rec.TablePath = tablePath.String
		rec.Kind = types.FileKind(kind)
		rec.Status = types.FileStatus(status)
		files = append(files, rec)
	}
	return files, rows.Err()
}

// Issues returns recorded issues in insertion order.
func (s *Store) Issues(ctx context.Context, f IssueFilter) ([]IssueEntry, error) {
	var (
		where []string
		args  []any
	)
	if f.RunID != 0 {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}

	query := `SELECT run_id, source_path, kind, message FROM issues`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	var issues []IssueEntry
	for rows.Next() {
		var (
			e    IssueEntry
			kind string
		)
		if err := rows.Scan(&e.RunID, &e.SourcePath, &kind, &e.Message); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		e.Kind = types.IssueKind(kind)
		issues = append(issues, e)
	}
	return issues, rows.Err()
}
