// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package migrate walks a Notion export and writes the equivalent Obsidian
// vault: names without identifiers, links rewritten to cross-references,
// tables rendered as Markdown next to the copied originals, and every other
// file copied as is.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/notion-migrate/internal/links"
	"github.com/pdiddy/notion-migrate/internal/names"
	"github.com/pdiddy/notion-migrate/internal/table"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

// ErrSourceRoot is returned when the source directory cannot be used.
// No file is processed in that case.
var ErrSourceRoot = errors.New("source directory unavailable")

// maxListedIssues caps the issues printed by PrintSummary.
const maxListedIssues = 10

// Recorder receives the outcome of every file and every issue of a run.
// Calls are serialized.
type Recorder interface {
	RecordFile(ctx context.Context, rec types.FileRecord) error
	RecordIssue(ctx context.Context, issue types.Issue) error
}

// BatchResult holds the outcome of a migration run.
type BatchResult struct {
	Processed       int
	Failed          int
	Collisions      int
	TablesConverted int
	Issues          []types.Issue
}

// Total returns the number of outcomes: processed and failed files plus
// collisions.
func (r BatchResult) Total() int {
	return r.Processed + r.Failed + r.Collisions
}

// HasFailures reports whether any file could not be migrated.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// PrintSummary writes counts and the first issues to w.
func (r BatchResult) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\nMigration summary: %d processed, %d tables converted, %d failed, %d collisions (total: %d)\n",
		r.Processed, r.TablesConverted, r.Failed, r.Collisions, r.Total())
	if len(r.Issues) == 0 {
		return
	}
	fmt.Fprintf(w, "Issues (%d):\n", len(r.Issues))
	for i, issue := range r.Issues {
		if i == maxListedIssues {
			fmt.Fprintf(w, "  ... and %d more\n", len(r.Issues)-maxListedIssues)
			break
		}
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}

// Migrator converts a Notion export tree into an Obsidian vault.
type Migrator struct {
	cfg      types.MigrationConfig
	rw       *links.Rewriter
	tables   *table.Converter
	recorder Recorder
	w        io.Writer

	mu     sync.Mutex
	result BatchResult
}

// New creates a Migrator that reports progress to w.
func New(cfg types.MigrationConfig, w io.Writer) *Migrator {
	cfg = cfg.WithDefaults()
	rw := links.NewRewriter(cfg.Rewrite)
	return &Migrator{
		cfg:    cfg,
		rw:     rw,
		tables: table.NewConverter(rw, cfg.Tables),
		w:      &lockedWriter{w: w},
	}
}

// SetRecorder attaches a Recorder to subsequent runs.
func (m *Migrator) SetRecorder(r Recorder) {
	m.recorder = r
}

// job is one planned file.
type job struct {
	rel  string
	kind types.FileKind
	dest string

	// tableDest is the sibling document of a table; empty when it collided.
	tableDest string
}

// Run migrates every file under srcDir into dstDir. It returns an error only
// when the source root is unusable, the destination cannot be created, or
// ctx is cancelled; per-file problems are collected in the BatchResult.
func (m *Migrator) Run(ctx context.Context, srcDir, dstDir string) (BatchResult, error) {
	if err := CheckSource(srcDir); err != nil {
		return BatchResult{}, err
	}
	for _, p := range m.cfg.Exclude {
		if !doublestar.ValidatePattern(p) {
			return BatchResult{}, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating destination %s: %w", dstDir, err)
	}

	files, err := m.collect(srcDir, dstDir)
	if err != nil {
		return BatchResult{}, err
	}

	m.mu.Lock()
	m.result = BatchResult{}
	m.mu.Unlock()

	jobs, conflicts := m.plan(files)
	for _, c := range conflicts {
		fmt.Fprintf(m.w, "skipped: %s (%s)\n", c.issue.SourcePath, c.issue.Message)
		m.add(ctx, c.skipped, &c.issue)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)
	for _, j := range jobs {
		j := j // per-iteration copy; go 1.21 loops share the variable
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, issue := m.process(srcDir, dstDir, j)
			m.add(gctx, &rec, issue)
			return nil
		})
	}
	err = g.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, err
}

// CheckSource returns an error wrapping ErrSourceRoot unless dir exists and
// is a directory.
func CheckSource(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceRoot, dir)
	}
	return nil
}

type sourceFile struct {
	rel  string
	kind types.FileKind
}

// collect walks srcDir in lexical order and returns the files to migrate.
// Excluded paths and the destination tree, when nested in the source, are
// skipped.
func (m *Migrator) collect(srcDir, dstDir string) ([]sourceFile, error) {
	absDst, _ := filepath.Abs(dstDir)

	var files []sourceFile
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if abs, _ := filepath.Abs(p); abs == absDst || m.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || m.excluded(rel) {
			return nil
		}
		files = append(files, sourceFile{rel: rel, kind: m.Classify(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}
	return files, nil
}

func (m *Migrator) excluded(rel string) bool {
	for _, p := range m.cfg.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// conflict is a destination claimed twice.
type conflict struct {
	issue types.Issue

	// skipped is the record of a file left out entirely; nil when only a
	// table sibling was dropped.
	skipped *types.FileRecord
}

// plan assigns destinations. Primary files claim their cleaned path in walk
// order, then table siblings claim theirs, so a page always wins over a
// generated table document of the same name. Later claimants of a taken
// destination are reported as conflicts; a colliding table keeps its copy
// but loses its sibling.
func (m *Migrator) plan(files []sourceFile) ([]job, []conflict) {
	claimed := make(map[string]string, len(files))
	var (
		jobs      []job
		conflicts []conflict
	)

	for _, f := range files {
		dest := names.CleanPath(f.rel)
		if owner, ok := claimed[dest]; ok {
			conflicts = append(conflicts, conflict{
				issue: collision(f.rel, dest, owner),
				skipped: &types.FileRecord{
					SourcePath: f.rel,
					DestPath:   dest,
					Kind:       f.kind,
					Status:     types.StatusSkipped,
				},
			})
			continue
		}
		claimed[dest] = f.rel
		jobs = append(jobs, job{rel: f.rel, kind: f.kind, dest: dest})
	}

	for i := range jobs {
		if jobs[i].kind != types.KindTable {
			continue
		}
		sib := names.ReplaceExt(jobs[i].dest, m.cfg.Rewrite.DocumentExt)
		if owner, ok := claimed[sib]; ok {
			conflicts = append(conflicts, conflict{issue: collision(jobs[i].rel, sib, owner)})
			continue
		}
		claimed[sib] = jobs[i].rel
		jobs[i].tableDest = sib
	}
	return jobs, conflicts
}

func collision(rel, dest, owner string) types.Issue {
	return types.Issue{
		SourcePath: rel,
		Kind:       types.IssueDestinationCollision,
		Message:    fmt.Sprintf("destination %s already taken by %s", dest, owner),
	}
}

// process migrates one planned file and returns its record and issue.
func (m *Migrator) process(srcDir, dstDir string, j job) (types.FileRecord, *types.Issue) {
	src := filepath.Join(srcDir, filepath.FromSlash(j.rel))
	dst := filepath.Join(dstDir, filepath.FromSlash(j.dest))

	fail := func(err error) (types.FileRecord, *types.Issue) {
		fmt.Fprintf(m.w, "failed:  %s (%v)\n", j.rel, err)
		rec := types.FileRecord{SourcePath: j.rel, DestPath: j.dest, Kind: j.kind, Status: types.StatusFailed}
		return rec, &types.Issue{SourcePath: j.rel, Kind: types.IssueIO, Message: err.Error()}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fail(fmt.Errorf("creating directory: %w", err))
	}

	if j.kind == types.KindOther {
		if err := copyFile(src, dst); err != nil {
			return fail(err)
		}
		fmt.Fprintf(m.w, "copied:    %s\n", j.dest)
		rec := types.FileRecord{SourcePath: j.rel, DestPath: j.dest, Kind: j.kind, Status: types.StatusCopied}
		return rec, nil
	}

	content, err := os.ReadFile(src)
	if err != nil {
		return fail(fmt.Errorf("reading: %w", err))
	}
	out := m.Transform(j.rel, j.kind, content)
	out.Record.DestPath = j.dest

	switch j.kind {
	case types.KindDocument:
		if err := os.WriteFile(dst, out.Content, 0o644); err != nil {
			return fail(fmt.Errorf("writing: %w", err))
		}
		fmt.Fprintf(m.w, "converted: %s\n", j.dest)

	case types.KindTable:
		if err := copyFile(src, dst); err != nil {
			return fail(err)
		}
		out.Record.TablePath = j.tableDest
		if j.tableDest != "" && out.TableDoc != nil {
			sib := filepath.Join(dstDir, filepath.FromSlash(j.tableDest))
			if err := os.WriteFile(sib, out.TableDoc, 0o644); err != nil {
				return fail(fmt.Errorf("writing table document: %w", err))
			}
			fmt.Fprintf(m.w, "converted: %s (+ %s)\n", j.dest, j.tableDest)
		} else {
			fmt.Fprintf(m.w, "copied:    %s\n", j.dest)
		}
	}

	out.Record.Status = types.StatusConverted
	if out.Issue != nil {
		fmt.Fprintf(m.w, "warning: %s\n", out.Issue)
	}
	return out.Record, out.Issue
}

// add folds one outcome into the running result and forwards it to the
// recorder.
func (m *Migrator) add(ctx context.Context, rec *types.FileRecord, issue *types.Issue) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec != nil {
		switch rec.Status {
		case types.StatusFailed:
			m.result.Failed++
		case types.StatusConverted, types.StatusCopied:
			m.result.Processed++
			if rec.Kind == types.KindTable && rec.TablePath != "" &&
				(issue == nil || issue.Kind == types.IssueUnreadableInput) {
				m.result.TablesConverted++
			}
		}
	}
	if issue != nil {
		if issue.Kind == types.IssueDestinationCollision {
			m.result.Collisions++
		}
		m.result.Issues = append(m.result.Issues, *issue)
	}

	if m.recorder == nil {
		return
	}
	if rec != nil {
		if err := m.recorder.RecordFile(ctx, *rec); err != nil {
			fmt.Fprintf(m.w, "warning: recording %s: %v\n", rec.SourcePath, err)
		}
	}
	if issue != nil {
		if err := m.recorder.RecordIssue(ctx, *issue); err != nil {
			fmt.Fprintf(m.w, "warning: recording issue for %s: %v\n", issue.SourcePath, err)
		}
	}
}

// lockedWriter serializes progress lines written by concurrent workers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
