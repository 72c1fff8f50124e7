// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/notion-migrate/internal/migrate"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DefaultPath(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

// seedRun records a run with two files and two issues.
func seedRun(t *testing.T, s *Store) int64 {
	t.Helper()
	ctx := context.Background()

	id, err := s.StartRun(ctx, "/src", "/dst")
	require.NoError(t, err)

	rec := s.Recorder(id)
	require.NoError(t, rec.RecordFile(ctx, types.FileRecord{
		SourcePath: "Home abc.md", DestPath: "Home.md",
		Kind: types.KindDocument, Status: types.StatusConverted, LinksRewritten: 3,
	}))
	require.NoError(t, rec.RecordFile(ctx, types.FileRecord{
		SourcePath: "Tasks abc.csv", DestPath: "Tasks.csv", TablePath: "Tasks.md",
		Kind: types.KindTable, Status: types.StatusConverted, Lossy: true,
	}))
	require.NoError(t, rec.RecordIssue(ctx, types.Issue{
		SourcePath: "Tasks abc.csv", Kind: types.IssueUnreadableInput, Message: "lossy",
	}))
	require.NoError(t, rec.RecordIssue(ctx, types.Issue{
		SourcePath: "Page b.md", Kind: types.IssueDestinationCollision, Message: "taken",
	}))

	require.NoError(t, s.FinishRun(ctx, id, migrate.BatchResult{Processed: 2, Collisions: 1, TablesConverted: 1}))
	return id
}

func TestOpenCreatesDirectory(t *testing.T) {
	dest := t.TempDir()
	s, err := Open(DefaultPath(dest))
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, filepath.Join(dest, Dir, "ledger.db"))
	assert.Equal(t, DefaultPath(dest), s.Path())

	// Reopening an existing ledger keeps the schema.
	s2, err := Open(DefaultPath(dest))
	require.NoError(t, err)
	s2.Close()
}

func TestRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Run(ctx, 0)
	require.ErrorIs(t, err, ErrNoRuns)

	first := seedRun(t, s)
	second, err := s.StartRun(ctx, "/src2", "/dst2")
	require.NoError(t, err)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first")
	assert.Nil(t, runs[0].FinishedAt, "unfinished run")

	r := runs[1]
	assert.Equal(t, first, r.ID)
	assert.Equal(t, "/src", r.Source)
	assert.Equal(t, 2, r.Processed)
	assert.Equal(t, 1, r.Collisions)
	assert.Equal(t, 1, r.TablesConverted)
	require.NotNil(t, r.FinishedAt)
	assert.True(t, r.FinishedAt.After(r.StartedAt))

	latest, err := s.Run(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)

	_, err = s.Run(ctx, 99)
	assert.Error(t, err)
}

func TestFinishRunUnknown(t *testing.T) {
	s := testStore(t)
	err := s.FinishRun(context.Background(), 42, migrate.BatchResult{})
	assert.ErrorContains(t, err, "no such run")
}

func TestFiles(t *testing.T) {
	s := testStore(t)
	id := seedRun(t, s)

	files, err := s.Files(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "Home abc.md", files[0].SourcePath)
	assert.Equal(t, 3, files[0].LinksRewritten)
	assert.Empty(t, files[0].TablePath)

	assert.Equal(t, types.KindTable, files[1].Kind)
	assert.Equal(t, "Tasks.md", files[1].TablePath)
	assert.True(t, files[1].Lossy)
}

func TestIssues(t *testing.T) {
	s := testStore(t)
	id := seedRun(t, s)
	other := seedRun(t, s)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter IssueFilter
		want   int
	}{
		{"all", IssueFilter{}, 4},
		{"by run", IssueFilter{RunID: id}, 2},
		{"by kind", IssueFilter{Kind: types.IssueDestinationCollision}, 2},
		{"by run and kind", IssueFilter{RunID: other, Kind: types.IssueUnreadableInput}, 1},
		{"no match", IssueFilter{Kind: types.IssueIO}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := s.Issues(ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, issues, tt.want)
		})
	}

	issues, err := s.Issues(ctx, IssueFilter{RunID: id})
	require.NoError(t, err)
	assert.Equal(t, "Tasks abc.csv", issues[0].SourcePath)
	assert.Equal(t, id, issues[0].RunID)
}

func TestExport(t *testing.T) {
	s := testStore(t)
	id := seedRun(t, s)
	ctx := context.Background()

	t.Run("yaml", func(t *testing.T) {
		path, err := s.ExportYAML(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "export-1.yaml", filepath.Base(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var exp Export
		require.NoError(t, yaml.Unmarshal(data, &exp))
		assert.Equal(t, id, exp.Run.ID)
		assert.Len(t, exp.Files, 2)
		require.Len(t, exp.Issues, 2)
		assert.Equal(t, types.IssueUnreadableInput, exp.Issues[0].Kind)
	})

	t.Run("json", func(t *testing.T) {
		path, err := s.ExportJSON(ctx, id)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.Contains(data, []byte(`"source_path": "Home abc.md"`)))

		var exp Export
		require.NoError(t, json.Unmarshal(data, &exp))
		assert.Equal(t, "Tasks.md", exp.Files[1].TablePath)
	})
}

func TestRecorderWithMigrator(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "Page 2d41ab7b61d14cec885357ab17d48536.md"), []byte("hi"), 0o644))
	dst := t.TempDir()

	id, err := s.StartRun(ctx, src, dst)
	require.NoError(t, err)

	m := migrate.New(types.MigrationConfig{}, &bytes.Buffer{})
	m.SetRecorder(s.Recorder(id))
	result, err := m.Run(ctx, src, dst)
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, id, result))

	files, err := s.Files(ctx, id)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Page.md", files[0].DestPath)
	assert.Equal(t, types.StatusConverted, files[0].Status)
}
