// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/notion-migrate/internal/ledger"
	"github.com/pdiddy/notion-migrate/internal/migrate"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

const testID = "2d41ab7b61d14cec885357ab17d48536"

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestMigrateAndReport(t *testing.T) {
	src := t.TempDir()
	dir := filepath.Join(src, "Home "+testID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Home "+testID+".md"),
		[]byte("[Child](Home%20"+testID+"/Child%20"+testID+".md)\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Child "+testID+".md"), []byte("child\n"), 0o644))
	dst := filepath.Join(t.TempDir(), "vault")

	out, err := execute(t, "migrate", src, dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Migration summary: 2 processed")

	home, err := os.ReadFile(filepath.Join(dst, "Home.md"))
	require.NoError(t, err)
	assert.Equal(t, "[[Child]]\n", string(home))
	assert.FileExists(t, filepath.Join(dst, "Home", "Child.md"))
	assert.FileExists(t, ledger.DefaultPath(dst))

	out, err = execute(t, "report", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "1 runs")

	_, err = execute(t, "migrate", src, dst)
	assert.ErrorContains(t, err, "not empty")
}

func TestMigrateMissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "vault")
	_, err := execute(t, "migrate", filepath.Join(t.TempDir(), "missing"), dst)
	require.Error(t, err)
	assert.NoDirExists(t, dst)
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "normalize", "Home "+testID+"/Page_"+testID+".md", "Tasks "+testID+".csv")
	require.NoError(t, err)
	assert.Equal(t, "Home/Page.md\nTasks.csv\n", out)
}

func TestIsEmptyDir(t *testing.T) {
	dir := t.TempDir()

	empty, err := isEmptyDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.True(t, empty)

	empty, err = isEmptyDir(dir)
	require.NoError(t, err)
	assert.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f"), nil, 0o644))
	empty, err = isEmptyDir(dir)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	printRuns(&buf, nil)
	assert.Equal(t, "No runs recorded.\n", buf.String())

	buf.Reset()
	printRuns(&buf, []ledger.Run{{ID: 7, Source: "/export", StartedAt: time.Now(), Processed: 12}})
	assert.Contains(t, buf.String(), "/export")
	assert.Contains(t, buf.String(), "* = unfinished")
}

func TestPrintIssues(t *testing.T) {
	var buf bytes.Buffer
	printIssues(&buf, []ledger.IssueEntry{{
		RunID: 2,
		Issue: types.Issue{SourcePath: "a.csv", Kind: types.IssueMalformedTable, Message: "bad quote"},
	}})
	assert.Contains(t, buf.String(), "[run 2] malformed_table a.csv: bad quote")
	assert.Contains(t, buf.String(), "1 issues")
}

func TestNormalizeIdentifiers(t *testing.T) {
	dashed := "2d41ab7b-61d1-4cec-8853-57ab17d48536"
	t.Cleanup(func() { normalizeCmd.Flags().Set("ids", "false") })

	out, err := execute(t, "normalize", "--ids", "Home "+testID+"/Page "+dashed+".md")
	require.NoError(t, err)
	assert.Equal(t, "Home/Page.md\n"+
		"  identifier: "+testID+" (bare)\n"+
		"  identifier: "+dashed+" (dashed)\n", out)
}

func TestFinishRunAfterCancel(t *testing.T) {
	store, err := ledger.Open(ledger.DefaultPath(t.TempDir()))
	require.NoError(t, err)
	defer store.Close()

	runID, err := store.StartRun(context.Background(), "/src", "/dst")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, finishRun(ctx, store, runID, migrate.BatchResult{Processed: 3, Failed: 1}))

	run, err := store.Run(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Processed)
	assert.Equal(t, 1, run.Failed)
	assert.NotNil(t, run.FinishedAt)
}
