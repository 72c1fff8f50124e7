// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notion-migrate/internal/ledger"
	"github.com/pdiddy/notion-migrate/internal/migrate"
)

// defaultDest is where migrate writes when no destination is given.
const defaultDest = "Export"

var migrateCmd = &cobra.Command{
	Use:   "migrate <source> [dest]",
	Short: "Migrate a Notion export into an Obsidian vault",
	Long: `Migrate walks the unzipped Notion export at source and writes the vault
to dest (default ./Export). Markdown pages get clean names and rewritten
links, CSV databases are copied and rendered as Markdown tables next to the
copy, and every other file is copied with its mode and modification time.

Each run is recorded in a SQLite ledger at dest/.notion-migrate/ledger.db
unless --no-ledger is set. Use the report command to inspect it.

An existing, non-empty destination is only written to with --force.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	src := args[0]
	dst := defaultDest
	if len(args) > 1 {
		dst = args[1]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fm, _ := cmd.Flags().GetBool("table-frontmatter"); fm {
		cfg.Tables.Frontmatter = true
	}
	force, _ := cmd.Flags().GetBool("force")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if err := migrate.CheckSource(src); err != nil {
		return err
	}
	if !force {
		empty, err := isEmptyDir(dst)
		if err != nil {
			return err
		}
		if !empty {
			return fmt.Errorf("destination %s is not empty: use --force to write into it", dst)
		}
	}

	out := cmd.OutOrStdout()
	progress := out
	if quiet {
		progress = io.Discard
	}
	m := migrate.New(cfg, progress)

	ctx := cmd.Context()
	var (
		store *ledger.Store
		runID int64
	)
	if !cfg.DisableLedger {
		path := cfg.LedgerPath
		if path == "" {
			path = ledger.DefaultPath(dst)
		}
		store, err = ledger.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err = store.StartRun(ctx, src, dst)
		if err != nil {
			return err
		}
		m.SetRecorder(store.Recorder(runID))
	}

	fmt.Fprintf(progress, "Migrating %s to %s\n", src, dst)
	result, runErr := m.Run(ctx, src, dst)

	if store != nil {
		if err := finishRun(ctx, store, runID, result); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		} else {
			fmt.Fprintf(progress, "Ledger: %s (run %d)\n", store.Path(), runID)
		}
	}
	if runErr != nil {
		return runErr
	}

	result.PrintSummary(out)
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to migrate", result.Failed)
	}
	return nil
}

// finishRun stores the final counts of a run. It still writes after ctx is
// cancelled so an interrupted run keeps its partial counts.
func finishRun(ctx context.Context, store *ledger.Store, runID int64, result migrate.BatchResult) error {
	return store.FinishRun(context.WithoutCancel(ctx), runID, result)
}

// isEmptyDir reports whether dir is missing or has no entries.
func isEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading destination: %w", err)
	}
	return len(entries) == 0, nil
}

func init() {
	migrateCmd.Flags().Int("workers", 4, "number of files processed concurrently")
	migrateCmd.Flags().StringSlice("exclude", nil, "glob of source paths to skip, relative to source (repeatable)")
	migrateCmd.Flags().String("ledger", "", "ledger database path (default: <dest>/.notion-migrate/ledger.db)")
	migrateCmd.Flags().Bool("no-ledger", false, "do not record the run in a ledger")
	migrateCmd.Flags().Bool("table-frontmatter", false, "add YAML frontmatter to generated table documents")
	migrateCmd.Flags().Bool("force", false, "write into a non-empty destination")
	migrateCmd.Flags().BoolP("quiet", "q", false, "print only the summary")

	// Flags override the config file and NOTION_MIGRATE_* variables.
	viper.BindPFlag("workers", migrateCmd.Flags().Lookup("workers"))
	viper.BindPFlag("exclude", migrateCmd.Flags().Lookup("exclude"))
	viper.BindPFlag("ledger", migrateCmd.Flags().Lookup("ledger"))
	viper.BindPFlag("no_ledger", migrateCmd.Flags().Lookup("no-ledger"))

	rootCmd.AddCommand(migrateCmd)
}
