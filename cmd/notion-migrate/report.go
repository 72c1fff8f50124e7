// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notion-migrate/internal/ledger"
	"github.com/pdiddy/notion-migrate/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [dest]",
	Short: "Show recorded migration runs and their issues",
	Long: `Report reads the ledger of a migrated vault (dest, default ./Export) and
lists its runs. With --run or --kind it lists the recorded issues instead,
and --export writes the full record of a run (the latest unless --run is
given) to a YAML or JSON file next to the ledger.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("ledger")
	if path == "" {
		dest := defaultDest
		if len(args) > 0 {
			dest = args[0]
		}
		path = ledger.DefaultPath(dest)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no ledger at %s: %w", path, err)
	}

	runID, _ := cmd.Flags().GetInt64("run")
	kind, _ := cmd.Flags().GetString("kind")
	format, _ := cmd.Flags().GetString("export")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch format {
	case "":
	case "yaml":
		p, err := store.ExportYAML(ctx, runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported to %s\n", p)
		return nil
	case "json":
		p, err := store.ExportJSON(ctx, runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported to %s\n", p)
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	if runID == 0 && kind == "" {
		runs, err := store.Runs(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, runs)
		}
		printRuns(out, runs)
		return nil
	}

	issues, err := store.Issues(ctx, ledger.IssueFilter{RunID: runID, Kind: types.IssueKind(kind)})
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, issues)
	}
	printIssues(out, issues)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRuns(w io.Writer, runs []ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-9s  %-6s  %-10s  %-6s  %s\n",
		"Run", "Started", "Processed", "Failed", "Collisions", "Tables", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, r := range runs {
		started := r.StartedAt.Local().Format("2006-01-02 15:04:05")
		if r.FinishedAt == nil {
			started += "*"
		}
		fmt.Fprintf(w, "%-4d  %-20s  %-9d  %-6d  %-10d  %-6d  %s\n",
			r.ID, started, r.Processed, r.Failed, r.Collisions, r.TablesConverted, r.Source)
	}
	fmt.Fprintf(w, "\n%d runs (* = unfinished)\n", len(runs))
}

func printIssues(w io.Writer, issues []ledger.IssueEntry) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	for _, e := range issues {
		fmt.Fprintf(w, "[run %d] %s\n", e.RunID, e.Issue)
	}
	fmt.Fprintf(w, "\n%d issues\n", len(issues))
}

func init() {
	reportCmd.Flags().String("ledger", "", "ledger database path (default: <dest>/.notion-migrate/ledger.db)")
	reportCmd.Flags().Int64("run", 0, "list issues of this run")
	reportCmd.Flags().String("kind", "", "list issues of this kind: unreadable_input, undetectable_delimiter, malformed_table, unresolvable_link, destination_collision, io")
	reportCmd.Flags().Bool("json", false, "output as JSON")
	reportCmd.Flags().String("export", "", "write the run record to a file: yaml or json")

	rootCmd.AddCommand(reportCmd)
}
