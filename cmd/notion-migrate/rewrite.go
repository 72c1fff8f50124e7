// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notion-migrate/internal/links"
	"github.com/pdiddy/notion-migrate/internal/textutil"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <file>",
	Short: "Print a Markdown page with its links rewritten",
	Long: `Rewrite applies the platform URL, asset, and document link passes to one
exported page and prints the result. With --stats every link edit is listed
on stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, _ := cmd.Flags().GetBool("stats")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		text, lossy := textutil.Decode(raw)
		if lossy {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not valid UTF-8; invalid bytes were replaced\n", args[0])
		}

		res := links.NewRewriter(cfg.Rewrite).Rewrite(text)
		fmt.Fprint(cmd.OutOrStdout(), res.Content)

		if stats {
			w := cmd.ErrOrStderr()
			for _, e := range res.Edits {
				fmt.Fprintf(w, "%-12s %-11s %s -> %s\n", e.Pass, e.Outcome, e.Original, e.Result)
			}
			fmt.Fprintf(w, "%d rewritten, %d unresolved, %d links\n", res.Rewritten(), res.Unresolved(), len(res.Edits))
		}
		return nil
	},
}

func init() {
	rewriteCmd.Flags().Bool("stats", false, "list link edits on stderr")
	rootCmd.AddCommand(rewriteCmd)
}
