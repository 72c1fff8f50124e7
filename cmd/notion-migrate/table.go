// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notion-migrate/internal/links"
	"github.com/pdiddy/notion-migrate/internal/names"
	"github.com/pdiddy/notion-migrate/internal/table"
)

var tableCmd = &cobra.Command{
	Use:   "table <file>",
	Short: "Print the Markdown table document for a CSV file",
	Long: `Table converts one exported CSV database to the Markdown document migrate
would write next to it. The delimiter is detected from the start of the file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if fm, _ := cmd.Flags().GetBool("frontmatter"); fm {
			cfg.Tables.Frontmatter = true
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		conv := table.NewConverter(links.NewRewriter(cfg.Rewrite), cfg.Tables)
		res := conv.Convert(args[0], raw)
		title := names.Stem(names.CleanPath(filepath.Base(args[0])))
		doc, err := conv.Document(title, args[0], res)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), doc)

		if res.Issue != nil {
			return fmt.Errorf("%s", res.Issue)
		}
		return nil
	},
}

func init() {
	tableCmd.Flags().Bool("frontmatter", false, "add YAML frontmatter")

	rootCmd.AddCommand(tableCmd)
}
