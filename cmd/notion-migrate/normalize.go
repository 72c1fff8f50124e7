// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notion-migrate/internal/ident"
	"github.com/pdiddy/notion-migrate/internal/links"
	"github.com/pdiddy/notion-migrate/internal/names"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <path>...",
	Short: "Print the cleaned destination path of each argument",
	Long: `Normalize prints the path each argument would be migrated to: every
segment with its identifier and illegal characters removed. With --title it
prints the cross-reference title a link to the path would get instead, and
with --ids it lists the identifiers found in the argument.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetBool("title")
		ids, _ := cmd.Flags().GetBool("ids")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rw := links.NewRewriter(cfg.Rewrite)

		for _, arg := range args {
			if title {
				fmt.Fprintln(cmd.OutOrStdout(), rw.Title(arg))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), names.CleanPath(arg))
			}
			if ids {
				for _, id := range identifiers(arg) {
					fmt.Fprintf(cmd.OutOrStdout(), "  identifier: %s\n", id)
				}
			}
		}
		return nil
	},
}

// identifiers lists every identifier in s with its shape, left to right.
func identifiers(s string) []string {
	var ids []string
	for {
		loc := ident.Find(s)
		if loc == nil {
			return ids
		}
		shape, n := ident.MatchAt(s, loc[0])
		if n == 0 {
			return ids
		}
		ids = append(ids, fmt.Sprintf("%s (%s)", s[loc[0]:loc[0]+n], shape))
		s = s[loc[0]+n:]
	}
}

func init() {
	normalizeCmd.Flags().Bool("title", false, "print the cross-reference title instead of the path")
	normalizeCmd.Flags().Bool("ids", false, "list the identifiers found in each argument")
	rootCmd.AddCommand(normalizeCmd)
}
