// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notion-migrate CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notion-migrate/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the notion-migrate CLI.
var rootCmd = &cobra.Command{
	Use:   "notion-migrate",
	Short: "Convert a Notion export into an Obsidian vault",
	Long: `notion-migrate turns an unzipped Notion Markdown & CSV export into a tree
Obsidian can open as a vault. Identifiers are stripped from file and folder
names, links between pages become [[cross-references]], and database CSVs get
a Markdown table document next to the copied original.

Use migrate for a full run; normalize, rewrite, and table preview a single
path or file without writing anything.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./notion-migrate.yaml or ~/.config/notion-migrate/notion-migrate.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notion-migrate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notion-migrate"))
		}
	}

	viper.SetEnvPrefix("NOTION_MIGRATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the migration settings from the config file, the
// environment and any bound flags.
func loadConfig() (types.MigrationConfig, error) {
	var cfg types.MigrationConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
