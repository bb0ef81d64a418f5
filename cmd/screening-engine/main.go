// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the screening-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the screening-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "screening-engine",
	Short: "Merge and deduplicate citation database exports",
	Long: `screening-engine merges bibliographic exports from several citation
databases (Scopus, IEEE Xplore, ScienceDirect, ...) into a single
duplicate-free corpus for manual screening.

Records are matched by normalized DOI, falling back to normalized title.
When the same work appears in several exports, the record from the
highest-priority source is kept. Deduplication runs at two levels: within
each query set, then across the per-set corpora, with pairwise and triple
overlap counts reported for the write-up.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./screening-engine.yaml or ~/.config/screening-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("screening-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "screening-engine"))
		}
	}

	viper.SetEnvPrefix("SCREENING_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("store.db_path", "screening/runs.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
