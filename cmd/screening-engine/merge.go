// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/screening-engine/internal/manifest"
	"github.com/pdiddy/screening-engine/internal/merge"
	"github.com/pdiddy/screening-engine/internal/report"
	"github.com/pdiddy/screening-engine/internal/store"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Run the full two-stage merge from a manifest",
	Long: `Merge reads a run manifest (source catalog, priority, query sets, and
per-set export files), deduplicates each query set, then deduplicates the
concatenated per-set corpora into the final screening corpus. It prints a
statistics table with set overlaps and writes the corpus as CSV.

With --store the run is also recorded in the run-history database for
later inspection via "screening-engine runs".`,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	out, _ := cmd.Flags().GetString("out")
	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	storeRun, _ := cmd.Flags().GetBool("store")

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	inputs, err := m.Collect()
	if err != nil {
		return err
	}

	res, err := merge.Run(inputs, m.MergeConfig)
	if err != nil {
		return err
	}

	if out != "" {
		if err := writeCorpus(res.CrossSet, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", res.CrossSet.Stats.UniqueCount, out)
	}

	if storeRun {
		s, err := store.NewStore(storeConfig(cmd))
		if err != nil {
			return err
		}
		defer s.Close()
		id, err := s.SaveRun(context.Background(), res, manifestPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Recorded run %d\n", id)
	}

	switch {
	case asJSON:
		return report.FormatJSON(res, os.Stdout)
	case asYAML:
		return report.FormatYAML(res, os.Stdout)
	default:
		report.FormatTable(res, os.Stdout)
		return nil
	}
}

// storeConfig resolves the run database path: flag first, then config
// file / environment, then the built-in default.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("store.db_path")
	}
	return types.StoreConfig{DBPath: dbPath}
}

func init() {
	mergeCmd.Flags().String("manifest", "run.yaml", "run manifest file")
	mergeCmd.Flags().String("out", "", "final corpus CSV file (omit to skip writing)")
	mergeCmd.Flags().Bool("json", false, "print the full result as JSON")
	mergeCmd.Flags().Bool("yaml", false, "print the full result as YAML")
	mergeCmd.Flags().Bool("store", false, "record the run in the run-history database")
	mergeCmd.Flags().String("db", "", "run-history database file (default from config)")

	rootCmd.AddCommand(mergeCmd)
}
