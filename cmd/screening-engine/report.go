// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/manifest"
	"github.com/pdiddy/screening-engine/internal/merge"
	"github.com/pdiddy/screening-engine/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print statistics and set overlaps without writing a corpus",
	Long: `Report runs both deduplication stages from a manifest and prints the
statistics table, set overlaps, and key-level provenance, without writing
any corpus file. Use it to check overlap numbers before committing to a
merge.`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	manifestPath, _ := cmd.Flags().GetString("manifest")
	showKeys, _ := cmd.Flags().GetBool("keys")

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

	report.FormatTable(res, os.Stdout)

	if showKeys {
		fmt.Fprintln(os.Stdout, "\nKeys present in more than one set:")
		for key, sets := range merge.SetKeys(res.PerSet) {
			if len(sets) > 1 {
				fmt.Fprintf(os.Stdout, "  %s  [%s]\n", key, strings.Join(sets, ", "))
			}
		}
	}
	return nil
}

func init() {
	reportCmd.Flags().String("manifest", "run.yaml", "run manifest file")
	reportCmd.Flags().Bool("keys", false, "list identity keys shared between sets")

	rootCmd.AddCommand(reportCmd)
}
