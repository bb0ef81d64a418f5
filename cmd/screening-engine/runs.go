// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the run-history database",
	Long: `Runs lists and inspects merge runs recorded with "merge --store".
Use "runs list" for the history and "runs show ID" for one run's
statistics, overlaps, and corpus.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded merge runs",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-20s  %8s  %8s  %8s  %s\n",
		"ID", "Created", "Input", "Removed", "Unique", "Manifest")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, r := range runs {
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(os.Stdout, "%-6d  %-20s  %8d  %8d  %8d  %s\n",
			r.ID, created, r.InputCount, r.DuplicatesRemoved, r.UniqueCount, r.Manifest)
	}
	return nil
}

var runsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	run, err := s.LoadRun(context.Background(), id)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprintf(os.Stdout, "Run %d (%s)\n", run.Summary.ID, run.Summary.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.Summary.Manifest != "" {
		fmt.Fprintf(os.Stdout, "Manifest: %s\n", run.Summary.Manifest)
	}
	fmt.Fprintln(os.Stdout)

	fmt.Fprintf(os.Stdout, "%-10s  %8s  %8s  %8s  %8s\n", "Set", "Input", "Removed", "Unique", "Unkeyed")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 50))
	for _, st := range run.SetStats {
		fmt.Fprintf(os.Stdout, "%-10s  %8d  %8d  %8d  %8d\n",
			st.Set, st.Stats.InputCount, st.Stats.DuplicatesRemoved, st.Stats.UniqueCount, st.Stats.Unkeyed)
	}
	cross := run.Corpus.Stats
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 50))
	fmt.Fprintf(os.Stdout, "%-10s  %8d  %8d  %8d  %8d\n",
		"cross-set", cross.InputCount, cross.DuplicatesRemoved, cross.UniqueCount, cross.Unkeyed)

	if len(run.Overlaps.Pairwise) > 0 {
		fmt.Fprintln(os.Stdout, "\nOverlaps:")
		for _, o := range run.Overlaps.Pairwise {
			fmt.Fprintf(os.Stdout, "  %s ∩ %s: %d\n", o.SetA, o.SetB, o.Count)
		}
		fmt.Fprintf(os.Stdout, "  all sets: %d\n", run.Overlaps.Triple)
	}
	return nil
}

func init() {
	runsCmd.PersistentFlags().String("db", "", "run-history database file (default from config)")
	runsShowCmd.Flags().Bool("json", false, "output the run as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
