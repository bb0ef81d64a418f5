// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/screening-engine/internal/dedup"
	"github.com/pdiddy/screening-engine/internal/export"
	"github.com/pdiddy/screening-engine/internal/report"
	"github.com/pdiddy/screening-engine/pkg/types"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Deduplicate a single batch of export files",
	Long: `Dedupe merges one batch of export files and removes duplicates in a
single pass. Each input is given as "LABEL:PATH" where LABEL is the source
name used in the precedence ordering. Files ending in .txt are parsed as
loosely structured text exports; everything else as CSV.

Example:
  screening-engine dedupe \
    --input Scopus:raw/query-B_Scopus.csv \
    --input "IEEE Xplore:raw/query-B_IEEEXplore.csv" \
    --precedence "Scopus,IEEE Xplore,ScienceDirect" \
    --out processed/query-B_merged.csv`,
	RunE: runDedupe,
}

func runDedupe(cmd *cobra.Command, args []string) error {
	inputs, _ := cmd.Flags().GetStringArray("input")
	precedence, _ := cmd.Flags().GetString("precedence")
	set, _ := cmd.Flags().GetString("set")
	out, _ := cmd.Flags().GetString("out")

	if len(inputs) == 0 {
		return fmt.Errorf("at least one --input LABEL:PATH is required")
	}
	priority, err := parsePrecedence(precedence)
	if err != nil {
		return err
	}
	pri, err := dedup.NewPriority(priority)
	if err != nil {
		return err
	}

	var records []types.Record
	for _, spec := range inputs {
		label, path, ok := strings.Cut(spec, ":")
		if !ok {
			return fmt.Errorf("input %q is not LABEL:PATH", spec)
		}
		src := types.Source(strings.TrimSpace(label))

		parser, err := export.ForName(parserForPath(path))
		if err != nil {
			return err
		}
		parsed, err := export.ParseFile(parser, strings.TrimSpace(path), src, set)
		if err != nil {
			return err
		}
		records = append(records, parsed...)
	}

	corpus, err := dedup.Deduplicate(records, pri)
	if err != nil {
		return err
	}

	if err := writeCorpus(corpus, out); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "input: %d | unique: %d | removed: %d | unkeyed: %d\n",
		corpus.Stats.InputCount, corpus.Stats.UniqueCount,
		corpus.Stats.DuplicatesRemoved, corpus.Stats.Unkeyed)
	return nil
}

// parsePrecedence splits a comma-separated precedence list. The ordering
// is required; there is no implicit default.
func parsePrecedence(s string) ([]types.Source, error) {
	var priority []types.Source
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			priority = append(priority, types.Source(part))
		}
	}
	if len(priority) == 0 {
		return nil, fmt.Errorf("--precedence is required (e.g. \"Scopus,IEEE Xplore,ScienceDirect\")")
	}
	return priority, nil
}

// parserForPath picks the export parser from the file extension.
func parserForPath(path string) string {
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path))); ext == ".txt" || ext == ".text" {
		return "text"
	}
	return "csv"
}

// writeCorpus writes the corpus CSV to path, or to stdout when path is empty.
func writeCorpus(corpus types.Corpus, path string) error {
	if path == "" {
		return report.WriteCorpusCSV(corpus, os.Stdout)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := report.WriteCorpusCSV(corpus, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	dedupeCmd.Flags().StringArray("input", nil, `export file as "LABEL:PATH" (repeatable)`)
	dedupeCmd.Flags().String("precedence", "", "retention precedence, highest first (comma-separated)")
	dedupeCmd.Flags().String("set", "", "query set identifier to tag records with")
	dedupeCmd.Flags().String("out", "", "output CSV file (default: stdout)")

	rootCmd.AddCommand(dedupeCmd)
}
