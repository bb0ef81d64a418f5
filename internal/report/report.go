// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders merge results for humans and machines: a stats
// table, JSON and YAML encodings, and the screening corpus as CSV.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/screening-engine/internal/merge"
)

// FormatTable writes per-set and cross-set statistics plus the overlap
// report as a human-readable table.
func FormatTable(res merge.Result, w io.Writer) {
	fmt.Fprintf(w, "%-10s  %8s  %8s  %8s  %8s\n", "Set", "Input", "Removed", "Unique", "Unkeyed")
	fmt.Fprintln(w, strings.Repeat("-", 50))

	for _, sr := range res.PerSet {
		st := sr.Corpus.Stats
		fmt.Fprintf(w, "%-10s  %8d  %8d  %8d  %8d\n",
			sr.Set, st.InputCount, st.DuplicatesRemoved, st.UniqueCount, st.Unkeyed)
	}

	cross := res.CrossSet.Stats
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-10s  %8d  %8d  %8d  %8d\n",
		"cross-set", cross.InputCount, cross.DuplicatesRemoved, cross.UniqueCount, cross.Unkeyed)

	if len(res.Overlaps.Pairwise) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Overlaps (shared identity keys after within-set dedup):")
		for _, o := range res.Overlaps.Pairwise {
			fmt.Fprintf(w, "  %s ∩ %s: %d\n", o.SetA, o.SetB, o.Count)
		}
		if len(res.PerSet) >= 3 {
			fmt.Fprintf(w, "  all sets: %d\n", res.Overlaps.Triple)
		}
	}

	fmt.Fprintf(w, "\n%d records in final corpus (%d duplicates removed)\n",
		cross.UniqueCount, cross.DuplicatesRemoved)
}

// FormatJSON writes the full result as indented JSON.
func FormatJSON(res merge.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// FormatYAML writes the full result as YAML.
func FormatYAML(res merge.Result, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(res)
}
