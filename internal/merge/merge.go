// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge runs two-level deduplication over query-set exports:
// first independently within each query set, then across the
// concatenation of the per-set corpora, and computes the intersection
// counts between sets for reporting.
package merge

import (
	"fmt"

	"github.com/pdiddy/screening-engine/internal/dedup"
	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// SetInput holds one query set's records, grouped per database in the
// fixed concatenation order. A missing or empty database slot contributes
// zero records; it is never an error.
type SetInput struct {
	// Set is the query-set identifier (e.g. "A", "B", "C").
	Set string

	// BySource lists each database's records in concatenation order.
	BySource []SourceRecords
}

// SourceRecords is one database's contribution to a query set.
type SourceRecords struct {
	Source  types.Source
	Records []types.Record
}

// SetResult is the stage-1 outcome for one query set.
type SetResult struct {
	Set    string       `json:"set" yaml:"set"`
	Corpus types.Corpus `json:"corpus" yaml:"corpus"`
}

// Result is the full two-stage outcome.
type Result struct {
	// PerSet holds the stage-1 corpora in query-set order.
	PerSet []SetResult `json:"per_set" yaml:"per_set"`

	// CrossSet is the final screening corpus. Its DuplicatesRemoved count
	// is the number of records that appeared, post within-set dedup, in
	// more than one set.
	CrossSet types.Corpus `json:"cross_set" yaml:"cross_set"`

	// Overlaps counts identity keys shared between per-set survivor sets.
	Overlaps types.OverlapReport `json:"overlaps" yaml:"overlaps"`
}

// Run executes both deduplication stages over the given set inputs.
// Inputs are processed in cfg.QuerySets order; sets absent from inputs
// contribute zero records. Records from sources excluded from screening
// (discovery-only databases) are dropped before stage 1.
func Run(inputs []SetInput, cfg types.MergeConfig) (Result, error) {
	pri, err := dedup.NewPriority(cfg.Priority)
	if err != nil {
		return Result{}, err
	}

	bySet := make(map[string]SetInput, len(inputs))
	for _, in := range inputs {
		bySet[in.Set] = in
	}

	var res Result
	var concatenated []types.Record

	// Stage 1: within-set deduplication, in configured set order.
	for _, set := range cfg.QuerySets {
		in := bySet[set] // a set with no inputs contributes zero records

		var records []types.Record
		for _, sr := range in.BySource {
			if !cfg.Screening(sr.Source) {
				continue
			}
			records = append(records, sr.Records...)
		}

		corpus, err := dedup.Deduplicate(records, pri)
		if err != nil {
			return Result{}, fmt.Errorf("set %s: %w", set, err)
		}
		res.PerSet = append(res.PerSet, SetResult{Set: set, Corpus: corpus})
		concatenated = append(concatenated, corpus.Records...)
	}

	// Stage 2: cross-set deduplication over the concatenated corpora.
	cross, err := dedup.Deduplicate(concatenated, pri)
	if err != nil {
		return Result{}, fmt.Errorf("cross-set: %w", err)
	}
	res.CrossSet = cross
	res.Overlaps = overlapReport(res.PerSet)

	return res, nil
}

// overlapReport intersects the per-set survivor key sets. A key present
// in all sets counts toward every pair as well as the triple count.
func overlapReport(perSet []SetResult) types.OverlapReport {
	keysBySet := make([]map[string]struct{}, len(perSet))
	for i, sr := range perSet {
		keysBySet[i] = dedup.Keys(sr.Corpus.Records)
	}

	var report types.OverlapReport
	for i := 0; i < len(perSet); i++ {
		for j := i + 1; j < len(perSet); j++ {
			count := 0
			for key := range keysBySet[i] {
				if _, ok := keysBySet[j][key]; ok {
					count++
				}
			}
			report.Pairwise = append(report.Pairwise, types.SetOverlap{
				SetA:  perSet[i].Set,
				SetB:  perSet[j].Set,
				Count: count,
			})
		}
	}

	if len(perSet) >= 3 {
		for key := range keysBySet[0] {
			in := true
			for _, keys := range keysBySet[1:] {
				if _, ok := keys[key]; !ok {
					in = false
					break
				}
			}
			if in {
				report.Triple++
			}
		}
	}

	return report
}

// SetKeys returns, for each identity key in the per-set corpora, the set
// ids it originates from. Used by callers that need key-level provenance
// beyond the aggregate overlap counts.
func SetKeys(perSet []SetResult) map[string][]string {
	origin := make(map[string][]string)
	for _, sr := range perSet {
		for _, r := range sr.Corpus.Records {
			key := normalize.IdentityKey(r)
			if key == "" {
				continue
			}
			ids := origin[key]
			if len(ids) == 0 || ids[len(ids)-1] != sr.Set {
				origin[key] = append(ids, sr.Set)
			}
		}
	}
	return origin
}
