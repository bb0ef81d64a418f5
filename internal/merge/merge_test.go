// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/pdiddy/screening-engine/internal/dedup"
	"github.com/pdiddy/screening-engine/pkg/types"
)

const (
	scopus        = types.Source("Scopus")
	ieee          = types.Source("IEEE Xplore")
	scienceDirect = types.Source("ScienceDirect")
	scholar       = types.Source("Google Scholar")
)

func testConfig() types.MergeConfig {
	return types.MergeConfig{
		Sources: []types.SourceSpec{
			{Name: scopus, IncludedInScreening: true, Parser: "csv"},
			{Name: ieee, IncludedInScreening: true, Parser: "csv"},
			{Name: scienceDirect, IncludedInScreening: true, Parser: "text"},
			{Name: scholar, IncludedInScreening: false},
		},
		Priority:  []types.Source{scopus, ieee, scienceDirect},
		QuerySets: []string{"A", "B", "C"},
	}
}

func rec(src types.Source, set, doi string) types.Record {
	return types.Record{
		Source:   src,
		QuerySet: set,
		RawDOI:   doi,
		RawTitle: "Title for " + doi,
	}
}

func TestRunTwoStage(t *testing.T) {
	inputs := []SetInput{
		{
			Set: "A",
			BySource: []SourceRecords{
				{Source: scopus, Records: []types.Record{
					rec(scopus, "A", "10.1000/one"),
					rec(scopus, "A", "10.1000/two"),
				}},
				{Source: ieee, Records: []types.Record{
					rec(ieee, "A", "10.1000/one"), // within-set duplicate
					rec(ieee, "A", "10.1000/three"),
				}},
			},
		},
		{
			Set: "B",
			BySource: []SourceRecords{
				{Source: ieee, Records: []types.Record{
					rec(ieee, "B", "10.1000/two"), // appears in set A as well
					rec(ieee, "B", "10.1000/four"),
				}},
			},
		},
		{Set: "C"}, // no inputs at all
	}

	res, err := Run(inputs, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.PerSet) != 3 {
		t.Fatalf("len(PerSet) = %d, want 3", len(res.PerSet))
	}
	a, b, c := res.PerSet[0], res.PerSet[1], res.PerSet[2]
	if a.Corpus.Stats.UniqueCount != 3 || a.Corpus.Stats.DuplicatesRemoved != 1 {
		t.Errorf("set A stats = %+v", a.Corpus.Stats)
	}
	if b.Corpus.Stats.UniqueCount != 2 {
		t.Errorf("set B stats = %+v", b.Corpus.Stats)
	}
	if c.Corpus.Stats.InputCount != 0 || c.Corpus.Stats.UniqueCount != 0 {
		t.Errorf("empty set C stats = %+v", c.Corpus.Stats)
	}

	// Cross-set: 3 + 2 inputs, "10.1000/two" appears in both A and B.
	if res.CrossSet.Stats.InputCount != 5 {
		t.Errorf("cross InputCount = %d, want 5", res.CrossSet.Stats.InputCount)
	}
	if res.CrossSet.Stats.DuplicatesRemoved != 1 {
		t.Errorf("cross DuplicatesRemoved = %d, want 1", res.CrossSet.Stats.DuplicatesRemoved)
	}
	if res.CrossSet.Stats.UniqueCount != 4 {
		t.Errorf("cross UniqueCount = %d, want 4", res.CrossSet.Stats.UniqueCount)
	}

	// The shared key survives from set A: Scopus outranks IEEE.
	for _, r := range res.CrossSet.Records {
		if r.RawDOI == "10.1000/two" && r.QuerySet != "A" {
			t.Errorf("cross-set survivor for shared key from set %q, want A", r.QuerySet)
		}
	}

	if got := res.Overlaps.Pair("A", "B"); got != 1 {
		t.Errorf("A∩B = %d, want 1", got)
	}
	if got := res.Overlaps.Pair("A", "C"); got != 0 {
		t.Errorf("A∩C = %d, want 0", got)
	}
	if res.Overlaps.Triple != 0 {
		t.Errorf("Triple = %d, want 0", res.Overlaps.Triple)
	}
}

func TestRunExcludesDiscoveryOnlySources(t *testing.T) {
	inputs := []SetInput{
		{
			Set: "A",
			BySource: []SourceRecords{
				{Source: scopus, Records: []types.Record{rec(scopus, "A", "10.1000/one")}},
				// Google Scholar is discovery-only; its records never reach
				// screening-stage dedup, so its missing rank is not an error.
				{Source: scholar, Records: []types.Record{rec(scholar, "A", "10.1000/seed")}},
			},
		},
	}
	cfg := testConfig()
	cfg.QuerySets = []string{"A"}

	res, err := Run(inputs, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.PerSet[0].Corpus.Stats.InputCount != 1 {
		t.Errorf("InputCount = %d, want 1 (scholar record dropped)", res.PerSet[0].Corpus.Stats.InputCount)
	}
}

func TestRunExcludedSourcesOption(t *testing.T) {
	cfg := testConfig()
	cfg.QuerySets = []string{"A"}
	cfg.ExcludedSources = []types.Source{ieee}

	inputs := []SetInput{
		{
			Set: "A",
			BySource: []SourceRecords{
				{Source: scopus, Records: []types.Record{rec(scopus, "A", "10.1000/one")}},
				{Source: ieee, Records: []types.Record{rec(ieee, "A", "10.1000/two")}},
			},
		},
	}

	res, err := Run(inputs, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.CrossSet.Stats.UniqueCount != 1 {
		t.Errorf("UniqueCount = %d, want 1", res.CrossSet.Stats.UniqueCount)
	}
}

func TestRunUnrankedSourceFails(t *testing.T) {
	cfg := testConfig()
	cfg.QuerySets = []string{"A"}
	// A screened source that is missing from the priority ordering.
	cfg.Sources = append(cfg.Sources, types.SourceSpec{Name: "Web of Science", IncludedInScreening: true})

	inputs := []SetInput{
		{
			Set: "A",
			BySource: []SourceRecords{
				{Source: "Web of Science", Records: []types.Record{rec("Web of Science", "A", "10.1000/one")}},
			},
		},
	}

	_, err := Run(inputs, cfg)
	if !errors.Is(err, dedup.ErrUnrankedSource) {
		t.Errorf("error = %v, want ErrUnrankedSource", err)
	}
}

func TestRunEmptyPriorityFails(t *testing.T) {
	cfg := testConfig()
	cfg.Priority = nil
	if _, err := Run(nil, cfg); err == nil {
		t.Error("expected error for empty priority ordering")
	}
}

// TestRunDocumentedCorpus reproduces the documented end-to-end scenario:
// per-set unique counts A=84, B=237, C=323 (644 total), cross-set run
// removing 26 duplicates for a final corpus of 618, with overlaps
// A∩B=21, A∩C=3, B∩C=2 and no key in all three sets.
func TestRunDocumentedCorpus(t *testing.T) {
	doi := func(group string, i int) string { return fmt.Sprintf("10.9999/%s.%04d", group, i) }

	build := func(set string, shared []string, exclusive int) SetInput {
		var records []types.Record
		for _, d := range shared {
			records = append(records, rec(scopus, set, d))
		}
		for i := 0; i < exclusive; i++ {
			records = append(records, rec(scopus, set, doi(set, i)))
		}
		return SetInput{Set: set, BySource: []SourceRecords{{Source: scopus, Records: records}}}
	}

	var ab, ac, bc []string
	for i := 0; i < 21; i++ {
		ab = append(ab, doi("ab", i))
	}
	for i := 0; i < 3; i++ {
		ac = append(ac, doi("ac", i))
	}
	for i := 0; i < 2; i++ {
		bc = append(bc, doi("bc", i))
	}

	inputs := []SetInput{
		build("A", append(append([]string{}, ab...), ac...), 60),  // 21+3+60 = 84
		build("B", append(append([]string{}, ab...), bc...), 214), // 21+2+214 = 237
		build("C", append(append([]string{}, ac...), bc...), 318), // 3+2+318 = 323
	}

	res, err := Run(inputs, testConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantUnique := []int{84, 237, 323}
	for i, sr := range res.PerSet {
		if sr.Corpus.Stats.UniqueCount != wantUnique[i] {
			t.Errorf("set %s unique = %d, want %d", sr.Set, sr.Corpus.Stats.UniqueCount, wantUnique[i])
		}
	}

	if res.CrossSet.Stats.InputCount != 644 {
		t.Errorf("cross input = %d, want 644", res.CrossSet.Stats.InputCount)
	}
	if res.CrossSet.Stats.DuplicatesRemoved != 26 {
		t.Errorf("cross removed = %d, want 26", res.CrossSet.Stats.DuplicatesRemoved)
	}
	if res.CrossSet.Stats.UniqueCount != 618 {
		t.Errorf("final corpus = %d, want 618", res.CrossSet.Stats.UniqueCount)
	}

	if got := res.Overlaps.Pair("A", "B"); got != 21 {
		t.Errorf("A∩B = %d, want 21", got)
	}
	if got := res.Overlaps.Pair("A", "C"); got != 3 {
		t.Errorf("A∩C = %d, want 3", got)
	}
	if got := res.Overlaps.Pair("B", "C"); got != 2 {
		t.Errorf("B∩C = %d, want 2", got)
	}
	if res.Overlaps.Triple != 0 {
		t.Errorf("A∩B∩C = %d, want 0", res.Overlaps.Triple)
	}
}

func TestRunDeterministic(t *testing.T) {
	inputs := []SetInput{
		{
			Set: "A",
			BySource: []SourceRecords{
				{Source: scopus, Records: []types.Record{rec(scopus, "A", "10.1000/one"), rec(scopus, "A", "10.1000/two")}},
				{Source: ieee, Records: []types.Record{rec(ieee, "A", "10.1000/one")}},
			},
		},
		{
			Set: "B",
			BySource: []SourceRecords{
				{Source: scienceDirect, Records: []types.Record{rec(scienceDirect, "B", "10.1000/two")}},
			},
		},
	}
	cfg := testConfig()
	cfg.QuerySets = []string{"A", "B"}

	first, err := Run(inputs, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Run(inputs, cfg)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed", i)
		}
	}
}

func TestSetKeys(t *testing.T) {
	perSet := []SetResult{
		{Set: "A", Corpus: types.Corpus{Records: []types.Record{
			rec(scopus, "A", "10.1000/one"),
			rec(scopus, "A", "10.1000/shared"),
		}}},
		{Set: "B", Corpus: types.Corpus{Records: []types.Record{
			rec(ieee, "B", "10.1000/shared"),
		}}},
	}

	origin := SetKeys(perSet)
	if got := origin["10.1000/shared"]; !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("origin[shared] = %v, want [A B]", got)
	}
	if got := origin["10.1000/one"]; !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("origin[one] = %v, want [A]", got)
	}
}
