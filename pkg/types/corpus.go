// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stats summarizes one deduplication run. All counts are reported here
// rather than logged, so callers decide how to surface them.
type Stats struct {
	// InputCount is the number of records fed into the run.
	InputCount int `json:"input_count" yaml:"input_count"`

	// DuplicatesRemoved is the number of non-surviving group members.
	DuplicatesRemoved int `json:"duplicates_removed" yaml:"duplicates_removed"`

	// UniqueCount is the number of surviving records.
	// UniqueCount + DuplicatesRemoved == InputCount always holds.
	UniqueCount int `json:"unique_count" yaml:"unique_count"`

	// Unkeyed counts records with no usable identity key. They survive as
	// singletons and are never merged with anything.
	Unkeyed int `json:"unkeyed" yaml:"unkeyed"`
}

// Corpus is the output of one deduplication run: surviving records in
// their relative input order, plus run statistics.
type Corpus struct {
	Records []Record `json:"records" yaml:"records"`
	Stats   Stats    `json:"stats" yaml:"stats"`
}

// SetOverlap is the number of identity keys shared by a pair of query
// sets after within-set deduplication. Keys present in all three sets
// count toward every pair.
type SetOverlap struct {
	SetA  string `json:"set_a" yaml:"set_a"`
	SetB  string `json:"set_b" yaml:"set_b"`
	Count int    `json:"count" yaml:"count"`
}

// OverlapReport holds pairwise and triple intersection counts between the
// per-set survivor corpora.
type OverlapReport struct {
	// Pairwise lists one entry per unordered set pair, in query-set order.
	Pairwise []SetOverlap `json:"pairwise" yaml:"pairwise"`

	// Triple is the number of keys present in all three sets. Zero when
	// fewer than three sets were processed.
	Triple int `json:"triple" yaml:"triple"`
}

// Pair returns the overlap count for the unordered pair (a, b), or 0 if
// the pair was not part of the run.
func (r OverlapReport) Pair(a, b string) int {
	for _, o := range r.Pairwise {
		if (o.SetA == a && o.SetB == b) || (o.SetA == b && o.SetB == a) {
			return o.Count
		}
	}
	return 0
}
