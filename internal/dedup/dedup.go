// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup groups records by identity key and keeps one survivor per
// group according to a source priority ordering.
package dedup

import (
	"fmt"

	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// ErrUnrankedSource reports a record whose source is absent from the
// priority ordering. Silently ranking an unknown source would make the
// survivor choice arbitrary, so this is a fatal configuration error.
var ErrUnrankedSource = fmt.Errorf("source not in priority ordering")

// Priority is an injective ranking over sources. Lower rank wins.
type Priority struct {
	ranks map[types.Source]int
}

// NewPriority builds a Priority from an ordered source list, highest
// precedence first. Duplicate entries are rejected.
func NewPriority(order []types.Source) (Priority, error) {
	if len(order) == 0 {
		return Priority{}, fmt.Errorf("priority ordering is empty")
	}
	ranks := make(map[types.Source]int, len(order))
	for i, src := range order {
		if _, ok := ranks[src]; ok {
			return Priority{}, fmt.Errorf("duplicate source %q in priority ordering", src)
		}
		ranks[src] = i
	}
	return Priority{ranks: ranks}, nil
}

// Rank returns the precedence rank for src (0 = kept first).
func (p Priority) Rank(src types.Source) (int, error) {
	r, ok := p.ranks[src]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnrankedSource, src)
	}
	return r, nil
}

// Deduplicate partitions records by identity key and keeps exactly one
// survivor per group: the member from the highest-priority source, and on
// equal rank the earliest in input order. Records with no usable key are
// never compared to anything; each survives as its own singleton and is
// counted in Stats.Unkeyed. Survivors keep their payload unchanged and
// appear in the output in their relative input order.
func Deduplicate(records []types.Record, pri Priority) (types.Corpus, error) {
	// Validate ranks up front so a bad catalog fails before any grouping.
	ranks := make([]int, len(records))
	for i, r := range records {
		rank, err := pri.Rank(r.Source)
		if err != nil {
			return types.Corpus{}, err
		}
		ranks[i] = rank
	}

	type group struct {
		keep int // index into records of the current survivor
		rank int
	}

	byKey := make(map[string]*group)
	keep := make([]bool, len(records))
	unkeyed := 0

	for i, r := range records {
		key := normalize.IdentityKey(r)
		if key == "" {
			keep[i] = true
			unkeyed++
			continue
		}

		g, ok := byKey[key]
		if !ok {
			byKey[key] = &group{keep: i, rank: ranks[i]}
			keep[i] = true
			continue
		}
		// Strictly better rank replaces the survivor; ties keep the
		// earlier record.
		if ranks[i] < g.rank {
			keep[g.keep] = false
			g.keep, g.rank = i, ranks[i]
			keep[i] = true
		}
	}

	survivors := make([]types.Record, 0, len(records))
	for i, r := range records {
		if keep[i] {
			survivors = append(survivors, r)
		}
	}

	return types.Corpus{
		Records: survivors,
		Stats: types.Stats{
			InputCount:        len(records),
			DuplicatesRemoved: len(records) - len(survivors),
			UniqueCount:       len(survivors),
			Unkeyed:           unkeyed,
		},
	}, nil
}

// Keys returns the set of non-empty identity keys present in records.
func Keys(records []types.Record) map[string]struct{} {
	keys := make(map[string]struct{}, len(records))
	for _, r := range records {
		if key := normalize.IdentityKey(r); key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}
