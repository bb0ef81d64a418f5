// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the screening-engine
// pipeline: exported bibliographic records, source descriptions, run
// configuration, and deduplication statistics.
package types

// Source identifies the database an export came from (e.g. "Scopus",
// "IEEE Xplore", "ScienceDirect", "Google Scholar").
type Source string

// SourceSpec describes one database in the source catalog. Whether a
// source contributes to the screening corpus is data, not a code branch,
// so discovery-only databases can be added or removed without logic
// changes.
type SourceSpec struct {
	// Name is the source identifier used on records and in the priority order.
	Name Source `json:"name" yaml:"name"`

	// IncludedInScreening reports whether records from this source enter
	// screening-stage deduplication. Discovery-only sources set it false.
	IncludedInScreening bool `json:"included_in_screening" yaml:"included_in_screening"`

	// Parser names the export parser for this source's files
	// (e.g. "csv", "text").
	Parser string `json:"parser,omitempty" yaml:"parser,omitempty"`
}

// Record is one bibliographic entry from a database export plus its
// provenance. RawDOI and RawTitle are the identity signals; every other
// field is opaque payload carried through deduplication unmodified.
type Record struct {
	// Source is the database the record was exported from.
	Source Source `json:"source" yaml:"source"`

	// QuerySet identifies which Boolean query set produced this record.
	QuerySet string `json:"query_set" yaml:"query_set"`

	// RawDOI is the DOI field as exported, possibly empty or malformed.
	RawDOI string `json:"raw_doi,omitempty" yaml:"raw_doi,omitempty"`

	// RawTitle is the title as exported. It is the identity fallback when
	// no DOI can be extracted.
	RawTitle string `json:"raw_title" yaml:"raw_title"`

	// Payload fields, never consulted for identity.
	Authors  string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year     string `json:"year,omitempty" yaml:"year,omitempty"`
	Venue    string `json:"venue,omitempty" yaml:"venue,omitempty"`
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
}
