// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export parses database export files into records. Each export
// format is a Parser implementation selected per database, so the engine
// itself stays agnostic to how any particular database serializes its
// results.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/screening-engine/pkg/types"
)

// Parser converts one export stream into records tagged with their
// source and query set.
type Parser interface {
	Name() string
	Parse(r io.Reader, src types.Source, set string) ([]types.Record, error)
}

// ForName returns the parser registered under name. An empty name selects
// the CSV parser, the common case for citation database exports.
func ForName(name string) (Parser, error) {
	switch name {
	case "", "csv":
		return &CSVParser{}, nil
	case "text":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unknown export parser %q: use csv or text", name)
	}
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string, src types.Source, set string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export %s: %w", path, err)
	}
	defer f.Close()

	records, err := p.Parse(f, src, set)
	if err != nil {
		return nil, fmt.Errorf("parsing export %s: %w", path, err)
	}
	return records, nil
}
