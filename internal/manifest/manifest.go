// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest loads the YAML description of a merge run: the source
// catalog, the retention priority, the query sets, and the per-set
// per-database export files.
package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/screening-engine/internal/export"
	"github.com/pdiddy/screening-engine/internal/merge"
	"github.com/pdiddy/screening-engine/pkg/types"
)

// Manifest describes one full merge run.
type Manifest struct {
	types.MergeConfig `yaml:",inline"`

	// Inputs maps query set → source name → export file path. A missing
	// entry means that database contributed no records to that set.
	Inputs map[string]map[string]string `yaml:"inputs"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks the manifest for configuration errors: an absent or
// incomplete priority ordering, inputs referencing unknown sources or
// query sets, and unparseable parser names. Ranking problems are caught
// here, before any records are read.
func (m *Manifest) Validate() error {
	if len(m.Priority) == 0 {
		return fmt.Errorf("priority ordering is required")
	}
	if len(m.QuerySets) == 0 {
		return fmt.Errorf("at least one query set is required")
	}

	ranked := make(map[types.Source]bool, len(m.Priority))
	for _, src := range m.Priority {
		if ranked[src] {
			return fmt.Errorf("duplicate source %q in priority ordering", src)
		}
		ranked[src] = true
	}

	catalog := make(map[types.Source]types.SourceSpec, len(m.Sources))
	for _, spec := range m.Sources {
		if _, ok := catalog[spec.Name]; ok {
			return fmt.Errorf("duplicate source %q in catalog", spec.Name)
		}
		if _, err := export.ForName(spec.Parser); err != nil {
			return fmt.Errorf("source %q: %w", spec.Name, err)
		}
		if m.Screening(spec.Name) && !ranked[spec.Name] {
			return fmt.Errorf("screened source %q missing from priority ordering", spec.Name)
		}
		catalog[spec.Name] = spec
	}

	sets := make(map[string]bool, len(m.QuerySets))
	for _, set := range m.QuerySets {
		sets[set] = true
	}
	for set, bySource := range m.Inputs {
		if !sets[set] {
			return fmt.Errorf("inputs reference unknown query set %q", set)
		}
		for name := range bySource {
			if _, ok := catalog[types.Source(name)]; !ok {
				return fmt.Errorf("inputs for set %q reference unknown source %q", set, name)
			}
		}
	}
	return nil
}

// Collect parses every referenced export file into per-set inputs, with
// each set's databases in catalog order. Sets or databases with no file
// contribute zero records.
func (m *Manifest) Collect() ([]merge.SetInput, error) {
	inputs := make([]merge.SetInput, 0, len(m.QuerySets))
	for _, set := range m.QuerySets {
		in := merge.SetInput{Set: set}
		for _, spec := range m.Sources {
			path := m.Inputs[set][string(spec.Name)]
			if path == "" {
				continue
			}
			parser, err := export.ForName(spec.Parser)
			if err != nil {
				return nil, err
			}
			records, err := export.ParseFile(parser, path, spec.Name, set)
			if err != nil {
				return nil, fmt.Errorf("set %s: %w", set, err)
			}
			in.BySource = append(in.BySource, merge.SourceRecords{Source: spec.Name, Records: records})
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
