package types

// MergeConfig holds settings for a two-stage merge run.
type MergeConfig struct {
	// Sources is the catalog of databases contributing exports, in the
	// fixed order their records are concatenated within each query set.
	Sources []SourceSpec `json:"sources" yaml:"sources"`

	// Priority is the retention precedence over sources, highest first
	// (e.g. Scopus, IEEE Xplore, ScienceDirect). Required; there is no
	// implicit default, and a record from a source missing here fails
	// the run.
	Priority []Source `json:"priority" yaml:"priority"`

	// ExcludedSources drops additional sources from the screening stage,
	// on top of catalog entries with IncludedInScreening false.
	ExcludedSources []Source `json:"excluded_sources,omitempty" yaml:"excluded_sources,omitempty"`

	// QuerySets lists the set identifiers to process at stage 1, in the
	// order their corpora are concatenated at stage 2.
	QuerySets []string `json:"query_sets" yaml:"query_sets"`
}

// Screening reports whether records from src enter screening-stage
// deduplication, combining the catalog flag with ExcludedSources.
func (c MergeConfig) Screening(src Source) bool {
	for _, e := range c.ExcludedSources {
		if e == src {
			return false
		}
	}
	for _, s := range c.Sources {
		if s.Name == src {
			return s.IncludedInScreening
		}
	}
	// Sources absent from the catalog are screened; the priority check
	// still rejects them if they are unranked.
	return true
}

// StoreConfig holds settings for the run-history store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "screening/runs.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}
