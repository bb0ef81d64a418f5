// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists merge runs to a SQLite database: per-set and
// cross-set statistics, overlap counts, and the surviving records with
// their provenance, so past screening corpora can be listed and reloaded.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/screening-engine/internal/merge"
	"github.com/pdiddy/screening-engine/internal/normalize"
	"github.com/pdiddy/screening-engine/pkg/types"
)

const defaultDBPath = "screening/runs.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the run database at cfg.DBPath, creating the
// schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			manifest TEXT,
			input_count INTEGER NOT NULL,
			duplicates_removed INTEGER NOT NULL,
			unique_count INTEGER NOT NULL,
			unkeyed INTEGER NOT NULL,
			triple_overlap INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS set_stats (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			query_set TEXT NOT NULL,
			position INTEGER NOT NULL,
			input_count INTEGER NOT NULL,
			duplicates_removed INTEGER NOT NULL,
			unique_count INTEGER NOT NULL,
			unkeyed INTEGER NOT NULL,
			PRIMARY KEY (run_id, query_set)
		)`,
		`CREATE TABLE IF NOT EXISTS overlaps (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			set_a TEXT NOT NULL,
			set_b TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, set_a, set_b)
		)`,
		`CREATE TABLE IF NOT EXISTS survivors (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			query_set TEXT NOT NULL,
			identity_key TEXT,
			raw_doi TEXT,
			raw_title TEXT,
			authors TEXT,
			year TEXT,
			venue TEXT,
			url TEXT,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_survivors_key ON survivors(identity_key)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun writes one merge result and returns its run id. The whole run
// is written in a single transaction.
func (s *Store) SaveRun(ctx context.Context, res merge.Result, manifestPath string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	cross := res.CrossSet.Stats
	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (created_at, manifest, input_count, duplicates_removed, unique_count, unkeyed, triple_overlap)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), manifestPath,
		cross.InputCount, cross.DuplicatesRemoved, cross.UniqueCount, cross.Unkeyed,
		res.Overlaps.Triple,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for i, sr := range res.PerSet {
		st := sr.Corpus.Stats
		_, err := tx.ExecContext(ctx,
			`INSERT INTO set_stats (run_id, query_set, position, input_count, duplicates_removed, unique_count, unkeyed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, sr.Set, i, st.InputCount, st.DuplicatesRemoved, st.UniqueCount, st.Unkeyed,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting stats for set %s: %w", sr.Set, err)
		}
	}

	for _, o := range res.Overlaps.Pairwise {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO overlaps (run_id, set_a, set_b, count) VALUES (?, ?, ?, ?)`,
			runID, o.SetA, o.SetB, o.Count,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting overlap %s/%s: %w", o.SetA, o.SetB, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO survivors (run_id, position, source, query_set, identity_key, raw_doi, raw_title, authors, year, venue, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing survivor insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range res.CrossSet.Records {
		_, err := stmt.ExecContext(ctx,
			runID, i, string(rec.Source), rec.QuerySet, normalize.IdentityKey(rec),
			rec.RawDOI, rec.RawTitle, rec.Authors, rec.Year, rec.Venue, rec.URL,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting survivor %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of the run history listing.
type RunSummary struct {
	ID                int64     `json:"id" yaml:"id"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	Manifest          string    `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	InputCount        int       `json:"input_count" yaml:"input_count"`
	DuplicatesRemoved int       `json:"duplicates_removed" yaml:"duplicates_removed"`
	UniqueCount       int       `json:"unique_count" yaml:"unique_count"`
}

// ListRuns returns all stored runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, manifest, input_count, duplicates_removed, unique_count
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Manifest, &r.InputCount, &r.DuplicatesRemoved, &r.UniqueCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// StoredRun is a fully reloaded run: summary, per-set stats, overlap
// report, and the final corpus in stored order.
type StoredRun struct {
	Summary  RunSummary          `json:"summary" yaml:"summary"`
	SetStats []SetStats          `json:"set_stats" yaml:"set_stats"`
	Overlaps types.OverlapReport `json:"overlaps" yaml:"overlaps"`
	Corpus   types.Corpus        `json:"corpus" yaml:"corpus"`
}

// SetStats is one query set's stage-1 statistics as stored.
type SetStats struct {
	Set   string      `json:"set" yaml:"set"`
	Stats types.Stats `json:"stats" yaml:"stats"`
}

// LoadRun reloads one run by id. Returns an error when the id is unknown.
func (s *Store) LoadRun(ctx context.Context, id int64) (*StoredRun, error) {
	var run StoredRun
	var created string
	var unkeyed, triple int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, manifest, input_count, duplicates_removed, unique_count, unkeyed, triple_overlap
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.Summary.ID, &created, &run.Summary.Manifest,
		&run.Summary.InputCount, &run.Summary.DuplicatesRemoved, &run.Summary.UniqueCount,
		&unkeyed, &triple)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", id, err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		run.Summary.CreatedAt = t
	}
	run.Overlaps.Triple = triple

	setRows, err := s.db.QueryContext(ctx,
		`SELECT query_set, input_count, duplicates_removed, unique_count, unkeyed
		 FROM set_stats WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading set stats: %w", err)
	}
	defer setRows.Close()
	for setRows.Next() {
		var st SetStats
		if err := setRows.Scan(&st.Set, &st.Stats.InputCount, &st.Stats.DuplicatesRemoved,
			&st.Stats.UniqueCount, &st.Stats.Unkeyed); err != nil {
			return nil, fmt.Errorf("scanning set stats: %w", err)
		}
		run.SetStats = append(run.SetStats, st)
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	ovRows, err := s.db.QueryContext(ctx,
		`SELECT set_a, set_b, count FROM overlaps WHERE run_id = ? ORDER BY set_a, set_b`, id)
	if err != nil {
		return nil, fmt.Errorf("loading overlaps: %w", err)
	}
	defer ovRows.Close()
	for ovRows.Next() {
		var o types.SetOverlap
		if err := ovRows.Scan(&o.SetA, &o.SetB, &o.Count); err != nil {
			return nil, fmt.Errorf("scanning overlap: %w", err)
		}
		run.Overlaps.Pairwise = append(run.Overlaps.Pairwise, o)
	}
	if err := ovRows.Err(); err != nil {
		return nil, err
	}

	recRows, err := s.db.QueryContext(ctx,
		`SELECT source, query_set, raw_doi, raw_title, authors, year, venue, url
		 FROM survivors WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading survivors: %w", err)
	}
	defer recRows.Close()
	for recRows.Next() {
		var rec types.Record
		var src string
		if err := recRows.Scan(&src, &rec.QuerySet, &rec.RawDOI, &rec.RawTitle,
			&rec.Authors, &rec.Year, &rec.Venue, &rec.URL); err != nil {
			return nil, fmt.Errorf("scanning survivor: %w", err)
		}
		rec.Source = types.Source(src)
		run.Corpus.Records = append(run.Corpus.Records, rec)
	}
	if err := recRows.Err(); err != nil {
		return nil, err
	}

	run.Corpus.Stats = types.Stats{
		InputCount:        run.Summary.InputCount,
		DuplicatesRemoved: run.Summary.DuplicatesRemoved,
		UniqueCount:       run.Summary.UniqueCount,
		Unkeyed:           unkeyed,
	}
	return &run, nil
}
