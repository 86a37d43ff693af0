// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists ranked runs in a SQLite database so results can
// be listed, reloaded, and exported later.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperrank/internal/rank"
	"github.com/pdiddy/paperrank/pkg/types"
)

const dbFile = "paperrank.db"

// ErrNotFound is returned when a named run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is a saved ranking result.
type Run struct {
	Name      string         `json:"name" yaml:"name"`
	Query     string         `json:"query,omitempty" yaml:"query,omitempty"`
	Profile   string         `json:"profile" yaml:"profile"`
	Filter    string         `json:"filter,omitempty" yaml:"filter,omitempty"`
	Expanded  bool           `json:"expanded" yaml:"expanded"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
	Summary   rank.Summary   `json:"summary" yaml:"summary"`
	Papers    []*types.Paper `json:"papers" yaml:"papers"`
}

// RunInfo describes a saved run without its papers.
type RunInfo struct {
	Name      string    `json:"name"`
	Query     string    `json:"query,omitempty"`
	Profile   string    `json:"profile"`
	Papers    int       `json:"papers"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages the run database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates the run database at cfg.Dir/paperrank.db.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "library"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
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

// Dir returns the library directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			name TEXT PRIMARY KEY,
			query TEXT,
			profile TEXT NOT NULL,
			filter TEXT,
			expanded INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			summary TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS run_papers (
			run_name TEXT NOT NULL REFERENCES runs(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			doi TEXT,
			title TEXT,
			year INTEGER,
			composite_score REAL,
			paper TEXT NOT NULL,
			PRIMARY KEY (run_name, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_papers_doi ON run_papers(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores run, replacing any run with the same name.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.Name) == "" {
		return fmt.Errorf("run name is empty")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE name = ?`, run.Name); err != nil {
		return fmt.Errorf("replacing run: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (name, query, profile, filter, expanded, created_at, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Name, run.Query, run.Profile, run.Filter, run.Expanded,
		run.CreatedAt.Format(time.RFC3339Nano), string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_papers (run_name, position, key, doi, title, year, composite_score, paper)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range run.Papers {
		paperJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshaling paper %s: %w", p.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, run.Name, i, p.Key, p.DOI, p.Title, p.Year, p.CompositeScore, string(paperJSON)); err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.Key, err)
		}
	}
	return tx.Commit()
}

// LoadRun returns the named run with its papers in saved order.
func (s *Store) LoadRun(ctx context.Context, name string) (Run, error) {
	var (
		run         Run
		createdAt   string
		summaryJSON sql.NullString
		query       sql.NullString
		filter      sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, query, profile, filter, expanded, created_at, summary FROM runs WHERE name = ?`, name,
	).Scan(&run.Name, &query, &run.Profile, &filter, &run.Expanded, &createdAt, &summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("loading run: %w", err)
	}
	run.Query = query.String
	run.Filter = filter.String
	run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if summaryJSON.Valid && summaryJSON.String != "" {
		if err := json.Unmarshal([]byte(summaryJSON.String), &run.Summary); err != nil {
			return Run{}, fmt.Errorf("parsing summary: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT paper FROM run_papers WHERE run_name = ? ORDER BY position`, name)
	if err != nil {
		return Run{}, fmt.Errorf("loading papers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return Run{}, fmt.Errorf("scanning paper: %w", err)
		}
		var p types.Paper
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return Run{}, fmt.Errorf("parsing paper: %w", err)
		}
		run.Papers = append(run.Papers, &p)
	}
	return run, rows.Err()
}

// ListRuns returns every saved run, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.name, COALESCE(r.query, ''), r.profile, r.created_at, COUNT(p.position)
		 FROM runs r LEFT JOIN run_papers p ON p.run_name = r.name
		 GROUP BY r.name
		 ORDER BY r.created_at DESC, r.name`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var info RunInfo
		var createdAt string
		if err := rows.Scan(&info.Name, &info.Query, &info.Profile, &createdAt, &info.Papers); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteRun removes the named run.
func (s *Store) DeleteRun(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return nil
}

// RunsWithDOI returns the names of saved runs containing doi.
func (s *Store) RunsWithDOI(ctx context.Context, doi string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT run_name FROM run_papers WHERE doi = ? ORDER BY run_name`, doi)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning run name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
