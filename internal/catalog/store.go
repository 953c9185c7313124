// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists a locally curated list of resources in SQLite
// and serves it as a search backend alongside the remote providers.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ecosyz/pkg/types"
)

// Name is the provider tag of catalog results.
const Name = "catalog"

// metaOrigin records the source a curated entry was copied from.
const metaOrigin = "origin"

// Store manages the catalog SQLite database.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the catalog database at path and bootstraps the
// schema.
func Open(path string, log *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("catalog path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{db: db, log: log.With(zap.String("component", "catalog"))}
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
		`CREATE TABLE IF NOT EXISTS resources (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT,
			year INTEGER,
			url TEXT,
			license TEXT,
			description TEXT,
			tags TEXT,
			meta TEXT,
			added_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_type ON resources(type)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Name returns the backend identifier.
func (s *Store) Name() string { return Name }

// Validate checks that r can be stored in the catalog.
func Validate(r types.Resource) error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("invalid type %q", r.Type)
	}
	if r.ID == "" && r.URL == "" {
		return errors.New("id or url is required")
	}
	return nil
}

// Upsert inserts or replaces rs in a single transaction and returns the
// number of rows written.
func (s *Store) Upsert(ctx context.Context, rs []types.Resource) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO resources
		(id, type, title, authors, year, url, license, description, tags, meta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type, title = excluded.title, authors = excluded.authors,
			year = excluded.year, url = excluded.url, license = excluded.license,
			description = excluded.description, tags = excluded.tags, meta = excluded.meta`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for i, r := range rs {
		if err := Validate(r); err != nil {
			return 0, fmt.Errorf("resource %d (%q): %w", i, r.Title, err)
		}
		if r.ID == "" {
			r.ID = r.URL
		}
		meta := r.Meta.Clone()
		if r.Source != "" && r.Source != Name {
			meta[metaOrigin] = r.Source
		}

		authors, _ := json.Marshal(r.Authors)
		tags, _ := json.Marshal(r.Tags)
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return 0, fmt.Errorf("encoding meta for %q: %w", r.ID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			r.ID, string(r.Type), strings.TrimSpace(r.Title), string(authors), r.Year,
			r.URL, types.NormalizeLicense(r.License), r.Description, string(tags), string(metaJSON),
		); err != nil {
			return 0, fmt.Errorf("upserting %q: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	s.log.Info("catalog updated", zap.Int("resources", len(rs)))
	return len(rs), nil
}

// Search returns entries whose title or description contains query,
// ignoring case, in insertion order.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]types.Resource, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	return s.query(ctx, `SELECT id, type, title, authors, year, url, license, description, tags, meta
		FROM resources
		WHERE lower(title) LIKE ? ESCAPE '\' OR lower(description) LIKE ? ESCAPE '\'
		ORDER BY rowid LIMIT ?`, pattern, pattern, sqlLimit(limit))
}

// List returns entries of the given type, or every entry when typ is
// empty or "all".
func (s *Store) List(ctx context.Context, typ string, limit int) ([]types.Resource, error) {
	if typ == "" || typ == types.TypeAll {
		return s.query(ctx, `SELECT id, type, title, authors, year, url, license, description, tags, meta
			FROM resources ORDER BY rowid LIMIT ?`, sqlLimit(limit))
	}
	return s.query(ctx, `SELECT id, type, title, authors, year, url, license, description, tags, meta
		FROM resources WHERE type = ? ORDER BY rowid LIMIT ?`, typ, sqlLimit(limit))
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]types.Resource, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var out []types.Resource
	for rows.Next() {
		var (
			r       types.Resource
			typ     string
			authors sql.NullString
			tags    sql.NullString
			meta    sql.NullString
			url     sql.NullString
			license sql.NullString
			desc    sql.NullString
			year    sql.NullInt64
		)
		if err := rows.Scan(&r.ID, &typ, &r.Title, &authors, &year, &url, &license, &desc, &tags, &meta); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Type = types.ResourceType(typ)
		r.Year = int(year.Int64)
		r.URL = url.String
		r.License = types.NormalizeLicense(license.String)
		r.Description = desc.String
		r.Source = Name
		decodeJSON(authors, &r.Authors)
		decodeJSON(tags, &r.Tags)
		decodeJSON(meta, &r.Meta)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ImportYAML loads a YAML list of resources from path and upserts them.
func (s *Store) ImportYAML(ctx context.Context, path string) (int, error) {
	rs, err := LoadYAML(path)
	if err != nil {
		return 0, err
	}
	return s.Upsert(ctx, rs)
}

// LoadYAML reads a YAML list of resources.
func LoadYAML(path string) ([]types.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var rs []types.Resource
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rs, nil
}

func decodeJSON(s sql.NullString, dst any) {
	if !s.Valid || s.String == "" || s.String == "null" {
		return
	}
	_ = json.Unmarshal([]byte(s.String), dst)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// sqlLimit maps a non-positive limit to SQLite's "no limit".
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
