// Package catalog maintains a SQLite index of decoded QFIT granules so
// repeated survey ingests can be queried without re-reading the binaries.
package catalog

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/qfit/internal/monitoring"
)

// schema.sql defines the granules table and its indexes.
//
//go:embed schema.sql
var schemaSQL string

// Catalog wraps the granule index database.
type Catalog struct {
	*sql.DB
}

// Granule is one catalogued granule row.
type Granule struct {
	ID           string
	Path         string
	Variant      string
	ByteOrder    string
	RecordCount  int
	SkippedCount int
	FirstSeconds float64
	LastSeconds  float64
	GranuleDate  string
	HeaderText   string
	IngestedAt   float64
}

// Open opens (creating if needed) the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing catalog schema: %w", err)
	}
	monitoring.Logf("catalog ready at %s", path)
	return &Catalog{db}, nil
}

// RecordGranule inserts or replaces the row for g.Path and returns the row
// id. A fresh uuid is assigned on insert; re-ingesting a path keeps its id.
func (c *Catalog) RecordGranule(g Granule) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO granules
			(id, path, variant, byte_order, record_count, skipped_count,
			 first_seconds, last_seconds, granule_date, header_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			variant = excluded.variant,
			byte_order = excluded.byte_order,
			record_count = excluded.record_count,
			skipped_count = excluded.skipped_count,
			first_seconds = excluded.first_seconds,
			last_seconds = excluded.last_seconds,
			granule_date = excluded.granule_date,
			header_text = excluded.header_text,
			ingested_at = UNIXEPOCH('subsec')
	`
	if _, err := c.Exec(query, g.ID, g.Path, g.Variant, g.ByteOrder,
		g.RecordCount, g.SkippedCount, g.FirstSeconds, g.LastSeconds,
		g.GranuleDate, g.HeaderText); err != nil {
		return "", fmt.Errorf("recording granule %s: %w", g.Path, err)
	}

	// On conflict the stored id is the original one, not g.ID.
	var id string
	if err := c.QueryRow(`SELECT id FROM granules WHERE path = ?`, g.Path).Scan(&id); err != nil {
		return "", fmt.Errorf("reading back granule id for %s: %w", g.Path, err)
	}
	return id, nil
}

// Granule returns the catalogued row for path, or sql.ErrNoRows.
func (c *Catalog) Granule(path string) (*Granule, error) {
	row := c.QueryRow(`
		SELECT id, path, variant, byte_order, record_count, skipped_count,
		       first_seconds, last_seconds, granule_date, header_text, ingested_at
		FROM granules WHERE path = ?`, path)
	return scanGranule(row)
}

// RecentGranules returns up to limit rows, most recently ingested first.
func (c *Catalog) RecentGranules(limit int) ([]Granule, error) {
	rows, err := c.Query(`
		SELECT id, path, variant, byte_order, record_count, skipped_count,
		       first_seconds, last_seconds, granule_date, header_text, ingested_at
		FROM granules ORDER BY ingested_at DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent granules: %w", err)
	}
	defer rows.Close()

	var out []Granule
	for rows.Next() {
		g, err := scanGranule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGranule(row rowScanner) (*Granule, error) {
	var g Granule
	if err := row.Scan(&g.ID, &g.Path, &g.Variant, &g.ByteOrder,
		&g.RecordCount, &g.SkippedCount, &g.FirstSeconds, &g.LastSeconds,
		&g.GranuleDate, &g.HeaderText, &g.IngestedAt); err != nil {
		return nil, err
	}
	return &g, nil
}
