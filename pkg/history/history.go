// Package history keeps a sqlite log of applied wallpapers.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wallseed/wallseed/pkg/models"
)

// FileName is the history database name inside the cache directory.
const FileName = "history.db"

// Store records and queries apply history.
type Store interface {
	// Record stores one apply.
	Record(ctx context.Context, rec models.ApplyRecord) error
	// Recent returns the newest records first, at most limit of them.
	Recent(ctx context.Context, limit int) ([]models.ApplyRecord, error)
	// ByHash returns every apply of the image with the given content hash.
	ByHash(ctx context.Context, hash string) ([]models.ApplyRecord, error)
	// Summary counts applies per palette source.
	Summary(ctx context.Context) ([]models.SourceSummary, error)
	// Close releases resources.
	Close() error
}

// SQLiteStore implements Store with a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS apply_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	image_path TEXT NOT NULL,
	image_hash TEXT NOT NULL,
	mode TEXT NOT NULL,
	source TEXT NOT NULL,
	render_path TEXT NOT NULL,
	palette TEXT NOT NULL DEFAULT '{}',
	duration_ms INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_apply_hash ON apply_records(image_hash);
CREATE INDEX IF NOT EXISTS idx_apply_time ON apply_records(created_at);
`

const selectColumns = `SELECT id, image_path, image_hash, mode, source, render_path, palette, duration_ms, created_at FROM apply_records`

// New opens the database at dbPath and runs auto-migration.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Open opens the history database inside dir.
func Open(dir string) (*SQLiteStore, error) {
	return New(filepath.Join(dir, FileName))
}

// Record stores an apply record. A zero CreatedAt is stamped with the current time.
func (s *SQLiteStore) Record(ctx context.Context, rec models.ApplyRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	pal := rec.Palette
	if pal == nil {
		pal = models.Palette{}
	}
	encoded, err := json.Marshal(pal)
	if err != nil {
		return fmt.Errorf("encode palette: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO apply_records (image_path, image_hash, mode, source, render_path, palette, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ImagePath, rec.ImageHash, string(rec.Mode), string(rec.Source), string(rec.RenderPath),
		string(encoded), rec.Duration.Milliseconds(), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record apply: %w", err)
	}
	return nil
}

// Recent returns the newest records first. A non-positive limit returns all rows.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]models.ApplyRecord, error) {
	query := selectColumns + ` ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

// ByHash returns every apply of an image, newest first.
func (s *SQLiteStore) ByHash(ctx context.Context, hash string) ([]models.ApplyRecord, error) {
	return s.query(ctx, selectColumns+` WHERE image_hash = ? ORDER BY created_at DESC, id DESC`, hash)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]models.ApplyRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []models.ApplyRecord
	for rows.Next() {
		var (
			r          models.ApplyRecord
			mode       string
			source     string
			renderPath string
			pal        string
			durationMS int64
		)
		if err := rows.Scan(&r.ID, &r.ImagePath, &r.ImageHash, &mode, &source, &renderPath, &pal, &durationMS, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Mode = models.Mode(mode)
		r.Source = models.Source(source)
		r.RenderPath = models.RenderPath(renderPath)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(pal), &r.Palette); err != nil {
			return nil, fmt.Errorf("decode palette of record %d: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Summary returns apply counts grouped by palette source.
func (s *SQLiteStore) Summary(ctx context.Context) ([]models.SourceSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM apply_records GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.SourceSummary
	for rows.Next() {
		var (
			sum    models.SourceSummary
			source string
		)
		if err := rows.Scan(&source, &sum.Count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		sum.Source = models.Source(source)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
