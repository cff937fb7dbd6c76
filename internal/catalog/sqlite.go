// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/streamflix/internal/persistence/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS videos (
	id            TEXT PRIMARY KEY,
	slug          TEXT NOT NULL UNIQUE,
	source_type   TEXT NOT NULL,
	video_key     TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	thumbnail_url TEXT NOT NULL DEFAULT '',
	duration      INTEGER NOT NULL DEFAULT 0,
	year          INTEGER NOT NULL DEFAULT 0,
	rating        TEXT NOT NULL DEFAULT '',
	genre         TEXT NOT NULL DEFAULT '[]',
	cast_members  TEXT NOT NULL DEFAULT '[]',
	created_at    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_videos_created ON videos(created_at DESC, slug);
`

const sqliteColumns = `id, slug, source_type, video_key, title, description, thumbnail_url,
	duration, year, rating, genre, cast_members, created_at`

// SQLiteStore persists the catalog in a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLiteStore opens (and migrates) the catalog database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite catalog: migrate: %w", err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file backing the store.
func (s *SQLiteStore) Path() string { return s.path }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		r            Record
		kind         string
		genre, cast  string
		createdNanos int64
	)
	if err := row.Scan(&r.ID, &r.Slug, &kind, &r.SourceKey, &r.Title, &r.Description, &r.ThumbnailRef,
		&r.DurationSeconds, &r.ReleaseYear, &r.Rating, &genre, &cast, &createdNanos); err != nil {
		return Record{}, err
	}
	k, err := ParseSourceKind(kind)
	if err != nil {
		return Record{}, err
	}
	r.Kind = k
	if err := json.Unmarshal([]byte(genre), &r.Genres); err != nil {
		return Record{}, fmt.Errorf("decode genre: %w", err)
	}
	if err := json.Unmarshal([]byte(cast), &r.Cast); err != nil {
		return Record{}, fmt.Errorf("decode cast: %w", err)
	}
	if len(r.Genres) == 0 {
		r.Genres = nil
	}
	if len(r.Cast) == 0 {
		r.Cast = nil
	}
	r.CreatedAt = time.Unix(0, createdNanos).UTC()
	return r, nil
}

func lookupRow(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, where string, arg string) (*Record, error) {
	r, err := scanRecord(q.QueryRowContext(ctx, "SELECT "+sqliteColumns+" FROM videos WHERE "+where+" = ?", arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LookupBySlug implements Store.
func (s *SQLiteStore) LookupBySlug(ctx context.Context, slug string) (Record, error) {
	r, err := lookupRow(ctx, s.db, "slug", slug)
	if err != nil {
		return Record{}, fmt.Errorf("sqlite catalog: lookup %q: %w", slug, err)
	}
	if r == nil {
		return Record{}, ErrNotFound
	}
	return *r, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+sqliteColumns+" FROM videos ORDER BY created_at DESC, slug ASC")
	if err != nil {
		return nil, fmt.Errorf("sqlite catalog: list: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite catalog: list: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite catalog: list: %w", err)
	}
	return out, nil
}

// Put implements Store.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) (Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("sqlite catalog: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var byID *Record
	if rec.ID != "" {
		if byID, err = lookupRow(ctx, tx, "id", rec.ID); err != nil {
			return Record{}, fmt.Errorf("sqlite catalog: put: %w", err)
		}
	}
	bySlug, err := lookupRow(ctx, tx, "slug", rec.Slug)
	if err != nil {
		return Record{}, fmt.Errorf("sqlite catalog: put: %w", err)
	}

	stored, err := prepareWrite(rec, byID, bySlug, s.now())
	if err != nil {
		return Record{}, err
	}

	genre, _ := json.Marshal(nonNil(stored.Genres))
	cast, _ := json.Marshal(nonNil(stored.Cast))
	_, err = tx.ExecContext(ctx, `
INSERT INTO videos (`+sqliteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	source_type = excluded.source_type,
	video_key = excluded.video_key,
	title = excluded.title,
	description = excluded.description,
	thumbnail_url = excluded.thumbnail_url,
	duration = excluded.duration,
	year = excluded.year,
	rating = excluded.rating,
	genre = excluded.genre,
	cast_members = excluded.cast_members`,
		stored.ID, stored.Slug, stored.Kind.String(), stored.SourceKey, stored.Title, stored.Description,
		stored.ThumbnailRef, stored.DurationSeconds, stored.ReleaseYear, stored.Rating,
		string(genre), string(cast), stored.CreatedAt.UnixNano())
	if err != nil {
		return Record{}, fmt.Errorf("sqlite catalog: put %q: %w", stored.Slug, err)
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("sqlite catalog: commit: %w", err)
	}
	return stored, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite catalog: delete %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite catalog: delete %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping implements Pinger.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
