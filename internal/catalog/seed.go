// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoCatalog []byte

// seedEntry mirrors the field names used by the hosted catalog table.
type seedEntry struct {
	ID          string   `yaml:"id"`
	Slug        string   `yaml:"slug"`
	SourceType  string   `yaml:"source_type"`
	VideoKey    string   `yaml:"video_key"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Thumbnail   string   `yaml:"thumbnail_url"`
	Duration    int      `yaml:"duration"`
	Year        int      `yaml:"year"`
	Rating      string   `yaml:"rating"`
	Genre       []string `yaml:"genre"`
	Cast        []string `yaml:"cast"`
}

// LoadSeed parses a YAML list of catalog entries. Unknown keys are rejected.
func LoadSeed(r io.Reader) ([]Record, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []seedEntry
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	out := make([]Record, 0, len(entries))
	for i, e := range entries {
		kind, err := ParseSourceKind(e.SourceType)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): %w", i, e.Slug, err)
		}
		rec := Record{
			ID:              e.ID,
			Slug:            e.Slug,
			Kind:            kind,
			SourceKey:       e.VideoKey,
			Title:           e.Title,
			Description:     e.Description,
			ThumbnailRef:    e.Thumbnail,
			DurationSeconds: e.Duration,
			ReleaseYear:     e.Year,
			Rating:          e.Rating,
			Genres:          e.Genre,
			Cast:            e.Cast,
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("seed entry %d (%s): %w", i, e.Slug, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// DemoRecords returns the embedded demo catalog.
func DemoRecords() ([]Record, error) {
	return LoadSeed(bytes.NewReader(demoCatalog))
}

// SeedResult reports what Seed did.
type SeedResult struct {
	Inserted int
	Skipped  int
}

// Seed inserts every record whose slug is not yet present. Existing records are left alone.
// Records keep their file order in List: the first entry gets the newest timestamp.
func Seed(ctx context.Context, store Store, records []Record) (SeedResult, error) {
	var res SeedResult
	base := time.Now().UTC()
	for i, rec := range records {
		_, err := store.LookupBySlug(ctx, rec.Slug)
		switch {
		case err == nil:
			res.Skipped++
			continue
		case !errors.Is(err, ErrNotFound):
			return res, fmt.Errorf("seed %q: %w", rec.Slug, err)
		}

		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = base.Add(-time.Duration(i) * time.Second)
		}
		if _, err := store.Put(ctx, rec); err != nil {
			if errors.Is(err, ErrSlugTaken) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("seed %q: %w", rec.Slug, err)
		}
		res.Inserted++
	}
	return res, nil
}
