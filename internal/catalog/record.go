// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one catalog entry. JSON names follow the hosted catalog table so rows
// decode directly.
type Record struct {
	ID              string     `json:"id"`
	Slug            string     `json:"slug"`
	Kind            SourceKind `json:"source_type"`
	SourceKey       string     `json:"video_key"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ThumbnailRef    string     `json:"thumbnail_url,omitempty"`
	DurationSeconds int        `json:"duration"`
	ReleaseYear     int        `json:"year"`
	Rating          string     `json:"rating,omitempty"`
	Genres          []string   `json:"genre,omitempty"`
	Cast            []string   `json:"cast,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

var slugPattern = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// ValidSlug reports whether slug consists only of URL-unreserved characters.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// Validate checks the fields every backend requires before a write.
func (r Record) Validate() error {
	if !ValidSlug(r.Slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, r.Slug)
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSourceKind, int(r.Kind))
	}
	if strings.TrimSpace(r.SourceKey) == "" {
		return fmt.Errorf("%w: source key is required", ErrInvalidRecord)
	}
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecord)
	}
	if r.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidRecord)
	}
	return nil
}

// prepareWrite applies the write rules shared by all mutable backends.
// byID is the record currently stored under rec.ID, bySlug the one owning rec.Slug.
func prepareWrite(rec Record, byID, bySlug *Record, now time.Time) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}

	if byID != nil {
		if byID.Slug != rec.Slug {
			return Record{}, fmt.Errorf("%w: %q -> %q", ErrSlugImmutable, byID.Slug, rec.Slug)
		}
		rec.CreatedAt = byID.CreatedAt
		return rec, nil
	}

	if bySlug != nil {
		return Record{}, fmt.Errorf("%w: %q", ErrSlugTaken, rec.Slug)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}
	return rec, nil
}

// sortRecords orders newest first, ties broken by slug.
func sortRecords(recs []Record) {
	slices.SortFunc(recs, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
}
