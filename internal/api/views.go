// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"time"

	"github.com/ManuGH/streamflix/internal/catalog"
)

// videoView is the public shape of a record. The source key is withheld:
// blob keys only ever travel through the streaming proxy.
type videoView struct {
	ID              string             `json:"id"`
	Slug            string             `json:"slug"`
	Kind            catalog.SourceKind `json:"source_type"`
	Title           string             `json:"title"`
	Description     string             `json:"description,omitempty"`
	ThumbnailRef    string             `json:"thumbnail_url,omitempty"`
	DurationSeconds int                `json:"duration"`
	ReleaseYear     int                `json:"year"`
	Rating          string             `json:"rating,omitempty"`
	Genres          []string           `json:"genre,omitempty"`
	Cast            []string           `json:"cast,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

func newVideoView(rec catalog.Record) videoView {
	return videoView{
		ID:              rec.ID,
		Slug:            rec.Slug,
		Kind:            rec.Kind,
		Title:           rec.Title,
		Description:     rec.Description,
		ThumbnailRef:    rec.ThumbnailRef,
		DurationSeconds: rec.DurationSeconds,
		ReleaseYear:     rec.ReleaseYear,
		Rating:          rec.Rating,
		Genres:          rec.Genres,
		Cast:            rec.Cast,
		CreatedAt:       rec.CreatedAt,
	}
}

type videoList struct {
	Items []videoView `json:"items"`
	Count int         `json:"count"`
}

type adminList struct {
	Items []catalog.Record `json:"items"`
	Count int              `json:"count"`
}
