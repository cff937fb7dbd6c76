// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postgrestRows = `[
  {"id": 7, "slug": "night-train", "source_type": "r2", "video_key": "movies/night.mp4",
   "title": "Night Train", "description": null, "thumbnail_url": "https://img/1.jpg",
   "duration": 5400, "year": 2021, "rating": null, "genre": ["Thriller"],
   "created_at": "2024-03-01T10:00:00+00:00"}
]`

func newPostgRESTServer(t *testing.T, handler http.HandlerFunc) *PostgRESTStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s, err := NewPostgRESTStore(srv.URL, "service-key", srv.Client())
	require.NoError(t, err)
	return s
}

func TestPostgREST_LookupBySlug(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/videos", r.URL.Path)
		assert.Equal(t, "eq.night-train", r.URL.Query().Get("slug"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(postgrestRows))
	})

	rec, err := s.LookupBySlug(context.Background(), "night-train")
	require.NoError(t, err)
	assert.Equal(t, "7", rec.ID)
	assert.Equal(t, SourceBlobStore, rec.Kind)
	assert.Equal(t, "movies/night.mp4", rec.SourceKey)
	assert.Equal(t, "", rec.Description)
	assert.Equal(t, "https://img/1.jpg", rec.ThumbnailRef)
	assert.Equal(t, 2024, rec.CreatedAt.Year())
}

func TestPostgREST_NotFound(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := s.LookupBySlug(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgREST_UpstreamErrorIsNotNotFound(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"JWT expired"}`, http.StatusUnauthorized)
	})
	_, err := s.LookupBySlug(context.Background(), "night-train")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "401")

	assert.Error(t, s.Ping(context.Background()))
}

func TestPostgREST_ReadOnly(t *testing.T) {
	s := newPostgRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(postgrestRows))
	})
	_, err := s.Put(context.Background(), blobRecord("x"))
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, s.Delete(context.Background(), "7"), ErrReadOnly)

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNewPostgRESTStore_InvalidURL(t *testing.T) {
	_, err := NewPostgRESTStore("not a url", "", nil)
	assert.Error(t, err)
}
