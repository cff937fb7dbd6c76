// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/streamflix/internal/api/problem"
	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/playback"
)

func (s *Server) withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	recs, err := s.store.List(ctx)
	if err != nil {
		s.writeStoreError(w, r, "list", err)
		return
	}
	out := videoList{Items: make([]videoView, 0, len(recs)), Count: len(recs)}
	for _, rec := range recs {
		out.Items = append(out.Items, newVideoView(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	rec, err := s.store.LookupBySlug(log.ContextWithSlug(ctx, slug), slug)
	if err != nil {
		s.writeStoreError(w, r, "lookup", err)
		return
	}
	writeJSON(w, http.StatusOK, newVideoView(rec))
}

// handlePlayback answers with the resolved target, the same decision the web
// client makes before it mounts a player.
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	target, err := s.resolver.Resolve(log.ContextWithSlug(ctx, slug), slug)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, target)
	case errors.Is(err, playback.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Not Found", "NOT_FOUND", "Could not load video", map[string]any{"slug": slug})
	case errors.Is(err, catalog.ErrUnknownSourceKind):
		logger := log.WithContext(r.Context(), s.logger)
		logger.Error().Err(err).
			Str(log.FieldEvent, "api.playback_unresolvable").
			Str(log.FieldSlug, slug).
			Msg("record cannot be played")
		problem.Write(w, r, http.StatusUnprocessableEntity, problem.TypeNotResolvable, "Not Playable", "NOT_PLAYABLE", "Could not load video", nil)
	default:
		s.writeStoreError(w, r, "resolve", err)
	}
}
