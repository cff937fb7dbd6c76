// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/log"
)

func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	recs, err := s.store.List(ctx)
	if err != nil {
		s.writeStoreError(w, r, "list", err)
		return
	}
	if recs == nil {
		recs = []catalog.Record{}
	}
	writeJSON(w, http.StatusOK, adminList{Items: recs, Count: len(recs)})
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeRecord(w, r)
	if err != nil {
		writeBadBody(w, r, err)
		return
	}
	// Creation always mints a fresh ID; updates go through PUT.
	rec.ID = ""

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	stored, err := s.store.Put(ctx, rec)
	if err != nil {
		s.writeStoreError(w, r, "create", err)
		return
	}
	s.audit(r, "catalog.created", stored)
	w.Header().Set("Location", RouteAdminVideos+"/"+stored.ID)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := decodeRecord(w, r)
	if err != nil {
		writeBadBody(w, r, err)
		return
	}
	rec.ID = id

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	// Put creates on unknown IDs; PUT only updates.
	if _, err := s.findByID(ctx, id); err != nil {
		s.writeStoreError(w, r, "update", err)
		return
	}
	stored, err := s.store.Put(ctx, rec)
	if err != nil {
		s.writeStoreError(w, r, "update", err)
		return
	}
	s.audit(r, "catalog.updated", stored)
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := s.withTimeout(r)
	defer cancel()

	if err := s.store.Delete(ctx, id); err != nil {
		s.writeStoreError(w, r, "delete", err)
		return
	}
	logger := log.WithContext(r.Context(), s.logger)
	logger.Info().
		Str(log.FieldEvent, "catalog.deleted").
		Str(log.FieldRecordID, id).
		Msg("catalog record deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) findByID(ctx context.Context, id string) (catalog.Record, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return catalog.Record{}, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return catalog.Record{}, catalog.ErrNotFound
}

func (s *Server) audit(r *http.Request, event string, rec catalog.Record) {
	logger := log.WithContext(r.Context(), s.logger)
	logger.Info().
		Str(log.FieldEvent, event).
		Str(log.FieldRecordID, rec.ID).
		Str(log.FieldSlug, rec.Slug).
		Str(log.FieldSourceKind, rec.Kind.String()).
		Msg("catalog record written")
}
