// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/streamflix/internal/api/problem"
	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/log"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeStoreError maps catalog errors to problem responses. Unexpected errors
// are logged with their cause and answered generically.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		problem.NotFound(w, r, "Video not found")
	case errors.Is(err, catalog.ErrSlugTaken):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Conflict", "SLUG_TAKEN", err.Error(), nil)
	case errors.Is(err, catalog.ErrSlugImmutable):
		problem.Write(w, r, http.StatusConflict, problem.TypeConflict, "Conflict", "SLUG_IMMUTABLE", err.Error(), nil)
	case errors.Is(err, catalog.ErrReadOnly):
		problem.Write(w, r, http.StatusConflict, problem.TypeReadOnly, "Read-only Catalog", "READ_ONLY", "The configured catalog backend does not accept writes.", nil)
	case errors.Is(err, catalog.ErrInvalidSlug), errors.Is(err, catalog.ErrInvalidRecord), errors.Is(err, catalog.ErrUnknownSourceKind):
		problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalid, "Invalid Record", "INVALID_RECORD", err.Error(), nil)
	default:
		logger := log.WithContext(r.Context(), s.logger)
		logger.Error().Err(err).
			Str(log.FieldEvent, "api.store_failed").
			Str("op", op).
			Msg("catalog operation failed")
		problem.Write(w, r, http.StatusServiceUnavailable, problem.TypeUnavailable, "Catalog Unavailable", "CATALOG_UNAVAILABLE", "The catalog could not be reached.", nil)
	}
}

// decodeRecord reads a single JSON record, rejecting unknown fields and trailing data.
func decodeRecord(w http.ResponseWriter, r *http.Request) (catalog.Record, error) {
	var rec catalog.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return catalog.Record{}, err
	}
	if dec.More() {
		return catalog.Record{}, errors.New("unexpected data after record")
	}
	return rec, nil
}

func writeBadBody(w http.ResponseWriter, r *http.Request, err error) {
	problem.Write(w, r, http.StatusBadRequest, problem.TypeInvalid, "Invalid Body", "INVALID_BODY", err.Error(), nil)
}
