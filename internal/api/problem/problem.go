// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package problem writes RFC 7807 problem details for the JSON API.
package problem

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/streamflix/internal/log"
)

const (
	// HeaderRequestID carries the correlation ID on every response.
	HeaderRequestID = "X-Request-ID"
	// JSONKeyRequestID is the body field mirroring HeaderRequestID.
	JSONKeyRequestID = "requestId"
	// ContentType is the RFC 7807 media type.
	ContentType = "application/problem+json"
)

// Problem types.
const (
	TypeNotFound      = "catalog/not_found"
	TypeInvalid       = "catalog/invalid"
	TypeConflict      = "catalog/conflict"
	TypeReadOnly      = "catalog/read_only"
	TypeUnavailable   = "system/unavailable"
	TypeInternal      = "system/internal"
	TypeRateLimited   = "system/rate_limited"
	TypeNotResolvable = "playback/not_resolvable"
)

var reserved = map[string]struct{}{
	"type": {}, "title": {}, "status": {}, "detail": {}, "instance": {}, "code": {}, JSONKeyRequestID: {},
}

// Write writes an RFC 7807 problem details response.
//
//   - type: machine identifier, e.g. "catalog/not_found".
//   - title: short human label.
//   - code: stable upper-case code for client branching.
//   - detail: explanation of this occurrence; omitted when empty.
//
// Reserved keys in extra are ignored.
func Write(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string, extra map[string]any) {
	reqID := log.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = w.Header().Get(HeaderRequestID)
	}

	res := map[string]any{
		"type":   problemType,
		"title":  title,
		"status": status,
		"code":   code,
	}
	if reqID != "" {
		res[JSONKeyRequestID] = reqID
		w.Header().Set(HeaderRequestID, reqID)
	}
	if detail != "" {
		res["detail"] = detail
	}
	if instance := r.URL.EscapedPath(); instance != "" {
		res["instance"] = instance
	}
	for k, v := range extra {
		if _, ok := reserved[k]; ok {
			log.L().Warn().Str("key", k).Str("problem_type", problemType).Msg("ignoring reserved key in problem extras")
			continue
		}
		res[k] = v
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.L().Error().
			Err(err).
			Str("type", problemType).
			Int("status", status).
			Msg("failed to encode problem response")
	}
}

// NotFound writes a 404 catalog/not_found problem.
func NotFound(w http.ResponseWriter, r *http.Request, detail string) {
	Write(w, r, http.StatusNotFound, TypeNotFound, "Not Found", "NOT_FOUND", detail, nil)
}

// Internal writes a 500 with a generic detail; the cause belongs in the log.
func Internal(w http.ResponseWriter, r *http.Request) {
	Write(w, r, http.StatusInternalServerError, TypeInternal, "Internal Server Error", "INTERNAL", "An unexpected error occurred.", nil)
}
