// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/metrics"
	platformnet "github.com/ManuGH/streamflix/internal/platform/net"
	"github.com/go-chi/chi/v5"
)

// Plain-text bodies of the proxy surface.
const (
	MsgActive           = "StreamFLIX API Proxy Active"
	MsgNotFound         = "Video not found in database"
	MsgUnsupported      = "Source type not supported by proxy"
	MsgUpstreamFailed   = "Upstream fetch failed"
	MsgUpstreamTimedOut = "Upstream timed out"
	MsgInternal         = "Internal Server Error"
)

// Request outcomes recorded in metrics.
const (
	outcomeRelayed     = "relayed"
	outcomeNotFound    = "not_found"
	outcomeUnsupported = "unsupported"
	outcomeUpstreamErr = "upstream_error"
	outcomeTimeout     = "timeout"
	outcomeCanceled    = "canceled"
	outcomeAborted     = "aborted"
)

func writeText(w http.ResponseWriter, status int, msg string) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Length", strconv.Itoa(len(msg)))
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// recoverText answers a panic on the play surface with a plain-text 500 so the
// body matches the rest of the proxy vocabulary. http.ErrAbortHandler, raised by
// the reverse proxy when a body copy breaks, is re-raised untouched.
func (s *Server) recoverText(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger := log.WithContext(r.Context(), s.logger)
			logger.Error().
				Str(log.FieldEvent, "proxy.panic").
				Str(log.FieldPath, r.URL.Path).
				Interface("panic_value", rec).
				Bytes("stack_trace", debug.Stack()).
				Msg("panic recovered in play handler")
			writeText(w, http.StatusInternalServerError, MsgInternal)
		}()
		next.ServeHTTP(w, r)
	})
}

// Fallback answers every unmatched path so a live deployment is
// distinguishable from a dead one.
func Fallback(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, MsgActive)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	ctx := log.ContextWithSlug(r.Context(), slug)
	logger := log.WithContext(ctx, s.logger)

	rec, err := s.lookup(ctx, slug)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			logger.Warn().Err(err).Str(log.FieldEvent, "proxy.lookup_failed").Msg("catalog lookup failed")
		}
		metrics.IncProxyRequest(outcomeNotFound)
		writeText(w, http.StatusNotFound, MsgNotFound)
		return
	}

	loc, err := s.locatorFor(rec)
	if err != nil {
		logger.Info().
			Str(log.FieldEvent, "proxy.unsupported_source").
			Str(log.FieldSourceKind, rec.Kind.String()).
			Msg("record is not relayable")
		metrics.IncProxyRequest(outcomeUnsupported)
		writeText(w, http.StatusBadRequest, MsgUnsupported)
		return
	}

	target, err := loc.Locate(ctx, rec.SourceKey)
	if err != nil {
		logger.Error().
			Err(fmt.Errorf("%w: %v", ErrUpstreamFailure, err)).
			Str(log.FieldEvent, "proxy.locate_failed").
			Str(log.FieldSourceKind, rec.Kind.String()).
			Msg("could not locate backing object")
		metrics.IncProxyRequest(outcomeUpstreamErr)
		writeText(w, http.StatusBadGateway, MsgUpstreamFailed)
		return
	}

	logger.Debug().
		Str(log.FieldEvent, "proxy.relay_start").
		Str(log.FieldSourceKind, rec.Kind.String()).
		Str(log.FieldUpstreamHost, target.Host).
		Str("upstream", platformnet.SanitizeURL(target.String())).
		Str(log.FieldRange, r.Header.Get("Range")).
		Msg("relaying")

	s.serveRelay(w, r.WithContext(ctx), target)
}

// lookup bounds the catalog call and records its latency. An empty slug is a miss.
func (s *Server) lookup(ctx context.Context, slug string) (catalog.Record, error) {
	if slug == "" {
		metrics.ObserveLookup("miss", 0)
		return catalog.Record{}, catalog.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	start := time.Now()
	rec, err := s.store.LookupBySlug(ctx, slug)
	switch {
	case err == nil:
		metrics.ObserveLookup("hit", time.Since(start))
	case errors.Is(err, catalog.ErrNotFound):
		metrics.ObserveLookup("miss", time.Since(start))
	default:
		metrics.ObserveLookup("error", time.Since(start))
	}
	return rec, err
}

func (s *Server) locatorFor(rec catalog.Record) (Locator, error) {
	switch rec.Kind {
	case catalog.SourceBlobStore:
		return s.blob, nil
	case catalog.SourceCloudShare:
		if s.cloudShare != nil {
			return s.cloudShare, nil
		}
		return nil, ErrUnsupportedSource
	case catalog.SourceEmbedHost:
		return nil, ErrUnsupportedSource
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, rec.Kind)
	}
}
