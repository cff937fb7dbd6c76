// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package playback decides how a client reaches the media bytes of a catalog record.
package playback

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/metrics"
	"github.com/ManuGH/streamflix/internal/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned by Resolve for unknown slugs. It also matches catalog.ErrNotFound.
var ErrNotFound = fmt.Errorf("playback: %w", catalog.ErrNotFound)

// CloudShareMode selects how cloud-share records resolve.
type CloudShareMode string

const (
	// CloudShareDirect hands the client a direct-download URL on the cloud host.
	CloudShareDirect CloudShareMode = "direct"
	// CloudShareProxy routes cloud-share bytes through the streaming proxy.
	CloudShareProxy CloudShareMode = "proxy"
)

// PlayPathPrefix is the streaming proxy route that ProxiedStream targets point at.
const PlayPathPrefix = "/api/play/"

// Config carries the resolver's deployment settings.
type Config struct {
	PublicBaseURL   string // origin of the streaming proxy, e.g. https://edge.example.com
	EmbedHost       string
	KnownEmbedHosts []string
	CloudHost       string
	CloudShareMode  CloudShareMode
	DemoMode        bool
	DemoFallbackURL string
}

// Resolver maps slugs to playback targets. It holds no mutable state.
type Resolver struct {
	store catalog.Store
	cfg   Config
}

// NewResolver builds a resolver over store.
func NewResolver(store catalog.Store, cfg Config) *Resolver {
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	if cfg.CloudShareMode == "" {
		cfg.CloudShareMode = CloudShareDirect
	}
	return &Resolver{store: store, cfg: cfg}
}

// Resolve looks the slug up and classifies it.
func (r *Resolver) Resolve(ctx context.Context, slug string) (Target, error) {
	logger := log.WithComponentFromContext(ctx, "playback")

	rec, err := r.store.LookupBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			metrics.IncPlaybackResolve("", "not_found")
			return Target{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
		}
		metrics.IncPlaybackResolve("", "error")
		logger.Warn().Err(err).Str(log.FieldSlug, slug).Msg("catalog lookup failed")
		return Target{}, fmt.Errorf("playback: lookup %q: %w", slug, err)
	}

	t, err := r.Target(rec)
	if err != nil {
		metrics.IncPlaybackResolve(rec.Kind.String(), "error")
		return Target{}, err
	}
	metrics.IncPlaybackResolve(rec.Kind.String(), string(t.Kind))
	trace.SpanFromContext(ctx).SetAttributes(telemetry.PlaybackAttributes(slug, rec.Kind.String(), string(t.Kind))...)
	logger.Debug().
		Str(log.FieldEvent, "playback.resolved").
		Str(log.FieldSlug, slug).
		Str(log.FieldSourceKind, rec.Kind.String()).
		Str(log.FieldTargetKind, string(t.Kind)).
		Msg("playback resolved")
	return t, nil
}

// Target classifies an already loaded record. It performs no I/O.
func (r *Resolver) Target(rec catalog.Record) (Target, error) {
	switch rec.Kind {
	case catalog.SourceEmbedHost:
		if isPassthrough(rec.SourceKey, r.cfg.EmbedHost, r.cfg.KnownEmbedHosts) {
			metrics.IncEmbedPassthrough()
		}
		return EmbedURL(NormalizeEmbedKey(rec.SourceKey, r.cfg.EmbedHost, r.cfg.KnownEmbedHosts)), nil

	case catalog.SourceCloudShare:
		switch r.cfg.CloudShareMode {
		case CloudShareProxy:
			return ProxiedStream(r.PlayURL(rec.Slug)), nil
		case CloudShareDirect:
			return DirectURL(r.cloudShareURL(rec.SourceKey)), nil
		default:
			return Target{}, fmt.Errorf("playback: unknown cloud-share mode %q", r.cfg.CloudShareMode)
		}

	case catalog.SourceBlobStore:
		if r.cfg.DemoMode {
			return DirectURL(r.cfg.DemoFallbackURL), nil
		}
		return ProxiedStream(r.PlayURL(rec.Slug)), nil

	default:
		return Target{}, fmt.Errorf("playback: %w: %d", catalog.ErrUnknownSourceKind, int(rec.Kind))
	}
}

// PlayURL is the streaming proxy endpoint for slug.
func (r *Resolver) PlayURL(slug string) string {
	return r.cfg.PublicBaseURL + PlayPathPrefix + url.PathEscape(slug)
}

func (r *Resolver) cloudShareURL(fileID string) string {
	q := url.Values{}
	q.Set("export", "download")
	q.Set("id", strings.TrimSpace(fileID))
	return "https://" + r.cfg.CloudHost + "/uc?" + q.Encode()
}
