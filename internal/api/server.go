// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api serves the JSON catalog and playback endpoints consumed by the
// StreamFLIX web client, plus the optional catalog admin surface.
package api

import (
	"errors"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ManuGH/streamflix/internal/api/middleware"
	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/playback"
)

// Routes.
const (
	RouteVideos      = "/api/videos"
	RouteVideo       = "/api/videos/{slug}"
	RoutePlayback    = "/api/playback/{slug}"
	RouteAdminVideos = "/api/admin/videos"
	RouteAdminVideo  = "/api/admin/videos/{id}"
)

// DefaultRequestTimeout bounds each catalog call made on behalf of a request.
const DefaultRequestTimeout = 5 * time.Second

const maxBodyBytes = 1 << 20

// Config wires the API to its collaborators.
type Config struct {
	Store    catalog.Store
	Resolver *playback.Resolver

	AdminEnabled       bool
	RateLimitEnabled   bool
	RateLimitRPM       int
	RateLimitWhitelist []string
	RequestTimeout     time.Duration

	Logger zerolog.Logger
}

// Server holds the API handlers. It has no mutable state after New.
type Server struct {
	store    catalog.Store
	resolver *playback.Resolver
	cfg      Config
	logger   zerolog.Logger
}

// New validates cfg and builds the API server.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("api: catalog store is required")
	}
	if cfg.Resolver == nil {
		return nil, errors.New("api: playback resolver is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	return &Server{
		store:    cfg.Store,
		resolver: cfg.Resolver,
		cfg:      cfg,
		logger:   cfg.Logger.With().Str("component", "api").Logger(),
	}, nil
}

// Routes registers the JSON endpoints on r. Security headers and the rate
// limiter apply to this group only, so the play route stays unthrottled.
func (s *Server) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.SecurityHeaders(""))
		if s.cfg.RateLimitEnabled {
			r.Use(middleware.APIRateLimit(s.cfg.RateLimitRPM, s.cfg.RateLimitWhitelist))
		}

		r.Get(RouteVideos, s.handleListVideos)
		r.Get(RouteVideo, s.handleGetVideo)
		r.Get(RoutePlayback, s.handlePlayback)

		if s.cfg.AdminEnabled {
			r.Get(RouteAdminVideos, s.handleAdminList)
			r.Post(RouteAdminVideos, s.handleAdminCreate)
			r.Put(RouteAdminVideo, s.handleAdminUpdate)
			r.Delete(RouteAdminVideo, s.handleAdminDelete)
		}
	})
}
