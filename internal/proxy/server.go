// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package proxy relays byte-range requests for catalog items to their backing store.
//
// The proxy is stateless: each GET /api/play/{slug} resolves the slug in the
// catalog, locates the backing object and relays the upstream response with
// only the Range header forwarded. Bodies are streamed, never buffered, and the
// client's disconnect cancels the upstream fetch.
package proxy

import (
	"fmt"
	stdlog "log"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PlayRoute is the chi pattern of the relay endpoint.
const PlayRoute = "/api/play/{slug}"

const (
	defaultMaxStreamDuration = 4 * time.Hour
	defaultLookupTimeout     = 5 * time.Second
	defaultFlushInterval     = 100 * time.Millisecond
)

// Config holds the proxy dependencies. It is built once at start-up.
type Config struct {
	// Store resolves slugs to records. Required.
	Store catalog.Store

	// Blob locates BlobStore objects. When nil, blob relays fail with 502.
	Blob Locator

	// CloudShare, when set, enables relaying CloudShare records.
	CloudShare Locator

	// Transport performs upstream fetches. Defaults to http.DefaultTransport.
	Transport http.RoundTripper

	// MaxStreamDuration bounds a single relayed response, headers and body.
	MaxStreamDuration time.Duration

	// LookupTimeout bounds the catalog lookup.
	LookupTimeout time.Duration

	// FlushInterval is passed to the reverse proxy; -1 flushes after every write.
	FlushInterval time.Duration

	Logger zerolog.Logger
}

// Server is the streaming proxy handler.
type Server struct {
	store             catalog.Store
	blob              Locator
	cloudShare        Locator
	relay             *httputil.ReverseProxy
	maxStreamDuration time.Duration
	lookupTimeout     time.Duration
	logger            zerolog.Logger
}

// New validates cfg and builds the relay.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("proxy: catalog store is required")
	}
	if cfg.MaxStreamDuration < 0 || cfg.LookupTimeout < 0 {
		return nil, fmt.Errorf("proxy: durations must not be negative")
	}

	s := &Server{
		store:             cfg.Store,
		blob:              cfg.Blob,
		cloudShare:        cfg.CloudShare,
		maxStreamDuration: cfg.MaxStreamDuration,
		lookupTimeout:     cfg.LookupTimeout,
		logger:            cfg.Logger.With().Str("component", "proxy").Logger(),
	}
	if s.blob == nil {
		s.blob = unconfiguredLocator{}
	}
	if s.maxStreamDuration == 0 {
		s.maxStreamDuration = defaultMaxStreamDuration
	}
	if s.lookupTimeout == 0 {
		s.lookupTimeout = defaultLookupTimeout
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	flush := cfg.FlushInterval
	if flush == 0 {
		flush = defaultFlushInterval
	}

	s.relay = &httputil.ReverseProxy{
		Rewrite:        s.rewrite,
		Transport:      transport,
		FlushInterval:  flush,
		ModifyResponse: s.modifyResponse,
		ErrorHandler:   s.handleUpstreamError,
		ErrorLog:       stdlog.New(s.logger.With().Str("event", "proxy.relay").Logger(), "", 0),
	}

	return s, nil
}

// Routes registers the play endpoint on r. An empty slug is treated as a lookup miss.
func (s *Server) Routes(r chi.Router) {
	play := r.With(s.recoverText)
	for _, method := range []string{http.MethodGet, http.MethodHead} {
		play.MethodFunc(method, PlayRoute, s.handlePlay)
		play.MethodFunc(method, "/api/play/", s.handlePlay)
	}
}

// Handler returns the standalone proxy surface: CORS on every response, the
// play endpoint and the liveness placeholder on every other path.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(CORS)
	s.Routes(r)
	r.NotFound(Fallback)
	return r
}
