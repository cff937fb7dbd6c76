// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

// Store is the catalog collaborator used by the resolver, the proxy and the API.
// Implementations are safe for concurrent use.
type Store interface {
	// LookupBySlug returns ErrNotFound when no record has the slug.
	LookupBySlug(ctx context.Context, slug string) (Record, error)
	// List returns all records, newest first, ties broken by slug.
	List(ctx context.Context) ([]Record, error)
	// Put creates (empty or unknown ID) or updates a record and returns the stored copy.
	Put(ctx context.Context, rec Record) (Record, error)
	// Delete returns ErrNotFound when no record has the id.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Pinger is implemented by stores that can check their backing connection cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend string // memory | sqlite | badger | redis | postgrest
	Path    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	RemoteURL  string
	RemoteKey  string
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// Open constructs the configured backend. The caller owns the returned store.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return OpenSQLiteStore(ctx, opts.Path)
	case "badger":
		return OpenBadgerStore(opts.Path, opts.Logger)
	case "redis":
		return OpenRedisStore(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		}, opts.Logger)
	case "postgrest":
		return NewPostgRESTStore(opts.RemoteURL, opts.RemoteKey, opts.HTTPClient)
	default:
		return nil, fmt.Errorf("unknown catalog backend: %s", opts.Backend)
	}
}
