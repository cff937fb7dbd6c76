// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/metrics"
)

// DefaultCatalogRefreshInterval is how often the catalog size gauge is refreshed.
const DefaultCatalogRefreshInterval = time.Minute

// App runs the manager together with its background loops.
type App struct {
	logger  zerolog.Logger
	manager Manager
	store   catalog.Store

	refreshInterval time.Duration
}

// NewApp builds an App. store may be nil, which disables the catalog gauge loop.
func NewApp(logger zerolog.Logger, manager Manager, store catalog.Store, refreshInterval time.Duration) (*App, error) {
	if manager == nil {
		return nil, ErrMissingManager
	}
	if refreshInterval <= 0 {
		refreshInterval = DefaultCatalogRefreshInterval
	}
	return &App{
		logger:          logger,
		manager:         manager,
		store:           store,
		refreshInterval: refreshInterval,
	}, nil
}

// Run blocks until ctx is cancelled or the server fails. Background loops stop
// with the server.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	loopCtx, stopLoops := context.WithCancel(gctx)
	defer stopLoops()

	g.Go(func() error {
		defer stopLoops()
		return a.manager.Start(gctx)
	})

	if a.store != nil {
		g.Go(func() error {
			a.refreshCatalogGauge(loopCtx)
			return nil
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) refreshCatalogGauge(ctx context.Context) {
	ticker := time.NewTicker(a.refreshInterval)
	defer ticker.Stop()

	for {
		RefreshCatalogGauge(ctx, a.store, a.logger)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RefreshCatalogGauge lists the catalog once and publishes record counts per source kind.
func RefreshCatalogGauge(ctx context.Context, store catalog.Store, logger zerolog.Logger) {
	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	recs, err := store.List(listCtx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.IncCatalogRefreshError()
		logger.Warn().Err(err).Str(log.FieldEvent, "catalog.refresh_failed").Msg("catalog size refresh failed")
		return
	}
	counts := make(map[string]int, 3)
	for _, rec := range recs {
		counts[rec.Kind.String()]++
	}
	metrics.SetCatalogRecords(counts)
}
