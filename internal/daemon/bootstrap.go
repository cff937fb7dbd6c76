// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/streamflix/internal/api"
	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/config"
	"github.com/ManuGH/streamflix/internal/health"
	"github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/platform/httpx"
	"github.com/ManuGH/streamflix/internal/playback"
	"github.com/ManuGH/streamflix/internal/proxy"
	"github.com/ManuGH/streamflix/internal/resilience"
	"github.com/ManuGH/streamflix/internal/telemetry"
)

const remoteCatalogTimeout = 10 * time.Second

// Runtime is the wired object graph for one daemon process.
type Runtime struct {
	Config    config.AppConfig
	Store     catalog.Store
	Resolver  *playback.Resolver
	Proxy     *proxy.Server
	API       *api.Server
	Health    *health.Manager
	Telemetry *telemetry.Provider
	Handler   http.Handler

	transport *http.Transport
}

// Build wires every component from cfg. On error, anything already opened is closed.
func Build(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (rt *Runtime, err error) {
	rt = &Runtime{Config: cfg}
	defer func() {
		if err != nil {
			_ = rt.Close(context.WithoutCancel(ctx))
			rt = nil
		}
	}()

	rt.Telemetry, err = telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return rt, fmt.Errorf("init telemetry: %w", err)
	}

	rt.Store, err = OpenStore(ctx, cfg, logger)
	if err != nil {
		return rt, err
	}
	if _, err = SeedStore(ctx, rt.Store, cfg.Catalog, logger); err != nil {
		return rt, err
	}

	rt.Health = health.NewManager(cfg.Version)
	rt.Health.RegisterChecker(health.NewCatalogChecker(rt.Store, cfg.Catalog.Backend))

	blob, cloud, err := BuildLocators(cfg)
	if err != nil {
		return rt, err
	}
	if p, ok := blob.(health.Pinger); ok {
		rt.Health.RegisterChecker(health.NewPingChecker("blob", p, false))
	}

	rt.Resolver = playback.NewResolver(rt.Store, playback.Config{
		PublicBaseURL:   cfg.Server.PublicBaseURL,
		EmbedHost:       cfg.Playback.EmbedHost,
		KnownEmbedHosts: cfg.Playback.KnownEmbedHosts,
		CloudHost:       cfg.Playback.CloudHost,
		CloudShareMode:  playback.CloudShareMode(cfg.Playback.CloudShareMode),
		DemoMode:        cfg.Playback.DemoMode,
		DemoFallbackURL: cfg.Playback.DemoFallbackURL,
	})

	rt.transport = httpx.NewStreamingTransport(cfg.Proxy.ResponseHeaderTimeout)
	proxyCfg := proxy.Config{
		Store:             rt.Store,
		Blob:              blob,
		CloudShare:        cloud,
		Transport:         httpx.Instrument(rt.transport),
		MaxStreamDuration: cfg.Proxy.MaxStreamDuration,
		LookupTimeout:     cfg.Proxy.LookupTimeout,
		FlushInterval:     cfg.Proxy.FlushInterval,
		Logger:            logger.With().Str(log.FieldComponent, "proxy").Logger(),
	}
	rt.Proxy, err = proxy.New(proxyCfg)
	if err != nil {
		return rt, fmt.Errorf("init proxy: %w", err)
	}

	rt.API, err = api.New(api.Config{
		Store:              rt.Store,
		Resolver:           rt.Resolver,
		AdminEnabled:       cfg.API.AdminEnabled,
		RateLimitEnabled:   cfg.API.RateLimitEnabled,
		RateLimitRPM:       cfg.API.RateLimitRPM,
		RateLimitWhitelist: cfg.API.RateLimitWhitelist,
		Logger:             logger.With().Str(log.FieldComponent, "api").Logger(),
	})
	if err != nil {
		return rt, fmt.Errorf("init api: %w", err)
	}

	rt.Handler = NewRouter(RouterConfig{
		ServiceName:    cfg.LogService,
		EnableTracing:  cfg.Telemetry.Enabled,
		Proxy:          rt.Proxy,
		API:            rt.API,
		Health:         rt.Health,
		MetricsEnabled: true,
	})

	logger.Info().
		Str(log.FieldEvent, "bootstrap.ready").
		Str("catalog_backend", cfg.Catalog.Backend).
		Str("blob_mode", cfg.Blob.Mode).
		Bool("blob_configured", blob != nil).
		Bool("cloud_relay", cloud != nil).
		Bool("admin_enabled", cfg.API.AdminEnabled).
		Msg("runtime wired")
	return rt, nil
}

// RegisterHooks hands the runtime's cleanup to mgr. Hooks run LIFO, so the
// store closes before telemetry flushes.
func (rt *Runtime) RegisterHooks(mgr Manager) {
	mgr.RegisterShutdownHook("telemetry", func(ctx context.Context) error {
		return rt.Telemetry.Shutdown(ctx)
	})
	mgr.RegisterShutdownHook("upstream-transport", func(context.Context) error {
		rt.transport.CloseIdleConnections()
		return nil
	})
	mgr.RegisterShutdownHook("catalog", func(context.Context) error {
		return rt.Store.Close()
	})
}

// Close releases whatever Build opened. It is used when the runtime never
// reaches a manager.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.Store != nil {
		errs = append(errs, rt.Store.Close())
	}
	if rt.transport != nil {
		rt.transport.CloseIdleConnections()
	}
	if rt.Telemetry != nil {
		errs = append(errs, rt.Telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// OpenStore opens the configured catalog backend.
func OpenStore(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (catalog.Store, error) {
	opts := catalog.Options{
		Backend:       cfg.Catalog.Backend,
		Path:          cfg.Catalog.Path,
		RedisAddr:     cfg.Catalog.RedisAddr,
		RedisPassword: cfg.Catalog.RedisPassword,
		RedisDB:       cfg.Catalog.RedisDB,
		RedisPrefix:   cfg.Catalog.RedisPrefix,
		RemoteURL:     cfg.Catalog.RemoteURL,
		RemoteKey:     cfg.Catalog.RemoteKey,
		Logger:        logger.With().Str(log.FieldComponent, "catalog").Logger(),
	}
	if cfg.Catalog.Backend == config.CatalogPostgREST {
		opts.HTTPClient = httpx.NewClient(remoteCatalogTimeout)
	}
	store, err := catalog.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open catalog (%s): %w", cfg.Catalog.Backend, err)
	}
	switch cfg.Catalog.Backend {
	case config.CatalogRedis, config.CatalogPostgREST:
		breaker := resilience.NewCircuitBreaker("catalog_"+cfg.Catalog.Backend,
			cfg.Catalog.BreakerThreshold, cfg.Catalog.BreakerResetTimeout,
			resilience.WithFailureFilter(catalog.IsBackendFailure))
		return catalog.NewGuardedStore(store, breaker), nil
	}
	return store, nil
}

// SeedStore applies the demo catalog and the seed file, in that order.
// Existing slugs are never overwritten.
func SeedStore(ctx context.Context, store catalog.Store, cfg config.CatalogConfig, logger zerolog.Logger) (catalog.SeedResult, error) {
	var total catalog.SeedResult
	apply := func(source string, recs []catalog.Record) error {
		res, err := catalog.Seed(ctx, store, recs)
		total.Inserted += res.Inserted
		total.Skipped += res.Skipped
		if err != nil {
			if errors.Is(err, catalog.ErrReadOnly) {
				logger.Warn().Str(log.FieldEvent, "catalog.seed_skipped").Str("source", source).
					Msg("catalog backend is read-only, seeding skipped")
				return nil
			}
			return fmt.Errorf("seed catalog from %s: %w", source, err)
		}
		logger.Info().
			Str(log.FieldEvent, "catalog.seeded").
			Str("source", source).
			Int("inserted", res.Inserted).
			Int("skipped", res.Skipped).
			Msg("catalog seeded")
		return nil
	}

	if cfg.SeedDemo {
		recs, err := catalog.DemoRecords()
		if err != nil {
			return total, fmt.Errorf("load demo catalog: %w", err)
		}
		if err := apply("demo", recs); err != nil {
			return total, err
		}
	}
	if cfg.SeedFile != "" {
		recs, err := LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return total, err
		}
		if err := apply(cfg.SeedFile, recs); err != nil {
			return total, err
		}
	}
	return total, nil
}

// LoadSeedFile reads a YAML seed file from disk.
func LoadSeedFile(path string) ([]catalog.Record, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied seed path
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()
	recs, err := catalog.LoadSeed(f)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return recs, nil
}

// BuildLocators returns the blob and cloud-share locators. A nil blob locator
// means blob relays answer 502; a nil cloud locator leaves cloud-share relays off.
func BuildLocators(cfg config.AppConfig) (blob proxy.Locator, cloud proxy.Locator, err error) {
	switch cfg.Blob.Mode {
	case config.BlobModeS3:
		loc, err := proxy.NewPresignLocator(proxy.PresignConfig{
			Endpoint:  cfg.Blob.S3Endpoint,
			Region:    cfg.Blob.S3Region,
			Bucket:    cfg.Blob.S3Bucket,
			AccessKey: cfg.Blob.S3AccessKey,
			SecretKey: cfg.Blob.S3SecretKey,
			UseSSL:    cfg.Blob.S3UseSSL,
			Expiry:    cfg.Blob.S3PresignExpiry,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("blob locator: %w", err)
		}
		blob = loc
	default:
		if cfg.Blob.BaseURL != "" {
			loc, err := proxy.NewHTTPLocator(cfg.Blob.BaseURL, cfg.Blob.CredentialParam, cfg.Blob.Credential)
			if err != nil {
				return nil, nil, fmt.Errorf("blob locator: %w", err)
			}
			blob = loc
		}
	}
	if cfg.Proxy.RelayCloudShare {
		cloud = proxy.NewCloudShareLocator(cfg.Proxy.CloudShareAPIKey)
	}
	return blob, cloud, nil
}
