// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	platformnet "github.com/ManuGH/streamflix/internal/platform/net"
	"github.com/ManuGH/streamflix/internal/validate"
)

// Validate checks cross-field consistency. All failures are reported together.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("logLevel", "must be one of trace, debug, info, warn, error", cfg.LogLevel)
	}

	v.NotEmpty("server.listenAddr", cfg.Server.ListenAddr)
	v.BaseURL("server.publicBaseUrl", cfg.Server.PublicBaseURL)
	v.PositiveDuration("server.readHeaderTimeout", cfg.Server.ReadHeaderTimeout)
	v.PositiveDuration("server.shutdownTimeout", cfg.Server.ShutdownTimeout)

	validateCatalog(v, cfg.Catalog)
	validateBlob(v, cfg.Blob)

	v.PositiveDuration("proxy.maxStreamDuration", cfg.Proxy.MaxStreamDuration)
	v.PositiveDuration("proxy.lookupTimeout", cfg.Proxy.LookupTimeout)
	v.PositiveDuration("proxy.responseHeaderTimeout", cfg.Proxy.ResponseHeaderTimeout)
	if cfg.Proxy.FlushInterval < 0 && cfg.Proxy.FlushInterval != -1 {
		v.AddError("proxy.flushInterval", "must be >= 0, or -1 to flush after every write", cfg.Proxy.FlushInterval)
	}

	pb := cfg.Playback
	host(v, "playback.embedHost", pb.EmbedHost)
	for _, h := range pb.KnownEmbedHosts {
		host(v, "playback.knownEmbedHosts", h)
	}
	host(v, "playback.cloudHost", pb.CloudHost)
	v.OneOf("playback.cloudShareMode", pb.CloudShareMode, []string{CloudShareDirect, CloudShareProxy})
	if pb.CloudShareMode == CloudShareProxy && !cfg.Proxy.RelayCloudShare {
		v.AddError("playback.cloudShareMode", "proxy mode requires proxy.relayCloudShare", pb.CloudShareMode)
	}
	if pb.DemoMode {
		v.URL("playback.demoFallbackUrl", pb.DemoFallbackURL, []string{"http", "https"})
	}

	if cfg.API.RateLimitEnabled {
		v.Range("api.rateLimitRpm", cfg.API.RateLimitRPM, 1, 100000)
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}

func validateCatalog(v *validate.Validator, c CatalogConfig) {
	v.OneOf("catalog.backend", c.Backend,
		[]string{CatalogMemory, CatalogSQLite, CatalogBadger, CatalogRedis, CatalogPostgREST})

	if c.Backend == CatalogRedis || c.Backend == CatalogPostgREST {
		v.Positive("catalog.breakerThreshold", c.BreakerThreshold)
		v.PositiveDuration("catalog.breakerResetTimeout", c.BreakerResetTimeout)
	}

	switch c.Backend {
	case CatalogSQLite:
		v.NotEmpty("catalog.path", c.Path)
	case CatalogBadger:
		v.NotEmpty("catalog.path", c.Path)
	case CatalogRedis:
		v.NotEmpty("catalog.redisAddr", c.RedisAddr)
		v.Range("catalog.redisDb", c.RedisDB, 0, 15)
	case CatalogPostgREST:
		v.BaseURL("catalog.remoteUrl", c.RemoteURL)
		if c.SeedFile != "" {
			v.AddError("catalog.seedFile", "postgrest catalog is read-only and cannot be seeded", c.SeedFile)
		}
	}
}

func validateBlob(v *validate.Validator, b BlobConfig) {
	v.OneOf("blob.mode", b.Mode, []string{BlobModeHTTP, BlobModeS3})

	switch b.Mode {
	case BlobModeHTTP:
		if b.BaseURL != "" {
			v.BaseURL("blob.baseUrl", b.BaseURL)
		}
		if b.Credential != "" && b.CredentialParam == "" {
			v.AddError("blob.credentialParam", "required when blob.credential is set", "")
		}
	case BlobModeS3:
		v.NotEmpty("blob.s3Endpoint", b.S3Endpoint)
		v.NotEmpty("blob.s3Bucket", b.S3Bucket)
		v.NotEmpty("blob.s3AccessKey", b.S3AccessKey)
		v.NotEmpty("blob.s3SecretKey", b.S3SecretKey)
		v.PositiveDuration("blob.s3PresignExpiry", b.S3PresignExpiry)
	}
}

func host(v *validate.Validator, field, value string) {
	v.Custom(field, value, func(any) error {
		_, err := platformnet.NormalizeHost(value)
		return err
	})
}
