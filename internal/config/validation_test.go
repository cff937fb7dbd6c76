// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", func(*AppConfig) {}, false},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }, true},
		{"unknown backend", func(c *AppConfig) { c.Catalog.Backend = "mongo" }, true},
		{"sqlite needs path", func(c *AppConfig) { c.Catalog.Backend = CatalogSQLite }, true},
		{"sqlite with path", func(c *AppConfig) {
			c.Catalog.Backend = CatalogSQLite
			c.Catalog.Path = "catalog.db"
		}, false},
		{"postgrest needs url", func(c *AppConfig) { c.Catalog.Backend = CatalogPostgREST }, true},
		{"postgrest cannot be seeded", func(c *AppConfig) {
			c.Catalog.Backend = CatalogPostgREST
			c.Catalog.RemoteURL = "https://abc.supabase.co"
			c.Catalog.SeedFile = "seed.yaml"
		}, true},
		{"redis breaker disabled", func(c *AppConfig) {
			c.Catalog.Backend = CatalogRedis
			c.Catalog.RedisAddr = "localhost:6379"
			c.Catalog.BreakerThreshold = 0
		}, true},
		{"memory ignores breaker", func(c *AppConfig) { c.Catalog.BreakerResetTimeout = 0 }, false},
		{"blob base url with query", func(c *AppConfig) { c.Blob.BaseURL = "https://media.example.com?x=1" }, true},
		{"credential without param", func(c *AppConfig) {
			c.Blob.BaseURL = "https://media.example.com"
			c.Blob.Credential = "secret"
		}, true},
		{"s3 incomplete", func(c *AppConfig) { c.Blob.Mode = BlobModeS3 }, true},
		{"s3 complete", func(c *AppConfig) {
			c.Blob.Mode = BlobModeS3
			c.Blob.S3Endpoint = "acct.r2.cloudflarestorage.com"
			c.Blob.S3Bucket = "videos"
			c.Blob.S3AccessKey = "ak"
			c.Blob.S3SecretKey = "sk"
		}, false},
		{"zero lookup timeout", func(c *AppConfig) { c.Proxy.LookupTimeout = 0 }, true},
		{"flush every write", func(c *AppConfig) { c.Proxy.FlushInterval = -1 }, false},
		{"embed host with scheme", func(c *AppConfig) { c.Playback.EmbedHost = "https://vidmoly.net" }, true},
		{"cloud proxy without relay", func(c *AppConfig) { c.Playback.CloudShareMode = CloudShareProxy }, true},
		{"cloud proxy with relay", func(c *AppConfig) {
			c.Playback.CloudShareMode = CloudShareProxy
			c.Proxy.RelayCloudShare = true
		}, false},
		{"demo mode needs url", func(c *AppConfig) {
			c.Playback.DemoMode = true
			c.Playback.DemoFallbackURL = ""
		}, true},
		{"rate limit zero", func(c *AppConfig) { c.API.RateLimitRPM = 0 }, true},
		{"rate limit disabled ignores rpm", func(c *AppConfig) {
			c.API.RateLimitEnabled = false
			c.API.RateLimitRPM = 0
		}, false},
		{"telemetry bad exporter", func(c *AppConfig) {
			c.Telemetry.Enabled = true
			c.Telemetry.Exporter = "zipkin"
		}, true},
		{"negative read header timeout", func(c *AppConfig) { c.Server.ReadHeaderTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaskSecrets(t *testing.T) {
	cfg := Default()
	cfg.Catalog.RedisPassword = "hunter2"
	cfg.Catalog.RemoteKey = "service-role"
	cfg.Blob.S3SecretKey = "sk"

	masked, ok := MaskSecrets(cfg).(map[string]any)
	require.True(t, ok)

	catalog := masked["Catalog"].(map[string]any)
	assert.Equal(t, "***", catalog["RedisPassword"])
	assert.Equal(t, "***", catalog["RemoteKey"])
	assert.Equal(t, "memory", catalog["Backend"])

	blob := masked["Blob"].(map[string]any)
	assert.Equal(t, "***", blob["S3SecretKey"])
	assert.Equal(t, "", blob["S3AccessKey"], "unset secrets stay visible as empty")

	proxy := masked["Proxy"].(map[string]any)
	assert.Equal(t, "4h0m0s", proxy["MaxStreamDuration"])
}
