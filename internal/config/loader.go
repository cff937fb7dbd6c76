// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence ENV > File > Defaults.
type Loader struct {
	configPath string
	version    string

	// ConsumedEnvKeys records every environment key the loader looked at.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load parses the file strictly, applies environment overrides and validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Default()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg. Unknown fields are fatal.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("LOG_SERVICE", cfg.LogService)

	s := &cfg.Server
	s.ListenAddr = l.envString("LISTEN_ADDR", s.ListenAddr)
	s.PublicBaseURL = l.envString("PUBLIC_BASE_URL", s.PublicBaseURL)
	s.ReadHeaderTimeout = l.envDuration("READ_HEADER_TIMEOUT", s.ReadHeaderTimeout)
	s.IdleTimeout = l.envDuration("IDLE_TIMEOUT", s.IdleTimeout)
	s.ShutdownTimeout = l.envDuration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)

	c := &cfg.Catalog
	c.Backend = l.envString("CATALOG_BACKEND", c.Backend)
	c.Path = l.envString("CATALOG_PATH", c.Path)
	c.SeedFile = l.envString("CATALOG_SEED_FILE", c.SeedFile)
	c.SeedDemo = l.envBool("CATALOG_SEED_DEMO", c.SeedDemo)
	c.RedisAddr = l.envString("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = l.envString("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = l.envInt("REDIS_DB", c.RedisDB)
	c.RedisPrefix = l.envString("REDIS_PREFIX", c.RedisPrefix)
	c.RemoteURL = l.envString("CATALOG_REMOTE_URL", c.RemoteURL)
	c.RemoteKey = l.envString("CATALOG_REMOTE_KEY", c.RemoteKey)
	c.BreakerThreshold = l.envInt("CATALOG_BREAKER_THRESHOLD", c.BreakerThreshold)
	c.BreakerResetTimeout = l.envDuration("CATALOG_BREAKER_RESET_TIMEOUT", c.BreakerResetTimeout)

	b := &cfg.Blob
	b.Mode = l.envString("BLOB_MODE", b.Mode)
	b.BaseURL = l.envString("BLOB_BASE_URL", b.BaseURL)
	b.CredentialParam = l.envString("BLOB_CREDENTIAL_PARAM", b.CredentialParam)
	b.Credential = l.envString("BLOB_CREDENTIAL", b.Credential)
	b.S3Endpoint = l.envString("S3_ENDPOINT", b.S3Endpoint)
	b.S3Region = l.envString("S3_REGION", b.S3Region)
	b.S3Bucket = l.envString("S3_BUCKET", b.S3Bucket)
	b.S3AccessKey = l.envString("S3_ACCESS_KEY", b.S3AccessKey)
	b.S3SecretKey = l.envString("S3_SECRET_KEY", b.S3SecretKey)
	b.S3UseSSL = l.envBool("S3_USE_SSL", b.S3UseSSL)
	b.S3PresignExpiry = l.envDuration("S3_PRESIGN_EXPIRY", b.S3PresignExpiry)

	p := &cfg.Proxy
	p.MaxStreamDuration = l.envDuration("PROXY_MAX_STREAM_DURATION", p.MaxStreamDuration)
	p.LookupTimeout = l.envDuration("PROXY_LOOKUP_TIMEOUT", p.LookupTimeout)
	p.ResponseHeaderTimeout = l.envDuration("PROXY_RESPONSE_HEADER_TIMEOUT", p.ResponseHeaderTimeout)
	p.FlushInterval = l.envDuration("PROXY_FLUSH_INTERVAL", p.FlushInterval)
	p.RelayCloudShare = l.envBool("PROXY_RELAY_CLOUD_SHARE", p.RelayCloudShare)
	p.CloudShareAPIKey = l.envString("CLOUD_SHARE_API_KEY", p.CloudShareAPIKey)

	pb := &cfg.Playback
	pb.EmbedHost = l.envString("EMBED_HOST", pb.EmbedHost)
	pb.KnownEmbedHosts = l.envList("KNOWN_EMBED_HOSTS", pb.KnownEmbedHosts)
	pb.CloudHost = l.envString("CLOUD_HOST", pb.CloudHost)
	pb.CloudShareMode = l.envString("CLOUD_SHARE_MODE", pb.CloudShareMode)
	pb.DemoMode = l.envBool("DEMO_MODE", pb.DemoMode)
	pb.DemoFallbackURL = l.envString("DEMO_FALLBACK_URL", pb.DemoFallbackURL)

	a := &cfg.API
	a.AdminEnabled = l.envBool("ADMIN_ENABLED", a.AdminEnabled)
	a.RateLimitEnabled = l.envBool("RATE_LIMIT_ENABLED", a.RateLimitEnabled)
	a.RateLimitRPM = l.envInt("RATE_LIMIT_RPM", a.RateLimitRPM)
	a.RateLimitWhitelist = l.envList("RATE_LIMIT_WHITELIST", a.RateLimitWhitelist)

	t := &cfg.Telemetry
	t.Enabled = l.envBool("TELEMETRY_ENABLED", t.Enabled)
	t.Exporter = l.envString("TELEMETRY_EXPORTER", t.Exporter)
	t.Endpoint = l.envString("TELEMETRY_ENDPOINT", t.Endpoint)
	t.SamplingRate = l.envFloat("TELEMETRY_SAMPLING_RATE", t.SamplingRate)
	t.Environment = l.envString("ENVIRONMENT", t.Environment)
}

func (l *Loader) track(key string) string {
	full := EnvPrefix + key
	l.ConsumedEnvKeys[full] = struct{}{}
	return full
}

func (l *Loader) envString(key, defaultVal string) string {
	return ParseString(l.track(key), defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	return ParseBool(l.track(key), defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	return ParseInt(l.track(key), defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	return ParseDuration(l.track(key), defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	return ParseFloat(l.track(key), defaultVal)
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	return ParseList(l.track(key), defaultVal)
}
