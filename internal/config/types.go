// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// Catalog backends.
const (
	CatalogMemory    = "memory"
	CatalogSQLite    = "sqlite"
	CatalogBadger    = "badger"
	CatalogRedis     = "redis"
	CatalogPostgREST = "postgrest"
)

// Blob locator modes.
const (
	BlobModeHTTP = "http"
	BlobModeS3   = "s3"
)

// Cloud-share resolution modes.
const (
	CloudShareDirect = "direct"
	CloudShareProxy  = "proxy"
)

// AppConfig is the fully resolved runtime configuration.
// It is built once at start and handed to components by value; there is no global instance.
type AppConfig struct {
	Version    string `yaml:"-"`
	LogLevel   string `yaml:"logLevel,omitempty"`
	LogService string `yaml:"logService,omitempty"`

	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Blob      BlobConfig      `yaml:"blob"`
	Proxy     ProxyConfig     `yaml:"proxy"`
	Playback  PlaybackConfig  `yaml:"playback"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	ListenAddr        string        `yaml:"listenAddr"`
	PublicBaseURL     string        `yaml:"publicBaseUrl"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	IdleTimeout       time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
}

// CatalogConfig selects and configures the catalog store backend.
type CatalogConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path,omitempty"`     // sqlite file or badger directory
	SeedFile string `yaml:"seedFile,omitempty"` // optional YAML seed applied at start
	SeedDemo bool   `yaml:"seedDemo"`           // seed the embedded demo catalog

	RedisAddr     string `yaml:"redisAddr,omitempty"`
	RedisPassword string `yaml:"redisPassword,omitempty"`
	RedisDB       int    `yaml:"redisDb,omitempty"`
	RedisPrefix   string `yaml:"redisPrefix,omitempty"`

	RemoteURL string `yaml:"remoteUrl,omitempty"` // hosted PostgREST endpoint
	RemoteKey string `yaml:"remoteKey,omitempty"` // service key sent as apikey + bearer

	// Remote backends (redis, postgrest) are guarded by a circuit breaker.
	BreakerThreshold    int           `yaml:"breakerThreshold"`
	BreakerResetTimeout time.Duration `yaml:"breakerResetTimeout"`
}

// BlobConfig describes how blob-store object keys become fetchable URLs.
type BlobConfig struct {
	Mode string `yaml:"mode"`

	BaseURL         string `yaml:"baseUrl,omitempty"`
	CredentialParam string `yaml:"credentialParam,omitempty"`
	Credential      string `yaml:"credential,omitempty"`

	S3Endpoint      string        `yaml:"s3Endpoint,omitempty"`
	S3Region        string        `yaml:"s3Region,omitempty"`
	S3Bucket        string        `yaml:"s3Bucket,omitempty"`
	S3AccessKey     string        `yaml:"s3AccessKey,omitempty"`
	S3SecretKey     string        `yaml:"s3SecretKey,omitempty"`
	S3UseSSL        bool          `yaml:"s3UseSsl"`
	S3PresignExpiry time.Duration `yaml:"s3PresignExpiry,omitempty"`
}

// ProxyConfig bounds the streaming relay.
type ProxyConfig struct {
	MaxStreamDuration     time.Duration `yaml:"maxStreamDuration"`
	LookupTimeout         time.Duration `yaml:"lookupTimeout"`
	ResponseHeaderTimeout time.Duration `yaml:"responseHeaderTimeout"`
	FlushInterval         time.Duration `yaml:"flushInterval"`

	RelayCloudShare  bool   `yaml:"relayCloudShare"`
	CloudShareAPIKey string `yaml:"cloudShareApiKey,omitempty"`
}

// PlaybackConfig drives the playback resolver.
type PlaybackConfig struct {
	EmbedHost       string   `yaml:"embedHost"`
	KnownEmbedHosts []string `yaml:"knownEmbedHosts"`
	CloudHost       string   `yaml:"cloudHost"`
	CloudShareMode  string   `yaml:"cloudShareMode"`
	DemoMode        bool     `yaml:"demoMode"`
	DemoFallbackURL string   `yaml:"demoFallbackUrl,omitempty"`
}

// APIConfig holds JSON catalog API settings.
type APIConfig struct {
	AdminEnabled     bool `yaml:"adminEnabled"`
	RateLimitEnabled bool `yaml:"rateLimitEnabled"`
	RateLimitRPM     int  `yaml:"rateLimitRpm"`

	RateLimitWhitelist []string `yaml:"rateLimitWhitelist,omitempty"` // IPs or CIDRs exempt from the limiter
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter,omitempty"` // grpc | http
	Endpoint     string  `yaml:"endpoint,omitempty"`
	SamplingRate float64 `yaml:"samplingRate,omitempty"`
	Environment  string  `yaml:"environment,omitempty"`
}
