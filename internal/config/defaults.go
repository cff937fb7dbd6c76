// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// DefaultDemoFallbackURL is the public sample served for blob items in demo mode.
const DefaultDemoFallbackURL = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4"

// Default returns the baseline configuration before file and environment overrides.
func Default() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "streamflix",
		Server: ServerConfig{
			ListenAddr:        ":8080",
			PublicBaseURL:     "http://localhost:8080",
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Catalog: CatalogConfig{
			Backend:     CatalogMemory,
			SeedDemo:    true,
			RedisPrefix: "streamflix:",

			BreakerThreshold:    5,
			BreakerResetTimeout: 30 * time.Second,
		},
		Blob: BlobConfig{
			Mode:            BlobModeHTTP,
			S3Region:        "auto",
			S3UseSSL:        true,
			S3PresignExpiry: 15 * time.Minute,
		},
		Proxy: ProxyConfig{
			MaxStreamDuration:     4 * time.Hour,
			LookupTimeout:         5 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			FlushInterval:         100 * time.Millisecond,
		},
		Playback: PlaybackConfig{
			EmbedHost:       "vidmoly.net",
			KnownEmbedHosts: []string{"vidmoly.net", "vidmoly.to"},
			CloudHost:       "drive.google.com",
			CloudShareMode:  CloudShareDirect,
			DemoFallbackURL: DefaultDemoFallbackURL,
		},
		API: APIConfig{
			RateLimitEnabled: true,
			RateLimitRPM:     300,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
			Environment:  "production",
		},
	}
}
