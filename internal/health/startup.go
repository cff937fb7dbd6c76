// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ManuGH/streamflix/internal/config"
	"github.com/ManuGH/streamflix/internal/log"
)

// PerformStartupChecks verifies the runtime environment before the server binds.
// Config validation covers syntax; this covers the filesystem and listener.
func PerformStartupChecks(cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")

	if err := checkListenAddr(cfg.Server.ListenAddr); err != nil {
		return err
	}

	switch cfg.Catalog.Backend {
	case config.CatalogSQLite:
		if err := checkWritableDir(logger, filepath.Dir(cfg.Catalog.Path)); err != nil {
			return fmt.Errorf("sqlite catalog directory: %w", err)
		}
	case config.CatalogBadger:
		if err := os.MkdirAll(cfg.Catalog.Path, 0o750); err != nil {
			return fmt.Errorf("badger catalog directory: %w", err)
		}
		if err := checkWritableDir(logger, cfg.Catalog.Path); err != nil {
			return fmt.Errorf("badger catalog directory: %w", err)
		}
	case config.CatalogMemory:
		logger.Warn().
			Str("catalog_backend", cfg.Catalog.Backend).
			Msg("catalog is in memory; admin writes are lost on restart")
	}

	if cfg.Catalog.SeedFile != "" {
		if err := checkFileReadable(cfg.Catalog.SeedFile); err != nil {
			return fmt.Errorf("catalog seed file: %w", err)
		}
	}

	if cfg.Blob.Mode == config.BlobModeHTTP && strings.TrimSpace(cfg.Blob.BaseURL) == "" && !cfg.Playback.DemoMode {
		logger.Warn().Msg("blob base URL not configured; blob-store playback will fail with 502")
	}

	logger.Info().Msg("startup checks passed")
	return nil
}

func checkListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid listen port %q in %q", port, addr)
	}
	return nil
}

func checkWritableDir(logger zerolog.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	f, err := os.CreateTemp(path, ".write_test-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s: %w", path, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)

	logger.Debug().Str("path", path).Msg("directory is writable")
	return nil
}

func checkFileReadable(path string) error {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return err
	}
	return f.Close()
}
