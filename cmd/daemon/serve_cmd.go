// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/streamflix/internal/config"
	"github.com/ManuGH/streamflix/internal/daemon"
	"github.com/ManuGH/streamflix/internal/health"
	xglog "github.com/ManuGH/streamflix/internal/log"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	xglog.Configure(xglog.Config{Level: "info", Service: "streamflix"})
	logger := xglog.WithComponent("daemon")

	cfg, path, err := loadConfig(opts)
	if err != nil {
		logger.Error().Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
		return err
	}
	logger = xglog.WithComponent("daemon")
	logConfigSource(path, cfg)

	// Fail fast on unusable paths and addresses.
	if err := health.PerformStartupChecks(cfg); err != nil {
		logger.Error().Err(err).
			Str(xglog.FieldEvent, "startup.check_failed").
			Msg("startup checks failed, verify configuration and permissions")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := daemon.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	mgr, err := daemon.NewManager(cfg.Server, daemon.Deps{Logger: logger, Handler: rt.Handler})
	if err != nil {
		_ = rt.Close(context.WithoutCancel(ctx))
		return err
	}
	rt.RegisterHooks(mgr)

	app, err := daemon.NewApp(logger, mgr, rt.Store, daemon.DefaultCatalogRefreshInterval)
	if err != nil {
		return err
	}

	logger.Info().
		Str(xglog.FieldEvent, "daemon.starting").
		Str("addr", cfg.Server.ListenAddr).
		Str("public_base_url", cfg.Server.PublicBaseURL).
		Msg("starting streamflix")

	if err := app.Run(ctx); err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("daemon exited with error")
		return err
	}
	logger.Info().Str(xglog.FieldEvent, "daemon.stopped").Msg("server exiting")
	return nil
}

func logConfigSource(path string, cfg config.AppConfig) {
	logger := xglog.WithComponent("config")
	evt := logger.Info().Str(xglog.FieldEvent, "config.loaded")
	if path != "" {
		evt = evt.Str("source", "file").Str("path", path)
	} else {
		evt = evt.Str("source", "env+defaults")
	}
	evt.Interface("config", config.MaskSecrets(cfg)).Msg("configuration loaded")
}
