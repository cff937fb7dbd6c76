// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/streamflix/internal/daemon"
	xglog "github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/playback"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <slug>",
		Short: "Resolve a slug to its playback target against the configured catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := xglog.WithComponent("cli")
			ctx := cmd.Context()

			store, err := daemon.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if _, err := daemon.SeedStore(ctx, store, cfg.Catalog, logger); err != nil {
				return err
			}

			resolver := playback.NewResolver(store, playback.Config{
				PublicBaseURL:   cfg.Server.PublicBaseURL,
				EmbedHost:       cfg.Playback.EmbedHost,
				KnownEmbedHosts: cfg.Playback.KnownEmbedHosts,
				CloudHost:       cfg.Playback.CloudHost,
				CloudShareMode:  playback.CloudShareMode(cfg.Playback.CloudShareMode),
				DemoMode:        cfg.Playback.DemoMode,
				DemoFallbackURL: cfg.Playback.DemoFallbackURL,
			})
			target, err := resolver.Resolve(ctx, args[0])
			if errors.Is(err, playback.ErrNotFound) {
				return fmt.Errorf("no video with slug %q", args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(target)
		},
	}
}
