// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ManuGH/streamflix/internal/catalog"
	"github.com/ManuGH/streamflix/internal/config"
	"github.com/ManuGH/streamflix/internal/daemon"
	xglog "github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/persistence/sqlite"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and maintain the video catalog",
	}
	cmd.AddCommand(
		newCatalogSeedCmd(opts),
		newCatalogListCmd(opts),
		newCatalogVerifyCmd(opts),
	)
	return cmd
}

func newCatalogSeedCmd(opts *rootOptions) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed [file]",
		Short: "Insert records from a YAML seed file (and optionally the demo set); existing slugs are kept",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if len(args) == 0 && !demo {
				return fmt.Errorf("nothing to seed: pass a file or --demo")
			}
			seedCfg := config.CatalogConfig{SeedDemo: demo}
			if len(args) == 1 {
				seedCfg.SeedFile = args[0]
			}

			logger := xglog.WithComponent("cli")
			store, err := daemon.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			res, err := daemon.SeedStore(cmd.Context(), store, seedCfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, skipped %d\n", res.Inserted, res.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also insert the built-in demo catalog")
	return cmd
}

func newCatalogListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := xglog.WithComponent("cli")
			store, err := daemon.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if _, err := daemon.SeedStore(cmd.Context(), store, cfg.Catalog, logger); err != nil {
				return err
			}

			recs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return printRecords(cmd, recs)
		},
	}
}

func printRecords(cmd *cobra.Command, recs []catalog.Record) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tKIND\tYEAR\tTITLE")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", rec.Slug, rec.Kind, rec.ReleaseYear, rec.Title)
	}
	return tw.Flush()
}

func newCatalogVerifyCmd(opts *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run an integrity check on the sqlite catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if mode != "quick" && mode != "full" {
				return fmt.Errorf("invalid --mode %q (want quick or full)", mode)
			}
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Catalog.Backend != config.CatalogSQLite {
				return fmt.Errorf("verify needs the sqlite backend, configured backend is %q", cfg.Catalog.Backend)
			}

			problems, err := sqlite.VerifyIntegrity(cmd.Context(), cfg.Catalog.Path, mode)
			if err != nil {
				return err
			}
			if len(problems) > 0 {
				return fmt.Errorf("catalog %s is damaged:\n  %s", cfg.Catalog.Path, strings.Join(problems, "\n  "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "catalog %s: ok (%s check)\n", cfg.Catalog.Path, mode)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "quick", "check depth: quick or full")
	return cmd
}
