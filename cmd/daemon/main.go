// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command daemon runs the StreamFLIX back end and its operator tooling.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/streamflix/internal/config"
	xglog "github.com/ManuGH/streamflix/internal/log"
	"github.com/ManuGH/streamflix/internal/version"
)

// envConfigPath names the config file when --config is not given.
const envConfigPath = "STREAMFLIX_CONFIG"

type rootOptions struct {
	configPath string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "streamflix",
		Short:         "StreamFLIX playback resolver, streaming proxy and catalog API",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(version.String() + "\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (YAML), defaults to $"+envConfigPath)

	root.AddCommand(
		newServeCmd(opts),
		newResolveCmd(opts),
		newCatalogCmd(opts),
		newHealthcheckCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig resolves the config path and loads ENV > file > defaults.
// The process logger is reconfigured from the result.
func loadConfig(opts *rootOptions) (config.AppConfig, string, error) {
	path := strings.TrimSpace(opts.configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(envConfigPath))
	}
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		return config.AppConfig{}, path, fmt.Errorf("load config: %w", err)
	}
	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	return cfg, path, nil
}
