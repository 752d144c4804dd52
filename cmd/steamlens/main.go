// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package main is the steamlens command.
//
// steamlens loads a Steam reviews CSV into DuckDB, computes the ten question
// tables, samples every table down to at most 500 rows and exports the eleven
// sample tables to a SQLite file that the dashboard API serves read-only.
//
// # Commands
//
//	steamlens run      [--config path] [--reload=true|false]        run the ETL pipeline once
//	steamlens serve    [--config path]                              serve the exported tables over HTTP
//	steamlens history  [--config path] [-n 10] [--json] [--id run]  list recorded pipeline runs
//	steamlens version
//
// `run` and `serve` are separate processes. Nothing prevents running them at
// the same time; the server clears its read cache when the export file
// changes.
//
// # Configuration
//
// Configuration is loaded via koanf with layered sources (highest wins):
//   - Environment variables (STEAM_REVIEWS_CSV, DUCKDB_PATH, SQLITE_EXPORT_PATH, HTTP_PORT, ...)
//   - Config file (--config, CONFIG_PATH, steamlens.yaml or config.yaml)
//   - Built-in defaults
//
// # Exit codes
//
//	0  success
//	1  failure (missing input, schema mismatch, server error)
//	2  usage error
//	3  run finished with partial export
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/metrics"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitPartial = 3
)

var (
	// errPartial marks a run whose export skipped at least one table.
	errPartial = errors.New("export incomplete")
	errUsage   = errors.New("a command is required")
)

// app is the state shared by the sub-commands of one invocation.
type app struct {
	configPath string
	// started is set once a command body runs; errors before that are
	// argument or flag errors.
	started bool
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line in args and maps the outcome to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errPartial):
		return exitPartial
	case errors.Is(err, errUsage) || !a.started:
		fmt.Fprintf(stderr, "steamlens: %v\nRun 'steamlens --help' for usage.\n", err)
		return exitUsage
	default:
		logging.Err(err).Msg("Command failed")
		return exitFailure
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "steamlens",
		Short: "Steam review analytics pipeline and dashboard API",
		Long: `steamlens loads a Steam reviews CSV into DuckDB, computes the question
tables, samples them to at most 500 rows, exports the samples to SQLite and
serves them read-only over HTTP.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newRunCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and initializes logging and build metrics. Every
// command body calls it first.
func (a *app) setup() (*config.Config, error) {
	a.started = true

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	logging.Debug().
		Str("version", version).
		Str("config", a.configPath).
		Str("duckdb", cfg.Database.Path).
		Str("sqlite", cfg.Export.SQLitePath).
		Msg("Configuration loaded")
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "steamlens", version)
		},
	}
}
