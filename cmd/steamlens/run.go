// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/database"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/models"
	"github.com/tomtom215/steamlens/internal/pipeline"
	"github.com/tomtom215/steamlens/internal/runlog"
)

func newRunCmd(a *app) *cobra.Command {
	var reload bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ETL pipeline once",
		Long: `Run ingests the CSV into DuckDB, builds the question tables and their
500-row samples, and exports the samples to the SQLite file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.setup()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("reload") {
				cfg.Pipeline.ReloadCSV = reload
			}
			return runPipeline(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", false, "re-read the CSV even when steam_reviews is persisted (overrides pipeline.reload_csv)")
	return cmd
}

// runPipeline executes one ETL run: ingest, raw sample, query suite,
// samples and export.
func runPipeline(ctx context.Context, cfg *config.Config, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Err(err).Msg("Error closing database")
		}
	}()

	// A nil *runlog.Store must not become a non-nil interface.
	var recorder runlog.Recorder
	if cfg.RunLog.Enabled {
		rl, err := runlog.Open(cfg.RunLog.Path)
		if err != nil {
			return fmt.Errorf("open run log: %w", err)
		}
		defer func() {
			if err := rl.Close(); err != nil {
				logging.Err(err).Msg("Error closing run log")
			}
		}()
		recorder = rl
	}

	run, err := pipeline.NewRunner(cfg, db, recorder).Run(ctx)
	if run != nil {
		printRun(out, run)
	}
	if err != nil {
		return err
	}
	if run.Status == models.RunStatusPartial {
		return fmt.Errorf("%w: see failed tables above", errPartial)
	}
	return nil
}
