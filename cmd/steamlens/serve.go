// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/steamlens/internal/api"
	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/store"
	"github.com/tomtom215/steamlens/internal/supervisor"
	"github.com/tomtom215/steamlens/internal/supervisor/services"
)

// exportSettleDelay is how long the export file must be quiet before the read
// cache is cleared.
const exportSettleDelay = 500 * time.Millisecond

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the exported tables over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.setup()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// serve runs the dashboard API over the exported SQLite file until SIGINT
// or SIGTERM.
func serve(ctx context.Context, cfg *config.Config) error {
	st, err := store.Open(cfg.Export.SQLitePath, store.Options{CacheTTL: cfg.Server.CacheTTL})
	if err != nil {
		if errors.Is(err, store.ErrMissingStore) {
			return fmt.Errorf("%w (run `steamlens run` first)", err)
		}
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Err(err).Msg("Error closing export store")
		}
	}()

	available, err := st.AvailableTables(ctx)
	if err != nil {
		return err
	}
	logging.Info().
		Str("sqlite", st.Path()).
		Int("tables", len(available)).
		Dur("cache_ttl", cfg.Server.CacheTTL).
		Msg("Export store opened")
	if n := len(store.ListTables()); len(available) < n {
		logging.Warn().
			Int("present", len(available)).
			Int("expected", n).
			Msg("Export store is incomplete; missing tables will be reported to the dashboard")
	}

	handler := api.NewHandler(st, cfg, version)
	router := api.NewRouter(handler, cfg.Security)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewExportWatcherService(st.Path(), st, exportSettleDelay))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}
