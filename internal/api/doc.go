// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package api serves the exported review tables to the dashboard over HTTP.

The API is read-only. Every data endpoint returns the complete table (at most
500 rows) and leaves filtering to the client.

Endpoints:

	GET /api/v1/health/live       liveness check
	GET /api/v1/health/ready      readiness check (export file readable)
	GET /api/v1/tables            the eleven exported tables with titles
	GET /api/v1/tables/{name}     one table by exported name
	GET /api/v1/questions/{key}   one table by question key, e.g. quarterly-trend
	GET /api/v1/graph?limit=n     user -> review -> game network, 1 <= n <= 500
	GET /metrics                  Prometheus

Responses use the models.APIResponse envelope. A table missing from the export
file is reported as 404 with code MISSING_TABLE so the dashboard can show an
inline error for that widget and keep rendering the rest.

Middleware order: request ID, real IP, Prometheus metrics, panic recovery, CORS.
Data endpoints additionally pass through httprate and gzip compression.

Usage:

	st, err := store.Open(cfg.Export.SQLitePath, store.Options{CacheTTL: cfg.Server.CacheTTL})
	if err != nil {
	    return err
	}
	handler := api.NewHandler(st, cfg, version)
	router := api.NewRouter(handler, cfg.Security)
	srv := &http.Server{Addr: ":8501", Handler: router.Setup()}
*/
package api
