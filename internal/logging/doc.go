// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package logging provides centralized zerolog-based structured logging for steamlens.
//
// Both processes (the ETL job and the dashboard server) share one global
// logger configured once from main via Init. JSON output is the default;
// console output is available for interactive runs.
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "console",
//	})
//
//	logging.Info().Str("table", "question4").Int64("rows", n).Msg("Materialized query table")
//	logging.Error().Err(err).Str("table", name).Msg("Export failed")
//
// # Context Fields
//
// The ETL job tags every log line of a run with its run ID:
//
//	ctx = logging.ContextWithRunID(ctx, run.ID)
//	logging.Ctx(ctx).Info().Msg("Stage started")
//
// HTTP handlers get request_id and correlation_id from the request-ID
// middleware and log through logging.Ctx(r.Context()).
//
// # Configuration
//
// Environment Variables (through the config package):
//
//	LOGGING_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOGGING_FORMAT  - json, console (default: json)
//	LOGGING_CALLER  - include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// event is never written.
package logging
