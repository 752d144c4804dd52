// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package services adapts dashboard components to suture's
// Serve(ctx) error contract: the HTTP server (ListenAndServe/Shutdown) and an
// fsnotify watcher that clears the store's read cache after an ETL run
// rewrites the export file.
package services
