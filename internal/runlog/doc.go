// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package runlog persists the history of ETL runs in BadgerDB.
//
// Each run is one JSON value under
//
//	run:<start time, UTC, fixed-width nanoseconds>:<run id>
//
// so a reverse key iteration yields runs newest first. A secondary key
// id:<run id> points back at the run key for lookups by id. A run is saved
// when it starts (status running) and again when it finishes, overwriting
// the same key.
//
// Only the run and history commands open the log; the dashboard server never
// does, so the two processes never contend for Badger's directory lock.
package runlog
