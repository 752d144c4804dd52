// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package store is the read side of the exported SQLite file.
//
// The dashboard API never touches DuckDB. It opens the file written by the
// export stage read-only and serves each of the eleven sample tables in full
// with an unfiltered SELECT *; every table holds at most 500 rows, so there is
// no pagination and all filtering happens in the client.
//
// Only the eleven exported table names are accepted (ErrUnknownTable). A
// known name that is absent from the file, for example after a partial
// export, yields ErrMissingTable, which the API reports as a 404 instead of
// failing the process.
package store
