// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package export copies the sampled DuckDB tables into the portable SQLite
// file read by the dashboard API.
//
// Each table is copied in its own SQLite transaction: the old table is
// dropped, recreated from the DuckDB column types, and filled through a
// prepared INSERT. A failure on one table is logged and recorded in the
// Report and the exporter moves on to the next one, so the SQLite file can
// end up holding a mix of fresh and stale (or missing) tables. That state is
// accepted: the job is offline and rerun on demand, and a rerun replaces
// every table again.
//
// Type mapping:
//
//	DuckDB                               SQLite
//	TINYINT..BIGINT, UTINYINT..UBIGINT   INTEGER
//	HUGEINT                              INTEGER (TEXT if it overflows int64)
//	FLOAT, DOUBLE, DECIMAL(p,s)          REAL
//	BOOLEAN                              INTEGER 0/1
//	DATE, TIMESTAMP[_TZ], TIME           TEXT (RFC 3339)
//	VARCHAR and anything else            TEXT
package export
