// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package database is the DuckDB layer of the steamlens ETL job.
//
// # Overview
//
// A single DuckDB file holds the raw steam_reviews table, its 500-row sample,
// the ten question tables and their samples. Every derived table is rebuilt
// wholesale with CREATE OR REPLACE on each run, so a rerun after a failure is
// always safe.
//
// # Architecture
//
//   - database.go: connection lifecycle (one connection, no pool)
//   - errors.go: ErrMissingInput, ErrMissingSource, SchemaError
//   - schema.go: table catalogue, DESCRIBE-based column checks, row iteration
//   - ingest.go: CSV load, sample CSV round trip
//   - sampler.go: ORDER BY RANDOM() LIMIT n materialisation
//   - analytics_suite.go: QueryDefinition and RunQuerySuite
//   - analytics_reviews.go, analytics_playtime.go, analytics_language.go,
//     analytics_trends.go, analytics_demographics.go: the ten question
//     definitions and their typed readers
//   - analytics_helpers.go: shared scan helpers
//
// # Failure Semantics
//
// Missing inputs and tables fail loudly. Queries never run against an absent
// steam_reviews table; they fail with ErrMissingSource instead of producing
// empty results. A CSV or table lacking an expected column fails with a
// *SchemaError naming the table and column.
//
// # Concurrency
//
// The ETL job is sequential. DB holds exactly one DuckDB connection and is
// not meant to be shared between goroutines running different stages.
package database
