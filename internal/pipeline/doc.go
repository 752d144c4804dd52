// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package pipeline runs the steamlens ETL job.

A run executes five stages in order on one DuckDB connection:

	ingest      CSV -> steam_reviews (or reuse it when reload_csv is false)
	raw_sample  steam_reviews -> sample CSV -> steam_reviews_sample_500
	queries     steam_reviews -> question1_1 .. question5
	samples     question tables -> *_samples_500
	export      raw sample + ten question samples -> SQLite

Any error in the first four stages aborts the run. Export failures are
per-table: the remaining tables are still exported and the run finishes with
status "partial". There are no retries; every table is rebuilt by
replacement, so rerunning after a fix is always safe.

Each run is described by a models.RunRecord that is saved to the run log
(when one is configured) at start and at finish, and each stage is observed
in Prometheus. Because the job is short-lived, the registry can be written to
a node_exporter textfile once the run ends.
*/
package pipeline
