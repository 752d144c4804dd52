// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/steamlens/internal/database/query"
	"github.com/tomtom215/steamlens/internal/logging"
)

// TableResult reports one materialised table.
type TableResult struct {
	Table    string
	Rows     int64
	Duration time.Duration
}

// SampleTable replaces target with up to limit uniformly random rows of
// source and returns the sample size, min(limit, rows in source).
func (db *DB) SampleTable(ctx context.Context, source, target string, limit int) (int64, error) {
	if limit < 0 {
		return 0, fmt.Errorf("sample limit must be non-negative, got %d", limit)
	}
	if err := db.requireTable(ctx, source); err != nil {
		return 0, err
	}
	if err := db.exec(ctx, "sample", target, query.RandomSample(source, target, limit)); err != nil {
		return 0, err
	}
	return db.RowCount(ctx, target)
}

// SampleQueryTables samples every question table into its _samples_500 table.
// The first failure stops the loop.
func (db *DB) SampleQueryTables(ctx context.Context) ([]TableResult, error) {
	defs := Definitions()
	results := make([]TableResult, 0, len(defs))
	for _, def := range defs {
		start := time.Now()
		target := SampleTableName(def.Table)
		rows, err := db.SampleTable(ctx, def.Table, target, SampleLimit)
		if err != nil {
			return results, fmt.Errorf("sample %s: %w", def.Table, err)
		}
		res := TableResult{Table: target, Rows: rows, Duration: time.Since(start)}
		results = append(results, res)
		logging.Ctx(ctx).Info().
			Str("table", target).
			Int64("rows", rows).
			Dur("duration", res.Duration).
			Msg("Sampled question table")
	}
	return results, nil
}
