// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/steamlens/internal/database/query"
	"github.com/tomtom215/steamlens/internal/logging"
)

// DefaultMaxLineSize is the read_csv_auto line limit, DuckDB's own 2MB
// default. The CSV reader buffers about 16 lines of this size, so raising it
// needs a matching database.max_memory.
const DefaultMaxLineSize = 2 << 20

// csvSource renders a read_csv_auto table function. Paths are inlined as
// literals because table functions do not take bound parameters.
func csvSource(path string, maxLineSize int) string {
	if maxLineSize <= 0 {
		maxLineSize = DefaultMaxLineSize
	}
	return fmt.Sprintf("read_csv_auto(%s, max_line_size=%d)", query.QuoteLiteral(path), maxLineSize)
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrMissingInput, path)
	}
	return nil
}

// LoadReviewsCSV materialises steam_reviews from the CSV at path, keeping
// only ReviewColumns. The header is checked before any data is read.
func (db *DB) LoadReviewsCSV(ctx context.Context, path string, maxLineSize int) (int64, error) {
	if err := requireFile(path); err != nil {
		return 0, err
	}

	src := csvSource(path, maxLineSize)
	cols, err := db.describe(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	if err := checkColumns(path, cols, ReviewColumns); err != nil {
		return 0, err
	}

	start := time.Now()
	stmt := query.CreateOrReplaceTableAs(ReviewsTable,
		fmt.Sprintf("SELECT %s FROM %s", query.QuoteIdents(ReviewColumns), src))
	if err := db.exec(ctx, "load_csv", ReviewsTable, stmt); err != nil {
		return 0, err
	}

	rows, err := db.RowCount(ctx, ReviewsTable)
	if err != nil {
		return 0, err
	}
	logging.Ctx(ctx).Info().
		Str("path", path).
		Int64("rows", rows).
		Dur("duration", time.Since(start)).
		Msg("Loaded reviews CSV")
	return rows, nil
}

// EnsureReviews loads the CSV unless reload is false and steam_reviews is
// already persisted. The bool result reports whether the existing table was
// reused.
func (db *DB) EnsureReviews(ctx context.Context, path string, maxLineSize int, reload bool) (int64, bool, error) {
	if !reload {
		exists, err := db.TableExists(ctx, ReviewsTable)
		if err != nil {
			return 0, false, err
		}
		if exists {
			if err := db.RequireColumns(ctx, ReviewsTable, ReviewColumns); err != nil {
				return 0, false, err
			}
			rows, err := db.RowCount(ctx, ReviewsTable)
			if err != nil {
				return 0, false, err
			}
			logging.Ctx(ctx).Info().Int64("rows", rows).Msg("Reusing persisted steam_reviews, CSV reload disabled")
			return rows, true, nil
		}
	}
	rows, err := db.LoadReviewsCSV(ctx, path, maxLineSize)
	return rows, false, err
}

// ExportSampleCSV writes up to limit random rows of source to a CSV file
// with a header row.
func (db *DB) ExportSampleCSV(ctx context.Context, source, path string, limit int) error {
	if err := db.requireTable(ctx, source); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	stmt := fmt.Sprintf("COPY (%s) TO %s (HEADER, DELIMITER ',')",
		query.SelectRandom(source, limit), query.QuoteLiteral(path))
	if err := db.exec(ctx, "copy_csv", source, stmt); err != nil {
		return err
	}
	logging.Ctx(ctx).Debug().Str("source", source).Str("path", path).Int("limit", limit).Msg("Wrote sample CSV")
	return nil
}

// LoadSampleCSV replaces table with the contents of the CSV at path.
func (db *DB) LoadSampleCSV(ctx context.Context, path, table string, maxLineSize int) (int64, error) {
	if err := requireFile(path); err != nil {
		return 0, err
	}
	stmt := query.CreateOrReplaceTableAs(table, "SELECT * FROM "+csvSource(path, maxLineSize))
	if err := db.exec(ctx, "load_csv", table, stmt); err != nil {
		return 0, err
	}
	return db.RowCount(ctx, table)
}

// BuildRawSample runs the raw sample round trip: a random sample of
// steam_reviews is written to csvPath and read back as steam_reviews_sample_500.
func (db *DB) BuildRawSample(ctx context.Context, csvPath string, maxLineSize int) (int64, error) {
	if err := db.ExportSampleCSV(ctx, ReviewsTable, csvPath, SampleLimit); err != nil {
		return 0, err
	}
	rows, err := db.LoadSampleCSV(ctx, csvPath, RawSampleTable, maxLineSize)
	if err != nil {
		return 0, err
	}
	logging.Ctx(ctx).Info().Str("table", RawSampleTable).Int64("rows", rows).Msg("Built raw sample")
	return rows, nil
}
