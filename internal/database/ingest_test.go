// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/steamlens/internal/config"
)

func TestLoadReviewsCSV(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	path := writeReviewsCSV(t, []reviewFixture{
		{AppID: 1, AppName: "Alpha", Recommended: true},
		{AppID: 1, AppName: "Alpha"},
		{AppID: 2, AppName: "Beta, the Sequel", Recommended: true},
	}, nil)

	rows, err := db.LoadReviewsCSV(ctx, path, testMaxLineSize)
	if err != nil {
		t.Fatalf("LoadReviewsCSV() error = %v", err)
	}
	if rows != 3 {
		t.Errorf("rows = %d, want 3", rows)
	}

	cols, err := db.DescribeTable(ctx, ReviewsTable)
	if err != nil {
		t.Fatal(err)
	}
	if len(cols) != len(ReviewColumns) {
		t.Fatalf("steam_reviews has %d columns, want %d", len(cols), len(ReviewColumns))
	}
	for i, c := range cols {
		if c.Name != ReviewColumns[i] {
			t.Errorf("column %d = %q, want %q", i, c.Name, ReviewColumns[i])
		}
		if c.Name == "review" {
			t.Error("free-text review column must be dropped")
		}
	}

	// Reloading replaces rather than appends.
	if rows, err = db.LoadReviewsCSV(ctx, path, testMaxLineSize); err != nil || rows != 3 {
		t.Errorf("reload = %d, %v", rows, err)
	}
}

func TestLoadReviewsCSV_MissingInput(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.LoadReviewsCSV(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), testMaxLineSize)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
	if !strings.Contains(err.Error(), "absent.csv") {
		t.Errorf("error %q should name the path", err)
	}
	if !IsFatal(err) {
		t.Error("missing input must be fatal")
	}
}

func TestLoadReviewsCSV_SchemaMismatch(t *testing.T) {
	db := setupTestDB(t)

	var header []string
	for _, c := range ReviewColumns {
		if c == ColAuthorSteamID {
			c = "author.steam_id" // renamed upstream
		}
		header = append(header, c)
	}
	path := writeReviewsCSV(t, []reviewFixture{{AppID: 1, AppName: "Alpha"}}, header)

	_, err := db.LoadReviewsCSV(context.Background(), path, testMaxLineSize)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if schemaErr.Column != ColAuthorSteamID || schemaErr.Table != path {
		t.Errorf("SchemaError = %+v", schemaErr)
	}
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("SchemaError should match ErrSchemaMismatch")
	}

	exists, err := db.TableExists(context.Background(), ReviewsTable)
	if err != nil || exists {
		t.Errorf("steam_reviews must not be created on schema mismatch (exists=%v, err=%v)", exists, err)
	}
}

func TestEnsureReviews(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	path := writeReviewsCSV(t, []reviewFixture{{AppID: 1, AppName: "Alpha"}, {AppID: 2, AppName: "Beta"}}, nil)

	// Nothing persisted yet: reload=false still loads.
	rows, skipped, err := db.EnsureReviews(ctx, path, testMaxLineSize, false)
	if err != nil || skipped || rows != 2 {
		t.Fatalf("first EnsureReviews() = %d, %v, %v", rows, skipped, err)
	}

	// Persisted table is reused even if the CSV disappears.
	missing := filepath.Join(t.TempDir(), "gone.csv")
	rows, skipped, err = db.EnsureReviews(ctx, missing, testMaxLineSize, false)
	if err != nil || !skipped || rows != 2 {
		t.Fatalf("second EnsureReviews() = %d, %v, %v", rows, skipped, err)
	}

	// reload=true always reads the CSV.
	if _, _, err = db.EnsureReviews(ctx, missing, testMaxLineSize, true); !errors.Is(err, ErrMissingInput) {
		t.Fatalf("reload EnsureReviews() error = %v, want ErrMissingInput", err)
	}
}

func TestBuildRawSample(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	fixtures := make([]reviewFixture, 0, 20)
	for i := 0; i < 20; i++ {
		fixtures = append(fixtures, reviewFixture{AppID: int64(i % 4), AppName: "App", Recommended: i%2 == 0, Playtime: float64(i)})
	}
	loadFixtures(t, db, fixtures)

	csvPath := filepath.Join(t.TempDir(), "out", "steam_reviews_sample.csv")
	rows, err := db.BuildRawSample(ctx, csvPath, testMaxLineSize)
	if err != nil {
		t.Fatalf("BuildRawSample() error = %v", err)
	}
	if rows != 20 {
		t.Errorf("rows = %d, want min(500, 20) = 20", rows)
	}
	if err := db.RequireColumns(ctx, RawSampleTable, ReviewColumns); err != nil {
		t.Errorf("raw sample lost columns in CSV round trip: %v", err)
	}
}

func TestExportSampleCSV_MissingSource(t *testing.T) {
	db := setupTestDB(t)

	err := db.ExportSampleCSV(context.Background(), ReviewsTable, filepath.Join(t.TempDir(), "s.csv"), SampleLimit)
	if !errors.Is(err, ErrMissingSource) {
		t.Fatalf("error = %v, want ErrMissingSource", err)
	}
}

func TestLoadSampleCSV_MissingInput(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.LoadSampleCSV(context.Background(), filepath.Join(t.TempDir(), "s.csv"), RawSampleTable, testMaxLineSize)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("error = %v, want ErrMissingInput", err)
	}
}

func TestLoadReviewsCSV_DefaultLineSizeFitsMemory(t *testing.T) {
	if !strings.Contains(csvSource("r.csv", 0), "max_line_size=2097152") {
		t.Errorf("csvSource default = %q, want DuckDB's 2MB line limit", csvSource("r.csv", 0))
	}

	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	path := writeReviewsCSV(t, []reviewFixture{{AppID: 1, AppName: "Alpha"}}, nil)
	rows, err := db.LoadReviewsCSV(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("LoadReviewsCSV() with default line size at 256MB error = %v", err)
	}
	if rows != 1 {
		t.Errorf("rows = %d, want 1", rows)
	}
}
