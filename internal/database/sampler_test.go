// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"errors"
	"testing"
)

func TestSampleTable(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.conn.ExecContext(ctx, "CREATE TABLE big AS SELECT range AS id FROM range(600)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.conn.ExecContext(ctx, "CREATE TABLE small AS SELECT range AS id FROM range(3)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.conn.ExecContext(ctx, "CREATE TABLE empty (id BIGINT)"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		source string
		limit  int
		want   int64
	}{
		{"big", SampleLimit, 500},
		{"small", SampleLimit, 3},
		{"empty", SampleLimit, 0},
		{"big", 0, 0},
	}
	for _, tt := range tests {
		got, err := db.SampleTable(ctx, tt.source, tt.source+"_s", tt.limit)
		if err != nil {
			t.Fatalf("SampleTable(%s, %d) error = %v", tt.source, tt.limit, err)
		}
		if got != tt.want {
			t.Errorf("SampleTable(%s, %d) = %d, want %d", tt.source, tt.limit, got, tt.want)
		}
	}

	// Resampling replaces, never accumulates.
	if _, err := db.SampleTable(ctx, "big", "big_s", SampleLimit); err != nil {
		t.Fatal(err)
	}
	if _, err := db.SampleTable(ctx, "big", "big_s", SampleLimit); err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, db, `SELECT COUNT(*) FROM big_s`); n != 500 {
		t.Errorf("after resample big_s has %d rows, want 500", n)
	}
	// Sample rows are a subset of the source.
	if n := countRows(t, db, `SELECT COUNT(*) FROM big_s WHERE id NOT IN (SELECT id FROM big)`); n != 0 {
		t.Errorf("%d sampled rows are not in source", n)
	}
	if n := countRows(t, db, `SELECT COUNT(DISTINCT id) FROM big_s`); n != 500 {
		t.Errorf("sample has duplicate rows: %d distinct of 500", n)
	}
}

func TestSampleTable_Errors(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.SampleTable(ctx, "absent", "absent_s", SampleLimit); !errors.Is(err, ErrMissingSource) {
		t.Errorf("missing source error = %v", err)
	}
	if _, err := db.SampleTable(ctx, "absent", "absent_s", -1); err == nil {
		t.Error("negative limit should fail")
	}
}

func TestSampleQueryTables(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	loadFixtures(t, db, []reviewFixture{
		{AppID: 1, AppName: "Alpha", Recommended: true, Purchase: true, GamesOwned: 1, Playtime: 60, TwoWeeks: 2400},
		{AppID: 2, AppName: "Beta", Language: "german", Purchase: true, GamesOwned: 20, Playtime: 30},
		{AppID: 2, AppName: "Beta", Created: tsQ2, GamesOwned: 5, Playtime: 90},
	})

	// Before the suite has run there is nothing to sample.
	if _, err := db.SampleQueryTables(ctx); !errors.Is(err, ErrMissingSource) {
		t.Fatalf("SampleQueryTables() before suite error = %v", err)
	}

	if _, err := db.RunQuerySuite(ctx, DefaultQueryParams()); err != nil {
		t.Fatalf("RunQuerySuite() error = %v", err)
	}
	results, err := db.SampleQueryTables(ctx)
	if err != nil {
		t.Fatalf("SampleQueryTables() error = %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("results = %d, want 10", len(results))
	}
	for i, def := range Definitions() {
		want, err := db.RowCount(ctx, def.Table)
		if err != nil {
			t.Fatal(err)
		}
		if want > SampleLimit {
			want = SampleLimit
		}
		if results[i].Table != SampleTableName(def.Table) || results[i].Rows != want {
			t.Errorf("result %d = %+v, want %s with %d rows", i, results[i], SampleTableName(def.Table), want)
		}
	}
}
