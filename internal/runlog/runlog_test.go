// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package runlog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/steamlens/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func makeRun(id string, started time.Time, status string) *models.RunRecord {
	return &models.RunRecord{
		ID:        id,
		StartedAt: started,
		Status:    status,
		Stages: []models.StageResult{
			{Name: "ingest", StartedAt: started, DurationMS: 12, Rows: map[string]int64{"steam_reviews": 42}},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	run := makeRun("run-1", started, models.RunStatusRunning)
	if err := s.Save(ctx, run); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Saving again with the same id and start replaces the record.
	run.Status = models.RunStatusSucceeded
	run.FinishedAt = started.Add(time.Minute)
	if err := s.Save(ctx, run); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "run-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.RunStatusSucceeded || got.Duration() != time.Minute {
		t.Errorf("Get() = %+v", got)
	}
	if st := got.Stage("ingest"); st == nil || st.Rows["steam_reviews"] != 42 {
		t.Errorf("ingest stage = %+v", st)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("List() = %d runs, want 1", len(all))
	}
}

func TestSave_Invalid(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, &models.RunRecord{StartedAt: time.Now()}); err == nil {
		t.Error("Save without id should fail")
	}
	if err := s.Save(ctx, &models.RunRecord{ID: "x"}); err == nil {
		t.Error("Save without start time should fail")
	}
}

func TestGet_NotFound(t *testing.T) {
	s := setupStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := s.Latest(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest() error = %v, want ErrNotFound", err)
	}
}

func TestListOrdering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Offsets chosen so naive RFC 3339 nanosecond strings would missort.
	offsets := []time.Duration{0, 500 * time.Millisecond, 120 * time.Millisecond, 2 * time.Second, time.Nanosecond}
	for i, off := range offsets {
		if err := s.Save(ctx, makeRun(fmt.Sprintf("r%d", i), base.Add(off), models.RunStatusSucceeded)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"r3", "r1", "r2", "r4", "r0"}
	if len(runs) != len(want) {
		t.Fatalf("List() = %d runs", len(runs))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d] = %s, want %s", i, runs[i].ID, id)
		}
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].ID != "r3" {
		t.Errorf("List(2) = %+v", limited)
	}

	latest, err := s.Latest(ctx)
	if err != nil || latest.ID != "r3" {
		t.Errorf("Latest() = %+v, %v", latest, err)
	}
}

func TestPrune(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := s.Save(ctx, makeRun(fmt.Sprintf("r%d", i), base.Add(time.Duration(i)*time.Hour), models.RunStatusSucceeded)); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := s.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	runs, _ := s.List(ctx, 0)
	if len(runs) != 2 || runs[0].ID != "r4" || runs[1].ID != "r3" {
		t.Errorf("remaining = %+v", runs)
	}
	if _, err := s.Get(ctx, "r0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("pruned run still reachable by id: %v", err)
	}

	if n, err := s.Prune(ctx, 10); err != nil || n != 0 {
		t.Errorf("Prune(10) = %d, %v", n, err)
	}
	if _, err := s.Prune(ctx, -1); err == nil {
		t.Error("Prune(-1) should fail")
	}
}

func TestOpen_Persistent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runs")
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Save(ctx, makeRun("persisted", time.Now(), models.RunStatusFailed)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.Get(ctx, "persisted")
	if err != nil || got.Status != models.RunStatusFailed {
		t.Errorf("Get() after reopen = %+v, %v", got, err)
	}
}
