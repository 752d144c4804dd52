// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package models

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusPartial   = "partial" // export finished with table failures
	RunStatusFailed    = "failed"
)

// StageResult records one pipeline stage.
type StageResult struct {
	Name       string           `json:"name"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
	Rows       map[string]int64 `json:"rows,omitempty"` // table -> row count
	Skipped    bool             `json:"skipped,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// RunRecord is one ETL execution as stored in the run log.
type RunRecord struct {
	ID         string        `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Status     string        `json:"status"`
	CSVPath    string        `json:"csv_path"`
	DuckDBPath string        `json:"duckdb_path"`
	SQLitePath string        `json:"sqlite_path"`
	Stages     []StageResult `json:"stages"`
	Error      string        `json:"error,omitempty"`
}

// Duration returns the wall time of a finished run, or zero.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Stage returns the named stage result, or nil.
func (r *RunRecord) Stage(name string) *StageResult {
	for i := range r.Stages {
		if r.Stages[i].Name == name {
			return &r.Stages[i]
		}
	}
	return nil
}
