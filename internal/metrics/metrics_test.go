// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// histogramCount returns the number of observations of one histogram child.
func histogramCount(t *testing.T, obs prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := obs.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", obs)
	}
	var m io_prometheus_client.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		table     string
		err       error
		wantType  string
		wantError bool
	}{
		{name: "success", table: "question1_1"},
		{name: "timeout", table: "question1_2", err: fmt.Errorf("ctas: %w", context.DeadlineExceeded), wantType: "timeout", wantError: true},
		{name: "canceled", table: "question1_3", err: context.Canceled, wantType: "canceled", wantError: true},
		{name: "other", table: "question2_1", err: errors.New("Binder Error: column not found"), wantType: "query", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery("ctas", tt.table, 10*time.Millisecond, tt.err)
			if !tt.wantError {
				return
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("ctas", tt.table, tt.wantType))
			if got != 1 {
				t.Errorf("duckdb_query_errors_total{error_type=%q} = %v, want 1", tt.wantType, got)
			}
		})
	}
}

func TestRecordStoreQuery(t *testing.T) {
	obs := StoreQueryDuration.WithLabelValues("read_table", "question5_samples_500")
	before := histogramCount(t, obs)
	RecordStoreQuery("read_table", "question5_samples_500", 2*time.Millisecond)
	RecordStoreQuery("read_table", "question5_samples_500", 4*time.Millisecond)
	if d := histogramCount(t, obs) - before; d != 2 {
		t.Errorf("observations delta = %d, want 2", d)
	}
}

func TestRecordStage(t *testing.T) {
	durBefore := histogramCount(t, PipelineStageDuration.WithLabelValues("export"))
	before := testutil.ToFloat64(PipelineStageFailures.WithLabelValues("export"))
	RecordStage("export", time.Second, nil)
	RecordStage("export", time.Second, errors.New("disk full"))
	after := testutil.ToFloat64(PipelineStageFailures.WithLabelValues("export"))
	if after-before != 1 {
		t.Errorf("stage failures delta = %v, want 1", after-before)
	}
	if d := histogramCount(t, PipelineStageDuration.WithLabelValues("export")) - durBefore; d != 2 {
		t.Errorf("stage duration observations delta = %d, want 2", d)
	}
}

func TestRecordRun(t *testing.T) {
	finished := time.Unix(1700000000, 0)
	RecordRun("succeeded", finished, true)
	if got := testutil.ToFloat64(PipelineLastSuccess); got != 1700000000 {
		t.Errorf("last success = %v", got)
	}
	RecordRun("failed", finished.Add(time.Hour), false)
	if got := testutil.ToFloat64(PipelineLastSuccess); got != 1700000000 {
		t.Errorf("failed run must not move last success, got %v", got)
	}
}

func TestRecordExportTable(t *testing.T) {
	okBefore := testutil.ToFloat64(ExportTablesTotal.WithLabelValues("ok"))
	failedBefore := testutil.ToFloat64(ExportTablesTotal.WithLabelValues("failed"))
	rowsBefore := testutil.ToFloat64(ExportRowsTotal)

	RecordExportTable(500, nil)
	RecordExportTable(0, errors.New("locked"))

	if d := testutil.ToFloat64(ExportTablesTotal.WithLabelValues("ok")) - okBefore; d != 1 {
		t.Errorf("ok delta = %v", d)
	}
	if d := testutil.ToFloat64(ExportTablesTotal.WithLabelValues("failed")) - failedBefore; d != 1 {
		t.Errorf("failed delta = %v", d)
	}
	if d := testutil.ToFloat64(ExportRowsTotal) - rowsBefore; d != 500 {
		t.Errorf("rows delta = %v", d)
	}
}

func TestSetTableRows(t *testing.T) {
	SetTableRows("question4", 120)
	if got := testutil.ToFloat64(TableRows.WithLabelValues("question4")); got != 120 {
		t.Errorf("table rows = %v", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if d := testutil.ToFloat64(APIActiveRequests) - before; d != 1 {
		t.Errorf("active delta = %v, want 1", d)
	}
	TrackActiveRequest(false)
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/tables/{name}", "404", 3*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/tables/{name}", "404")); got < 1 {
		t.Errorf("requests = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	SetTableRows("steam_reviews", 42)
	path := filepath.Join(t.TempDir(), "steamlens.prom")

	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `steamlens_table_rows{table="steam_reviews"} 42`) {
		t.Errorf("textfile missing table rows sample:\n%s", b)
	}
}

func TestWriteTextfile_BadDir(t *testing.T) {
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMetricGathering(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint: %s: %s", p.Metric, p.Text)
	}
}
