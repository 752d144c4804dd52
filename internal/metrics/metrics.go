// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline Metrics
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamlens_pipeline_runs_total",
			Help: "Total number of ETL runs by final status",
		},
		[]string{"status"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steamlens_pipeline_stage_duration_seconds",
			Help:    "Duration of ETL stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"stage"},
	)

	PipelineStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamlens_pipeline_stage_failures_total",
			Help: "Total number of failed ETL stages",
		},
		[]string{"stage"},
	)

	PipelineLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "steamlens_pipeline_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful ETL run",
		},
	)

	TableRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steamlens_table_rows",
			Help: "Row count of materialised tables after the last run",
		},
		[]string{"table"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB statements in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB statement errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Export Metrics
	ExportTablesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamlens_export_tables_total",
			Help: "Total number of tables exported to SQLite by result",
		},
		[]string{"result"}, // "ok", "failed"
	)

	ExportRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "steamlens_export_rows_total",
			Help: "Total number of rows written to SQLite",
		},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlite_query_duration_seconds",
			Help:    "Duration of dashboard SQLite reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records one DuckDB statement.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, errorType(err)).Inc()
	}
}

// RecordStoreQuery records one dashboard SQLite read.
func RecordStoreQuery(operation, table string, duration time.Duration) {
	StoreQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordStage records the outcome of one pipeline stage.
func RecordStage(stage string, duration time.Duration, err error) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		PipelineStageFailures.WithLabelValues(stage).Inc()
	}
}

// RecordRun records the final status of a pipeline run.
func RecordRun(status string, finished time.Time, succeeded bool) {
	PipelineRunsTotal.WithLabelValues(status).Inc()
	if succeeded {
		PipelineLastSuccess.Set(float64(finished.Unix()))
	}
}

// SetTableRows publishes the row count of a materialised table.
func SetTableRows(table string, rows int64) {
	TableRows.WithLabelValues(table).Set(float64(rows))
}

// RecordExportTable records one table copied (or not) to SQLite.
func RecordExportTable(rows int64, err error) {
	if err != nil {
		ExportTablesTotal.WithLabelValues("failed").Inc()
		return
	}
	ExportTablesTotal.WithLabelValues("ok").Inc()
	ExportRowsTotal.Add(float64(rows))
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// WriteTextfile writes the default registry in node_exporter textfile format.
// The file is written to a temporary name and renamed into place.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}

// errorType maps an error to a bounded label value.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "query"
	}
}
