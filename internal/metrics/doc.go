// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package metrics provides Prometheus instrumentation for steamlens.

All collectors are registered on the default registry via promauto.

# Process Roles

The dashboard server (`steamlens serve`) exposes the registry at /metrics.
The ETL job (`steamlens run`) is a batch process that exits when done, so
instead of being scraped it writes the registry once, at the end of a run, to
a node_exporter textfile (WriteTextfile) when metrics.textfile_path is set.

# Available Metrics

Pipeline:
  - steamlens_pipeline_runs_total{status}
  - steamlens_pipeline_stage_duration_seconds{stage}
  - steamlens_pipeline_stage_failures_total{stage}
  - steamlens_pipeline_last_success_timestamp_seconds
  - steamlens_table_rows{table}

DuckDB:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}

Export:
  - steamlens_export_tables_total{result}
  - steamlens_export_rows_total

SQLite store (dashboard):
  - sqlite_query_duration_seconds{operation,table}

API:
  - api_requests_total{method,endpoint,status_code}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

System:
  - app_info{version,go_version}
  - app_uptime_seconds
*/
package metrics
