// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Database  DatabaseConfig  `koanf:"database"`
	Export    ExportConfig    `koanf:"export"`
	RunLog    RunLogConfig    `koanf:"runlog"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// PipelineConfig holds ETL input settings.
type PipelineConfig struct {
	CSVPath       string `koanf:"csv_path" validate:"required"`
	SampleCSVPath string `koanf:"sample_csv_path" validate:"required"`
	// ReloadCSV re-reads the CSV even when steam_reviews is already persisted.
	ReloadCSV   bool `koanf:"reload_csv"`
	MaxLineSize int  `koanf:"max_line_size" validate:"min=1"`
}

// AnalyticsConfig holds the tunable constants of the query suite.
type AnalyticsConfig struct {
	HighVolumeThreshold   int64   `koanf:"high_volume_threshold" validate:"min=0"`
	DailyPlaytimeMinHours float64 `koanf:"daily_playtime_min_hours" validate:"gte=0"`
	PlaytimeWindowDays    int     `koanf:"playtime_window_days" validate:"min=1"`
	TrendTopN             int     `koanf:"trend_top_n" validate:"min=1,max=1000"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path" validate:"required"`
	MaxMemory              string `koanf:"max_memory" validate:"required"`
	Threads                int    `koanf:"threads" validate:"min=0"` // 0 = use NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// ExportConfig holds the SQLite export target.
type ExportConfig struct {
	SQLitePath string `koanf:"sqlite_path" validate:"required"`
}

// RunLogConfig holds the BadgerDB run history settings.
type RunLogConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Path         string `koanf:"path"`
	HistoryLimit int    `koanf:"history_limit" validate:"min=1,max=1000"`
}

// ServerConfig holds dashboard HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// GraphLimit is the default number of reviews drawn into the review graph.
	GraphLimit int `koanf:"graph_limit" validate:"min=1,max=500"`
	// CacheTTL bounds how long table reads are served from memory; 0 disables.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`
}

// SecurityConfig holds CORS and rate limiting settings for the dashboard API.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// TextfilePath, when set, receives the registry after each ETL run in
	// node_exporter textfile format.
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
