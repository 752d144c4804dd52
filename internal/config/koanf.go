// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"steamlens.yaml",
	"steamlens.yml",
	"config.yaml",
	"/etc/steamlens/config.yaml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. The analytics constants match
// the published question definitions.
func defaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			CSVPath:       "steam_reviews.csv",
			SampleCSVPath: "steam_reviews_sample.csv",
			ReloadCSV:     true,
			MaxLineSize:   2 << 20,
		},
		Analytics: AnalyticsConfig{
			HighVolumeThreshold:   500000,
			DailyPlaytimeMinHours: 2.5,
			PlaytimeWindowDays:    14,
			TrendTopN:             10,
		},
		Database: DatabaseConfig{
			Path:                   "steam_reviews_db.duckdb",
			MaxMemory:              "4GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Export: ExportConfig{
			SQLitePath: "steam_reviews_samples_500.db",
		},
		RunLog: RunLogConfig{
			Enabled:      true,
			Path:         "steamlens-runs",
			HistoryLimit: 20,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			GraphLimit:      5,
			CacheTTL:        30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{},
			RateLimitReqs:     600,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration from defaults, the config file and the environment.
// A non-empty path takes precedence over CONFIG_PATH and DefaultConfigPaths;
// unlike those, it must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values from env vars to slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps whitelisted environment variables (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Pipeline
	"steam_reviews_csv":     "pipeline.csv_path",
	"steam_sample_csv":      "pipeline.sample_csv_path",
	"reload_csv":            "pipeline.reload_csv",
	"csv_max_line_size":     "pipeline.max_line_size",
	"high_volume_threshold": "analytics.high_volume_threshold",
	"daily_playtime_min":    "analytics.daily_playtime_min_hours",
	"playtime_window_days":  "analytics.playtime_window_days",
	"trend_top_n":           "analytics.trend_top_n",
	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"sqlite_export_path":    "export.sqlite_path",
	"runlog_enabled":        "runlog.enabled",
	"runlog_path":           "runlog.path",
	"runlog_history_limit":  "runlog.history_limit",
	"metrics_textfile_path": "metrics.textfile_path",
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"graph_limit":           "server.graph_limit",
	"cache_ttl":             "server.cache_ttl",
	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so the process environment
// cannot pollute the configuration.
//
// Examples:
//   - STEAM_REVIEWS_CSV -> pipeline.csv_path
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
