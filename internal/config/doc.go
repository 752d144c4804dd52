// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package config loads steamlens configuration with Koanf v2.
//
// Sources are layered with the highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: the --config flag, CONFIG_PATH, or the first of
//     DefaultConfigPaths that exists
//  3. Whitelisted environment variables (see envMappings)
//
// The same Config is shared by the ETL job (`steamlens run`), the run
// history viewer (`steamlens history`) and the dashboard server
// (`steamlens serve`); each reads only the sections it needs.
//
// Example YAML:
//
//	pipeline:
//	  csv_path: /data/steam_reviews.csv
//	  reload_csv: false
//	analytics:
//	  high_volume_threshold: 500000
//	database:
//	  path: /data/steam_reviews_db.duckdb
//	export:
//	  sqlite_path: /data/steam_reviews_samples_500.db
//	server:
//	  port: 8501
package config
