// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tomtom215/steamlens/internal/validation"
)

// Validate checks field tags first, then rules that span sections.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.validateRunLog(); err != nil {
		return err
	}
	if err := c.validateLineSize(); err != nil {
		return err
	}
	return c.validatePaths()
}

// csvBufferLines is how many max_line_size buffers DuckDB's CSV reader
// allocates up front.
const csvBufferLines = 16

// validateLineSize rejects a CSV line limit whose read buffer cannot fit in
// the DuckDB memory limit.
func (c *Config) validateLineSize() error {
	limit, err := ParseMemorySize(c.Database.MaxMemory)
	if err != nil {
		return fmt.Errorf("database.max_memory: %w", err)
	}
	need := int64(c.Pipeline.MaxLineSize) * csvBufferLines
	if need > limit {
		return fmt.Errorf("pipeline.max_line_size %d needs about %d bytes of CSV buffer, more than database.max_memory %s",
			c.Pipeline.MaxLineSize, need, c.Database.MaxMemory)
	}
	return nil
}

var memoryUnits = []struct {
	suffix string
	mult   float64
}{
	// Longest suffixes first so "GIB" is not read as "B".
	{"KIB", 1 << 10}, {"MIB", 1 << 20}, {"GIB", 1 << 30}, {"TIB", 1 << 40},
	{"KB", 1e3}, {"MB", 1e6}, {"GB", 1e9}, {"TB", 1e12},
	{"K", 1e3}, {"M", 1e6}, {"G", 1e9}, {"T", 1e12},
	{"B", 1},
}

// ParseMemorySize parses a DuckDB memory setting such as "4GB", "512 MiB" or
// "1073741824" into bytes. Decimal units are powers of 1000 as in DuckDB.
func ParseMemorySize(s string) (int64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	mult := 1.0
	for _, u := range memoryUnits {
		if strings.HasSuffix(v, u.suffix) {
			v = strings.TrimSpace(strings.TrimSuffix(v, u.suffix))
			mult = u.mult
			break
		}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid memory size %q", s)
	}
	return int64(n * mult), nil
}

func (c *Config) validateRunLog() error {
	if c.RunLog.Enabled && c.RunLog.Path == "" {
		return fmt.Errorf("runlog.path is required when runlog.enabled is true")
	}
	return nil
}

// validatePaths rejects layouts where one output would clobber another.
func (c *Config) validatePaths() error {
	duck := filepath.Clean(c.Database.Path)
	if c.Database.Path != ":memory:" && duck == filepath.Clean(c.Export.SQLitePath) {
		return fmt.Errorf("export.sqlite_path must differ from database.path (%s)", c.Database.Path)
	}
	if filepath.Clean(c.Pipeline.SampleCSVPath) == filepath.Clean(c.Pipeline.CSVPath) {
		return fmt.Errorf("pipeline.sample_csv_path must differ from pipeline.csv_path (%s)", c.Pipeline.CSVPath)
	}
	if c.RunLog.Enabled && filepath.Clean(c.RunLog.Path) == duck {
		return fmt.Errorf("runlog.path must differ from database.path (%s)", c.Database.Path)
	}
	return nil
}

// Addr returns the dashboard listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
