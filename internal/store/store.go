// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/tomtom215/steamlens/internal/cache"
	"github.com/tomtom215/steamlens/internal/database"
	"github.com/tomtom215/steamlens/internal/database/query"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/metrics"
	"github.com/tomtom215/steamlens/internal/models"
)

var (
	// ErrMissingStore is returned by Open when the SQLite file does not exist.
	ErrMissingStore = errors.New("export store not found")

	// ErrUnknownTable is returned for names outside the exported catalogue.
	ErrUnknownTable = errors.New("unknown table")

	// ErrMissingTable is returned when a catalogued table is not in the file.
	ErrMissingTable = errors.New("table missing from export store")
)

// RawSampleKey is the catalogue key of the raw review sample.
const RawSampleKey = "raw"

// Options tunes a Store.
type Options struct {
	// CacheTTL caches full table reads in memory. Zero disables the cache.
	CacheTTL time.Duration
	// MaxOpenConns caps concurrent SQLite readers. Defaults to 4.
	MaxOpenConns int
}

// Store reads the exported SQLite file.
type Store struct {
	db    *sql.DB
	path  string
	cache *cache.Cache
	log   zerolog.Logger
}

// Open opens the SQLite file at path read-only.
func Open(path string, opts Options) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingStore, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	conns := opts.MaxOpenConns
	if conns <= 0 {
		conns = 4
	}
	db.SetMaxOpenConns(conns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	s := &Store{db: db, path: path, log: logging.WithComponent("store")}
	if opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL)
	}
	return s, nil
}

// Close releases the SQLite handle and stops the cache sweep.
func (s *Store) Close() error {
	if s.cache != nil {
		stats := s.cache.GetStats()
		s.log.Debug().
			Int64("hits", stats.Hits).
			Int64("misses", stats.Misses).
			Float64("hit_rate_pct", s.cache.HitRate()).
			Msg("Read cache closed")
		s.cache.Close()
	}
	return s.db.Close()
}

// InvalidateCache drops every cached read. Call it after the export file is
// rewritten.
func (s *Store) InvalidateCache() {
	if s.cache != nil {
		s.cache.Clear()
		s.log.Debug().Str("path", s.path).Msg("Read cache cleared")
	}
}

// Path returns the SQLite file path.
func (s *Store) Path() string {
	return s.path
}

// Ping checks the SQLite handle.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ListTables returns the exported table catalogue in export order.
func ListTables() []models.TableInfo {
	names := database.ExportTables()
	out := make([]models.TableInfo, 0, len(names))
	for _, name := range names {
		info, _ := lookup(name)
		out = append(out, info)
	}
	return out
}

// lookup resolves a table name against the catalogue.
func lookup(name string) (models.TableInfo, bool) {
	if name == database.RawSampleTable {
		return models.TableInfo{Name: name, Key: RawSampleKey, Title: "Random sample of reviews"}, true
	}
	def, ok := database.DefinitionByTable(name)
	if !ok || database.SampleTableName(def.Table) != name {
		return models.TableInfo{}, false
	}
	return models.TableInfo{Name: name, Key: def.Key, Title: def.Title}, true
}

// TableForKey maps a question key (or RawSampleKey) to its exported table.
func TableForKey(key string) (models.TableInfo, bool) {
	if key == RawSampleKey {
		return lookup(database.RawSampleTable)
	}
	def, ok := database.DefinitionByKey(key)
	if !ok {
		return models.TableInfo{}, false
	}
	return lookup(database.SampleTableName(def.Table))
}

// AvailableTables returns the catalogued tables present in the file.
func (s *Store) AvailableTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	var out []string
	for _, name := range database.ExportTables() {
		if present[name] {
			out = append(out, name)
		}
	}
	return out, nil
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// ReadTable returns every row of an exported table.
func (s *Store) ReadTable(ctx context.Context, name string) (*models.TableData, error) {
	info, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	key := "table:" + name
	if s.cache != nil {
		if v, hit := s.cache.Get(key); hit {
			s.log.Trace().Str("table", name).Msg("Read cache hit")
			return v.(*models.TableData), nil
		}
	}

	exists, err := s.tableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMissingTable, name)
	}

	start := time.Now()
	data, err := s.readAll(ctx, name)
	metrics.RecordStoreQuery("read_table", name, time.Since(start))
	if err != nil {
		return nil, err
	}
	data.Title = info.Title

	if s.cache != nil {
		s.cache.Set(key, data)
	}
	return data, nil
}

// ReadQuestion returns the exported sample of the question with key.
func (s *Store) ReadQuestion(ctx context.Context, key string) (*models.TableData, error) {
	info, ok := TableForKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, key)
	}
	return s.ReadTable(ctx, info.Name)
}

func (s *Store) readAll(ctx context.Context, name string) (*models.TableData, error) {
	rows, err := s.db.QueryContext(ctx, query.SelectAll(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %s columns: %w", name, err)
	}

	data := &models.TableData{Name: name, Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data.Rows = append(data.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
