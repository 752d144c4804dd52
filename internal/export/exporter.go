// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/tomtom215/steamlens/internal/database"
	"github.com/tomtom215/steamlens/internal/database/query"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/metrics"
)

// Source is the analytical store tables are read from. *database.DB
// implements it.
type Source interface {
	DescribeTable(ctx context.Context, table string) ([]database.ColumnInfo, error)
	ForEachRow(ctx context.Context, table string, fn func(values []interface{}) error) ([]database.ColumnInfo, error)
}

// TableReport is the outcome of copying one table.
type TableReport struct {
	Table    string        `json:"table"`
	Rows     int64         `json:"rows"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// Report collects the per-table outcomes of an export.
type Report struct {
	Tables []TableReport
}

// Exported returns the number of tables copied without error.
func (r *Report) Exported() int {
	n := 0
	for _, t := range r.Tables {
		if t.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the names of the tables that could not be copied.
func (r *Report) Failed() []string {
	var out []string
	for _, t := range r.Tables {
		if t.Err != nil {
			out = append(out, t.Table)
		}
	}
	return out
}

// Rows returns the row counts of the tables copied successfully.
func (r *Report) Rows() map[string]int64 {
	out := make(map[string]int64, len(r.Tables))
	for _, t := range r.Tables {
		if t.Err == nil {
			out[t.Table] = t.Rows
		}
	}
	return out
}

// Err joins every per-table failure, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, t := range r.Tables {
		if t.Err != nil {
			errs = append(errs, fmt.Errorf("export %s: %w", t.Table, t.Err))
		}
	}
	return errors.Join(errs...)
}

// Exporter writes tables into a SQLite file.
type Exporter struct {
	db   *sql.DB
	path string
}

// Open creates or opens the SQLite file at path.
func Open(path string) (*Exporter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows one writer; one connection keeps transactions simple.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &Exporter{db: db, path: path}, nil
}

// Path returns the SQLite file path.
func (e *Exporter) Path() string {
	return e.path
}

// Close closes the SQLite file.
func (e *Exporter) Close() error {
	return e.db.Close()
}

// ExportTables copies each table from src. Failures are recorded in the
// report and do not stop later tables; only a cancelled context does.
func (e *Exporter) ExportTables(ctx context.Context, src Source, tables []string) *Report {
	report := &Report{Tables: make([]TableReport, 0, len(tables))}
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			report.Tables = append(report.Tables, TableReport{Table: table, Err: err})
			continue
		}

		start := time.Now()
		rows, err := e.ExportTable(ctx, src, table)
		tr := TableReport{Table: table, Rows: rows, Duration: time.Since(start), Err: err}
		report.Tables = append(report.Tables, tr)
		metrics.RecordExportTable(rows, err)

		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("table", table).Msg("Table export failed, continuing")
			continue
		}
		logging.Ctx(ctx).Info().
			Str("table", table).
			Int64("rows", rows).
			Dur("duration", tr.Duration).
			Msg("Exported table to SQLite")
	}
	return report
}

// ExportTable replaces table in the SQLite file with the rows of the
// same-named table in src and returns the number of rows written.
func (e *Exporter) ExportTable(ctx context.Context, src Source, table string) (int64, error) {
	cols, err := src.DescribeTable(ctx, table)
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("table %s has no columns", table)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+query.QuoteIdent(table)); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(table, cols)); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table, cols))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	var rows int64
	args := make([]interface{}, len(cols))
	_, err = src.ForEachRow(ctx, table, func(values []interface{}) error {
		if len(values) != len(cols) {
			return fmt.Errorf("row has %d values, table has %d columns", len(values), len(cols))
		}
		for i, v := range values {
			converted, convErr := sqliteValue(v)
			if convErr != nil {
				return fmt.Errorf("column %s: %w", cols[i].Name, convErr)
			}
			args[i] = converted
		}
		if _, execErr := stmt.ExecContext(ctx, args...); execErr != nil {
			return fmt.Errorf("insert row %d: %w", rows+1, execErr)
		}
		rows++
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return rows, nil
}

// RowCount returns the number of rows of an exported table.
func (e *Exporter) RowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := e.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+query.QuoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return n, nil
}

func createTableSQL(table string, cols []database.ColumnInfo) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = query.QuoteIdent(c.Name) + " " + sqliteType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", query.QuoteIdent(table), strings.Join(defs, ", "))
}

func insertSQL(table string, cols []database.ColumnInfo) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		query.QuoteIdent(table), query.QuoteIdents(names), placeholders)
}
