// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/steamlens/internal/database/query"
)

// queryRowWithContext executes a query expecting a single row and scans into dest.
// No row leaves dest untouched.
func (db *DB) queryRowWithContext(ctx context.Context, stmt string, args []interface{}, dest ...interface{}) error {
	row := db.conn.QueryRowContext(ctx, stmt, args...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("scan row: %w", err)
	}
	return nil
}

// queryAndScan executes a query and scans all rows using the provided scanner function
func (db *DB) queryAndScan(ctx context.Context, stmt string, args []interface{}, scanner func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	return nil
}

// readQuestionTable guards a typed reader against an absent question table.
func (db *DB) readQuestionTable(ctx context.Context, table, orderBy string, scanner func(*sql.Rows) error) error {
	if err := db.requireTable(ctx, table); err != nil {
		return err
	}
	var order []string
	if orderBy != "" {
		order = append(order, orderBy)
	}
	if err := db.queryAndScan(ctx, query.SelectAll(table, order...), nil, scanner); err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}
	return nil
}

func nullFloat(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return 0
}

func nullString(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
