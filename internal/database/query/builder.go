// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package query

import (
	"fmt"
	"strings"
)

// QuoteIdent quotes a table or column name for DuckDB and SQLite.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteLiteral quotes a string literal. Used where DuckDB table functions
// do not accept bound parameters (read_csv_auto, COPY ... TO).
func QuoteLiteral(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// QuoteIdents quotes and comma-joins a column list.
func QuoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// CreateOrReplaceTableAs wraps a SELECT into a materialisation statement.
func CreateOrReplaceTableAs(table, selectSQL string) string {
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s AS %s", QuoteIdent(table), strings.TrimSpace(selectSQL))
}

// RandomSample returns the statement that replaces target with up to limit
// uniformly random rows of source. No seed is used, so reruns differ.
func RandomSample(source, target string, limit int) string {
	return CreateOrReplaceTableAs(target, SelectRandom(source, limit))
}

// SelectRandom selects up to limit random rows of table.
func SelectRandom(table string, limit int) string {
	return fmt.Sprintf("SELECT * FROM %s ORDER BY RANDOM() LIMIT %d", QuoteIdent(table), limit)
}

// SelectAll selects every row of table, ordered by the given columns if any.
func SelectAll(table string, orderBy ...string) string {
	q := "SELECT * FROM " + QuoteIdent(table)
	if len(orderBy) > 0 {
		q += " ORDER BY " + strings.Join(orderBy, ", ")
	}
	return q
}

// WhereBuilder constructs AND-joined WHERE clauses with positional arguments.
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds `"column" = ?`.
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(QuoteIdent(column)+" = ?", value)
}

// AddNotNull adds `"column" IS NOT NULL` for each column.
func (wb *WhereBuilder) AddNotNull(columns ...string) *WhereBuilder {
	for _, c := range columns {
		wb.clauses = append(wb.clauses, QuoteIdent(c)+" IS NOT NULL")
	}
	return wb
}

// AddIn adds `"column" IN (?, ...)`. An empty list is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", QuoteIdent(column), strings.Join(placeholders, ", ")))
	return wb
}

// Build returns the clause without the WHERE keyword, or "1=1" when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with the WHERE keyword.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of conditions.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no conditions were added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
