// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/steamlens/internal/database/query"
)

// Table catalogue.
const (
	ReviewsTable   = "steam_reviews"
	RawSampleTable = "steam_reviews_sample_500"

	// SampleLimit caps every sample table.
	SampleLimit = 500
	// SampleSuffix names the sample of a question table.
	SampleSuffix = "_samples_500"
)

// Review columns projected from the CSV. The free-text review body and any
// other CSV column is dropped at load time.
const (
	ColAppID                    = "app_id"
	ColAppName                  = "app_name"
	ColReviewID                 = "review_id"
	ColLanguage                 = "language"
	ColTimestampCreated         = "timestamp_created"
	ColTimestampUpdated         = "timestamp_updated"
	ColRecommended              = "recommended"
	ColVotesHelpful             = "votes_helpful"
	ColVotesFunny               = "votes_funny"
	ColWeightedVoteScore        = "weighted_vote_score"
	ColCommentCount             = "comment_count"
	ColSteamPurchase            = "steam_purchase"
	ColReceivedForFree          = "received_for_free"
	ColWrittenDuringEarlyAccess = "written_during_early_access"
	ColAuthorSteamID            = "author.steamid"
	ColAuthorNumGamesOwned      = "author.num_games_owned"
	ColAuthorNumReviews         = "author.num_reviews"
	ColAuthorPlaytimeForever    = "author.playtime_forever"
	ColAuthorPlaytimeTwoWeeks   = "author.playtime_last_two_weeks"
	ColAuthorPlaytimeAtReview   = "author.playtime_at_review"
	ColAuthorLastPlayed         = "author.last_played"
)

// ReviewColumns lists the 21 columns of steam_reviews in load order.
var ReviewColumns = []string{
	ColAppID, ColAppName, ColReviewID, ColLanguage,
	ColTimestampCreated, ColTimestampUpdated, ColRecommended,
	ColVotesHelpful, ColVotesFunny, ColWeightedVoteScore, ColCommentCount,
	ColSteamPurchase, ColReceivedForFree, ColWrittenDuringEarlyAccess,
	ColAuthorSteamID, ColAuthorNumGamesOwned, ColAuthorNumReviews,
	ColAuthorPlaytimeForever, ColAuthorPlaytimeTwoWeeks,
	ColAuthorPlaytimeAtReview, ColAuthorLastPlayed,
}

// SampleTableName returns the sample table of a question table.
func SampleTableName(table string) string {
	return table + SampleSuffix
}

// ExportTables lists the eleven tables copied to the portable store: the raw
// sample first, then each question sample in suite order.
func ExportTables() []string {
	defs := Definitions()
	tables := make([]string, 0, len(defs)+1)
	tables = append(tables, RawSampleTable)
	for _, d := range defs {
		tables = append(tables, SampleTableName(d.Table))
	}
	return tables
}

// ColumnInfo is one column as reported by DESCRIBE.
type ColumnInfo struct {
	Name string
	Type string
}

// TableExists reports whether a table exists in the main schema.
func (db *DB) TableExists(ctx context.Context, table string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'main' AND table_name = ?",
		table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return n > 0, nil
}

// requireTable fails with ErrMissingSource when table is absent.
func (db *DB) requireTable(ctx context.Context, table string) error {
	ok, err := db.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: table %s does not exist", ErrMissingSource, table)
	}
	return nil
}

// RowCount returns the number of rows in table.
func (db *DB) RowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+query.QuoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return n, nil
}

// DescribeTable returns the columns of an existing table in order.
func (db *DB) DescribeTable(ctx context.Context, table string) ([]ColumnInfo, error) {
	if err := db.requireTable(ctx, table); err != nil {
		return nil, err
	}
	return db.describe(ctx, query.QuoteIdent(table))
}

// describe runs DESCRIBE over any relation expression (a table name or a
// table function such as read_csv_auto(...)).
func (db *DB) describe(ctx context.Context, relation string) ([]ColumnInfo, error) {
	var cols []ColumnInfo
	err := db.queryAndScan(ctx, "DESCRIBE SELECT * FROM "+relation, nil, func(rows *sql.Rows) error {
		// column_name, column_type, null, key, default, extra
		names, err := rows.Columns()
		if err != nil {
			return err
		}
		vals := make([]interface{}, len(names))
		var name, typ sql.NullString
		vals[0], vals[1] = &name, &typ
		for i := 2; i < len(vals); i++ {
			vals[i] = new(interface{})
		}
		if err := rows.Scan(vals...); err != nil {
			return err
		}
		cols = append(cols, ColumnInfo{Name: name.String, Type: typ.String})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", relation, err)
	}
	return cols, nil
}

// RequireColumns fails with ErrMissingSource if table is absent and with a
// *SchemaError naming the first expected column it lacks.
func (db *DB) RequireColumns(ctx context.Context, table string, columns []string) error {
	cols, err := db.DescribeTable(ctx, table)
	if err != nil {
		return err
	}
	return checkColumns(table, cols, columns)
}

func checkColumns(table string, have []ColumnInfo, want []string) error {
	present := make(map[string]struct{}, len(have))
	for _, c := range have {
		present[c.Name] = struct{}{}
	}
	for _, c := range want {
		if _, ok := present[c]; !ok {
			return &SchemaError{Table: table, Column: c}
		}
	}
	return nil
}

// ForEachRow streams every row of table to fn. The values slice is reused
// between calls. Returns the table's columns.
func (db *DB) ForEachRow(ctx context.Context, table string, fn func(values []interface{}) error) ([]ColumnInfo, error) {
	cols, err := db.DescribeTable(ctx, table)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	err = db.queryAndScan(ctx, query.SelectAll(table), nil, func(rows *sql.Rows) error {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		return fn(values)
	})
	if err != nil {
		return cols, fmt.Errorf("read %s: %w", table, err)
	}
	return cols, nil
}
