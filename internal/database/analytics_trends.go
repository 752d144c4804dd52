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
	"github.com/tomtom215/steamlens/internal/models"
)

// TableQuarterlyTrend holds the most reviewed apps of each quarter.
const TableQuarterlyTrend = "question4"

// quarterExpr converts the epoch-seconds creation time to the first instant
// of its calendar quarter.
var quarterExpr = fmt.Sprintf(
	"DATE_TRUNC('quarter', TIMESTAMP 'epoch' + %s * INTERVAL '1 second')",
	query.QuoteIdent(ColTimestampCreated))

// quarterly-trend keeps exactly min(N, apps in quarter) rows per quarter.
// ROW_NUMBER gives tied apps distinct positions, so ties at the cut-off are
// broken by app name then id and reruns keep the same apps.
var quarterlyTrendQuery = QueryDefinition{
	Key:     "quarterly-trend",
	Table:   TableQuarterlyTrend,
	Title:   "Most reviewed games per quarter",
	Columns: []string{ColAppID, ColAppName, ColTimestampCreated},
	Build: func(p QueryParams) string {
		return fmt.Sprintf(`
			WITH quarterly AS (
				SELECT app_id, app_name, %[1]s AS quarter, COUNT(*) AS review_count
				FROM %[2]s
				GROUP BY app_id, app_name, quarter
			),
			ranked AS (
				SELECT
					app_id, app_name, quarter, review_count,
					ROW_NUMBER() OVER (
						PARTITION BY quarter
						ORDER BY review_count DESC, app_name, app_id
					) AS position
				FROM quarterly
			)
			SELECT app_id, app_name, quarter, review_count
			FROM ranked
			WHERE position <= %[3]d
			ORDER BY quarter, review_count DESC, app_name, app_id`,
			quarterExpr, query.QuoteIdent(ReviewsTable), p.TrendTopN)
	},
	PreviewOrder: "quarter, review_count DESC, app_name, app_id",
}

// GetQuarterlyTrends reads question4 in quarter order, most reviewed first
// within each quarter.
func (db *DB) GetQuarterlyTrends(ctx context.Context) ([]models.QuarterlyAppReviews, error) {
	var out []models.QuarterlyAppReviews
	err := db.readQuestionTable(ctx, TableQuarterlyTrend, quarterlyTrendQuery.PreviewOrder, func(rows *sql.Rows) error {
		var r models.QuarterlyAppReviews
		var name sql.NullString
		if err := rows.Scan(&r.AppID, &name, &r.Quarter, &r.ReviewCount); err != nil {
			return err
		}
		r.AppName = nullString(name)
		r.Quarter = r.Quarter.UTC()
		out = append(out, r)
		return nil
	})
	return out, err
}
