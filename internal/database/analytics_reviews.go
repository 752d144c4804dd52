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

// Question tables over review counts per app.
const (
	TableTotalReviews    = "question1_1"
	TablePositiveReviews = "question1_2"
	TableHighVolume      = "question1_3"
)

var totalReviewsQuery = QueryDefinition{
	Key:     "total-reviews",
	Table:   TableTotalReviews,
	Title:   "Total reviews per game",
	Columns: []string{ColAppID, ColAppName},
	Build: func(QueryParams) string {
		return fmt.Sprintf(`
			SELECT app_id, app_name, COUNT(*) AS total_reviews
			FROM %s
			GROUP BY app_id, app_name
			ORDER BY total_reviews DESC, app_name, app_id`,
			query.QuoteIdent(ReviewsTable))
	},
	PreviewOrder: "total_reviews DESC, app_name, app_id",
}

// buildPositiveReviewsSQL counts recommended reviews per app. Every group has
// at least one row, so the percentage denominator is never zero.
func buildPositiveReviewsSQL(having string) string {
	return fmt.Sprintf(`
		SELECT
			app_id,
			app_name,
			COUNT(*) AS total_reviews,
			COUNT(*) FILTER (WHERE recommended) AS positive_reviews,
			ROUND(COUNT(*) FILTER (WHERE recommended) * 100.0 / COUNT(*), 2)::DOUBLE AS positive_percentage
		FROM %s
		GROUP BY app_id, app_name
		%s
		ORDER BY positive_percentage DESC, total_reviews DESC, app_name, app_id`,
		query.QuoteIdent(ReviewsTable), having)
}

var positiveReviewsQuery = QueryDefinition{
	Key:     "positive-reviews",
	Table:   TablePositiveReviews,
	Title:   "Positive reviews and percentage per game",
	Columns: []string{ColAppID, ColAppName, ColRecommended},
	Build: func(QueryParams) string {
		return buildPositiveReviewsSQL("")
	},
	PreviewOrder: "positive_percentage DESC, total_reviews DESC",
}

var highVolumeQuery = QueryDefinition{
	Key:     "high-volume",
	Table:   TableHighVolume,
	Title:   "Games with the most reviews",
	Columns: []string{ColAppID, ColAppName, ColRecommended},
	Build: func(p QueryParams) string {
		return buildPositiveReviewsSQL(fmt.Sprintf("HAVING COUNT(*) > %d", p.HighVolumeThreshold))
	},
	PreviewOrder: "total_reviews DESC",
}

// GetTotalReviews reads question1_1, most reviewed first.
func (db *DB) GetTotalReviews(ctx context.Context) ([]models.AppReviewCount, error) {
	var out []models.AppReviewCount
	err := db.readQuestionTable(ctx, TableTotalReviews, totalReviewsQuery.PreviewOrder, func(rows *sql.Rows) error {
		var r models.AppReviewCount
		var name sql.NullString
		if err := rows.Scan(&r.AppID, &name, &r.TotalReviews); err != nil {
			return err
		}
		r.AppName = nullString(name)
		out = append(out, r)
		return nil
	})
	return out, err
}

// GetPositiveReviews reads question1_2, highest positive percentage first.
func (db *DB) GetPositiveReviews(ctx context.Context) ([]models.AppPositiveReviews, error) {
	return db.readPositiveReviews(ctx, TablePositiveReviews, positiveReviewsQuery.PreviewOrder)
}

// GetHighVolumeApps reads question1_3, most reviewed first.
func (db *DB) GetHighVolumeApps(ctx context.Context) ([]models.AppPositiveReviews, error) {
	return db.readPositiveReviews(ctx, TableHighVolume, highVolumeQuery.PreviewOrder)
}

func (db *DB) readPositiveReviews(ctx context.Context, table, orderBy string) ([]models.AppPositiveReviews, error) {
	var out []models.AppPositiveReviews
	err := db.readQuestionTable(ctx, table, orderBy, func(rows *sql.Rows) error {
		var r models.AppPositiveReviews
		var name sql.NullString
		if err := rows.Scan(&r.AppID, &name, &r.TotalReviews, &r.PositiveReviews, &r.PositivePercentage); err != nil {
			return err
		}
		r.AppName = nullString(name)
		out = append(out, r)
		return nil
	})
	return out, err
}
