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

// TableDemographics holds the user type by language cube.
const TableDemographics = "question5"

// userTypeExpr buckets authors by games owned. Counts that are NULL,
// negative or above 200 land in Unclassified rather than being dropped.
var userTypeExpr = func() string {
	g := query.QuoteIdent(ColAuthorNumGamesOwned)
	return fmt.Sprintf(`CASE
		WHEN %[1]s IS NULL OR %[1]s < 0 THEN %[2]s
		WHEN %[1]s < 3 THEN %[3]s
		WHEN %[1]s < 10 THEN %[4]s
		WHEN %[1]s <= 200 THEN %[5]s
		ELSE %[2]s
	END`,
		g,
		query.QuoteLiteral(models.UserTypeUnclassified),
		query.QuoteLiteral(models.UserTypeLight),
		query.QuoteLiteral(models.UserTypeCasual),
		query.QuoteLiteral(models.UserTypeHardcore))
}()

// demographics rolls up with GROUP BY CUBE. Rollup rows are labelled from
// GROUPING() so a NULL language in a detail row is never mistaken for the
// All Languages total.
var demographicsQuery = QueryDefinition{
	Key:   "demographics",
	Table: TableDemographics,
	Title: "Reviewer demographics by user type and language",
	Columns: []string{
		ColLanguage, ColRecommended, ColAuthorSteamID,
		ColAuthorNumGamesOwned, ColAuthorPlaytimeForever,
	},
	Build: func(QueryParams) string {
		return fmt.Sprintf(`
			WITH classified AS (
				SELECT
					%[1]s AS bucket,
					language AS lang,
					%[2]s AS steamid,
					%[3]s AS games_owned,
					%[4]s AS playtime,
					recommended
				FROM %[5]s
			)
			SELECT
				CASE WHEN GROUPING(bucket) = 1 THEN %[6]s ELSE bucket END AS user_type,
				CASE WHEN GROUPING(lang) = 1 THEN %[7]s ELSE lang END AS language,
				COUNT(DISTINCT steamid) AS unique_users,
				AVG(games_owned)::DOUBLE AS avg_games_owned,
				AVG(playtime)::DOUBLE AS avg_playtime,
				AVG(CASE WHEN recommended THEN 1.0 ELSE 0.0 END)::DOUBLE AS recommendation_rate
			FROM classified
			GROUP BY CUBE (bucket, lang)`,
			userTypeExpr,
			query.QuoteIdent(ColAuthorSteamID),
			query.QuoteIdent(ColAuthorNumGamesOwned),
			query.QuoteIdent(ColAuthorPlaytimeForever),
			query.QuoteIdent(ReviewsTable),
			query.QuoteLiteral(models.AllUsers),
			query.QuoteLiteral(models.AllLanguages))
	},
	PreviewOrder: "language, avg_games_owned, user_type",
}

// GetDemographics reads question5, detail rows before rollups.
func (db *DB) GetDemographics(ctx context.Context) ([]models.DemographicSegment, error) {
	var out []models.DemographicSegment
	order := fmt.Sprintf("language = %s, language, user_type = %s, user_type",
		query.QuoteLiteral(models.AllLanguages), query.QuoteLiteral(models.AllUsers))
	err := db.readQuestionTable(ctx, TableDemographics, order, func(rows *sql.Rows) error {
		var r models.DemographicSegment
		var userType, lang sql.NullString
		var games, playtime, rate sql.NullFloat64
		if err := rows.Scan(&userType, &lang, &r.UniqueUsers, &games, &playtime, &rate); err != nil {
			return err
		}
		r.UserType = nullString(userType)
		r.Language = nullString(lang)
		r.AvgGamesOwned = nullFloat(games)
		r.AvgPlaytime = nullFloat(playtime)
		r.RecommendationRate = nullFloat(rate)
		out = append(out, r)
		return nil
	})
	return out, err
}
