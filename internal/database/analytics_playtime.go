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

// Question tables over author playtime. Playtime columns are minutes.
const (
	TableMaxPlaytime   = "question2_1"
	TableTotalPlaytime = "question2_2"
	TableDailyPlaytime = "question2_3"
)

var maxPlaytimeQuery = QueryDefinition{
	Key:     "max-playtime",
	Table:   TableMaxPlaytime,
	Title:   "Game with the highest single-author playtime",
	Columns: []string{ColAppID, ColAppName, ColAuthorPlaytimeForever},
	Build: func(QueryParams) string {
		pt := query.QuoteIdent(ColAuthorPlaytimeForever)
		return fmt.Sprintf(`
			SELECT app_id, app_name, %[1]s::DOUBLE AS playtime_forever
			FROM %[2]s
			WHERE %[1]s IS NOT NULL
			ORDER BY %[1]s DESC, app_id
			LIMIT 1`,
			pt, query.QuoteIdent(ReviewsTable))
	},
	PreviewOrder: "playtime_forever DESC",
}

// total-playtime ranks with ROW_NUMBER so every app gets a distinct position;
// ties on hours are ordered by name then id.
var totalPlaytimeQuery = QueryDefinition{
	Key:     "total-playtime",
	Table:   TableTotalPlaytime,
	Title:   "Total playtime per game",
	Columns: []string{ColAppID, ColAppName, ColAuthorPlaytimeForever},
	Build: func(QueryParams) string {
		return fmt.Sprintf(`
			WITH per_app AS (
				SELECT app_id, app_name, (COALESCE(SUM(%s), 0) / 60.0)::DOUBLE AS total_playtime_hours
				FROM %s
				GROUP BY app_id, app_name
			)
			SELECT
				ROW_NUMBER() OVER (ORDER BY total_playtime_hours DESC, app_name, app_id) AS "rank",
				app_id,
				app_name,
				total_playtime_hours
			FROM per_app
			ORDER BY "rank"`,
			query.QuoteIdent(ColAuthorPlaytimeForever), query.QuoteIdent(ReviewsTable))
	},
	PreviewOrder: `"rank"`,
}

// daily-playtime averages two-week playtime per distinct author, restricted to
// authors who played in the window, so users_per_app is never zero.
var dailyPlaytimeQuery = QueryDefinition{
	Key:     "daily-playtime",
	Table:   TableDailyPlaytime,
	Title:   "Average daily playtime per player",
	Columns: []string{ColAppID, ColAppName, ColAuthorSteamID, ColAuthorPlaytimeTwoWeeks},
	Build: func(p QueryParams) string {
		wb := query.NewWhereBuilder().
			AddClause(query.QuoteIdent(ColAuthorPlaytimeTwoWeeks) + " > 0")
		where, _ := wb.BuildWithPrefix()
		return fmt.Sprintf(`
			WITH playtime_window AS (
				SELECT
					app_id,
					app_name,
					SUM(%[1]s) / 60.0 AS window_hours,
					COUNT(DISTINCT %[2]s) AS users_per_app
				FROM %[3]s
				%[4]s
				GROUP BY app_id, app_name
			)
			SELECT app_id, app_name, (window_hours / users_per_app / %[5]d)::DOUBLE AS avg_daily_hours
			FROM playtime_window
			WHERE window_hours / users_per_app / %[5]d >= %[6]g
			ORDER BY avg_daily_hours DESC, app_name, app_id`,
			query.QuoteIdent(ColAuthorPlaytimeTwoWeeks),
			query.QuoteIdent(ColAuthorSteamID),
			query.QuoteIdent(ReviewsTable),
			where,
			p.PlaytimeWindowDays,
			p.DailyPlaytimeMinHours)
	},
	PreviewOrder: "avg_daily_hours DESC",
}

// GetMaxPlaytime reads the single row of question2_1. It returns nil when the
// table is empty.
func (db *DB) GetMaxPlaytime(ctx context.Context) (*models.AppMaxPlaytime, error) {
	var out *models.AppMaxPlaytime
	err := db.readQuestionTable(ctx, TableMaxPlaytime, "", func(rows *sql.Rows) error {
		var r models.AppMaxPlaytime
		var name sql.NullString
		if err := rows.Scan(&r.AppID, &name, &r.PlaytimeForever); err != nil {
			return err
		}
		r.AppName = nullString(name)
		out = &r
		return nil
	})
	return out, err
}

// GetTotalPlaytime reads question2_2 in rank order.
func (db *DB) GetTotalPlaytime(ctx context.Context) ([]models.AppTotalPlaytime, error) {
	var out []models.AppTotalPlaytime
	err := db.readQuestionTable(ctx, TableTotalPlaytime, totalPlaytimeQuery.PreviewOrder, func(rows *sql.Rows) error {
		var r models.AppTotalPlaytime
		var name sql.NullString
		if err := rows.Scan(&r.Rank, &r.AppID, &name, &r.TotalPlaytimeHours); err != nil {
			return err
		}
		r.AppName = nullString(name)
		out = append(out, r)
		return nil
	})
	return out, err
}

// GetDailyPlaytime reads question2_3, highest daily average first.
func (db *DB) GetDailyPlaytime(ctx context.Context) ([]models.AppDailyPlaytime, error) {
	var out []models.AppDailyPlaytime
	err := db.readQuestionTable(ctx, TableDailyPlaytime, dailyPlaytimeQuery.PreviewOrder, func(rows *sql.Rows) error {
		var r models.AppDailyPlaytime
		var name sql.NullString
		if err := rows.Scan(&r.AppID, &name, &r.AvgDailyHours); err != nil {
			return err
		}
		r.AppName = nullString(name)
		out = append(out, r)
		return nil
	})
	return out, err
}
