// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/database/query"
	"github.com/tomtom215/steamlens/internal/logging"
	"github.com/tomtom215/steamlens/internal/models"
)

// previewRows is how many rows of each question table are logged at debug level.
const previewRows = 5

// QueryParams are the tunable constants of the query suite.
type QueryParams struct {
	HighVolumeThreshold   int64   // question1_3: total_reviews > threshold
	DailyPlaytimeMinHours float64 // question2_3: avg_daily_hours >= minimum
	PlaytimeWindowDays    int     // question2_3: days covered by playtime_last_two_weeks
	TrendTopN             int     // question4: apps kept per quarter
}

// DefaultQueryParams returns the published question constants.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		HighVolumeThreshold:   500000,
		DailyPlaytimeMinHours: 2.5,
		PlaytimeWindowDays:    14,
		TrendTopN:             10,
	}
}

// QueryParamsFromConfig converts the analytics config section.
func QueryParamsFromConfig(cfg config.AnalyticsConfig) QueryParams {
	return QueryParams{
		HighVolumeThreshold:   cfg.HighVolumeThreshold,
		DailyPlaytimeMinHours: cfg.DailyPlaytimeMinHours,
		PlaytimeWindowDays:    cfg.PlaytimeWindowDays,
		TrendTopN:             cfg.TrendTopN,
	}
}

// QueryDefinition declares one question table.
type QueryDefinition struct {
	Key          string   // stable API key, e.g. "quarterly-trend"
	Table        string   // materialised table name
	Title        string   // dashboard title
	Columns      []string // steam_reviews columns the query reads
	Build        func(QueryParams) string
	PreviewOrder string // ORDER BY used for the debug preview and typed readers
}

// Definitions returns the ten question definitions in execution order.
func Definitions() []QueryDefinition {
	return []QueryDefinition{
		totalReviewsQuery,
		positiveReviewsQuery,
		highVolumeQuery,
		maxPlaytimeQuery,
		totalPlaytimeQuery,
		dailyPlaytimeQuery,
		languageReviewShareQuery,
		languagePurchaserShareQuery,
		quarterlyTrendQuery,
		demographicsQuery,
	}
}

// DefinitionByKey looks a definition up by API key.
func DefinitionByKey(key string) (QueryDefinition, bool) {
	for _, d := range Definitions() {
		if d.Key == key {
			return d, true
		}
	}
	return QueryDefinition{}, false
}

// DefinitionByTable looks a definition up by question or sample table name.
func DefinitionByTable(table string) (QueryDefinition, bool) {
	for _, d := range Definitions() {
		if d.Table == table || SampleTableName(d.Table) == table {
			return d, true
		}
	}
	return QueryDefinition{}, false
}

// suiteColumns is the union of columns read by all definitions.
func suiteColumns(defs []QueryDefinition) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, d := range defs {
		for _, c := range d.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// RunQuerySuite materialises all ten question tables from steam_reviews.
// It fails before running anything if the source table or one of its
// columns is missing, and stops at the first failing query.
func (db *DB) RunQuerySuite(ctx context.Context, params QueryParams) ([]TableResult, error) {
	defs := Definitions()
	if err := db.RequireColumns(ctx, ReviewsTable, suiteColumns(defs)); err != nil {
		return nil, err
	}

	results := make([]TableResult, 0, len(defs))
	for _, def := range defs {
		res, err := db.runQuery(ctx, def, params)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunQuery materialises a single question table.
func (db *DB) RunQuery(ctx context.Context, def QueryDefinition, params QueryParams) (TableResult, error) {
	if err := db.RequireColumns(ctx, ReviewsTable, def.Columns); err != nil {
		return TableResult{}, err
	}
	return db.runQuery(ctx, def, params)
}

func (db *DB) runQuery(ctx context.Context, def QueryDefinition, params QueryParams) (TableResult, error) {
	start := time.Now()
	if err := db.exec(ctx, "ctas", def.Table, query.CreateOrReplaceTableAs(def.Table, def.Build(params))); err != nil {
		return TableResult{}, fmt.Errorf("query %s: %w", def.Key, err)
	}
	rows, err := db.RowCount(ctx, def.Table)
	if err != nil {
		return TableResult{}, err
	}
	res := TableResult{Table: def.Table, Rows: rows, Duration: time.Since(start)}

	logger := logging.Ctx(ctx)
	logger.Info().
		Str("query", def.Key).
		Str("table", def.Table).
		Int64("rows", rows).
		Dur("duration", res.Duration).
		Msg("Materialised question table")

	if logger.GetLevel() <= zerolog.DebugLevel && zerolog.GlobalLevel() <= zerolog.DebugLevel {
		db.logPreview(ctx, def)
	}
	return res, nil
}

// logPreview logs the first rows of a question table as read by its typed
// reader. Failures are logged, never returned.
func (db *DB) logPreview(ctx context.Context, def QueryDefinition) {
	logger := logging.Ctx(ctx)
	rows, err := db.QuestionPreview(ctx, def.Table)
	if err != nil {
		logger.Warn().Err(err).Str("table", def.Table).Msg("Failed to preview question table")
		return
	}
	logger.Debug().Str("table", def.Table).Interface("rows", rows).Msg("Preview")
}

// QuestionPreview returns up to the first five rows of a question table,
// decoded by the table's typed reader in PreviewOrder.
func (db *DB) QuestionPreview(ctx context.Context, table string) (interface{}, error) {
	switch table {
	case TableTotalReviews:
		return firstRows[models.AppReviewCount](db.GetTotalReviews(ctx))
	case TablePositiveReviews:
		return firstRows[models.AppPositiveReviews](db.GetPositiveReviews(ctx))
	case TableHighVolume:
		return firstRows[models.AppPositiveReviews](db.GetHighVolumeApps(ctx))
	case TableMaxPlaytime:
		return db.GetMaxPlaytime(ctx)
	case TableTotalPlaytime:
		return firstRows[models.AppTotalPlaytime](db.GetTotalPlaytime(ctx))
	case TableDailyPlaytime:
		return firstRows[models.AppDailyPlaytime](db.GetDailyPlaytime(ctx))
	case TableLanguageReviewShare:
		return firstRows[models.LanguageReviewShare](db.GetLanguageShare(ctx))
	case TableLanguagePurchaserShare:
		return firstRows[models.LanguagePurchaserShare](db.GetPurchaserShare(ctx))
	case TableQuarterlyTrend:
		return firstRows[models.QuarterlyAppReviews](db.GetQuarterlyTrends(ctx))
	case TableDemographics:
		return firstRows[models.DemographicSegment](db.GetDemographics(ctx))
	}
	return nil, fmt.Errorf("no typed reader for table %s", table)
}

func firstRows[T any](rows []T, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	if len(rows) > previewRows {
		rows = rows[:previewRows]
	}
	return rows, nil
}
