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

// Question tables over review language.
const (
	TableLanguageReviewShare    = "question3_1"
	TableLanguagePurchaserShare = "question3_2"
)

var languageReviewShareQuery = QueryDefinition{
	Key:     "lang-review-share",
	Table:   TableLanguageReviewShare,
	Title:   "Share of reviews by language",
	Columns: []string{ColLanguage},
	Build: func(QueryParams) string {
		return fmt.Sprintf(`
			SELECT
				language,
				COUNT(*) AS review_count,
				(COUNT(*) / 1000.0)::DOUBLE AS review_count_k,
				ROUND(COUNT(*) * 100.0 / SUM(COUNT(*)) OVER (), 2)::DOUBLE AS percentage
			FROM %s
			GROUP BY language
			ORDER BY review_count DESC, language`,
			query.QuoteIdent(ReviewsTable))
	},
	PreviewOrder: "review_count DESC, language",
}

// lang-purchaser-share counts each author once per language, and only reviews
// of games bought on Steam rather than received for free.
var languagePurchaserShareQuery = QueryDefinition{
	Key:     "lang-purchaser-share",
	Table:   TableLanguagePurchaserShare,
	Title:   "Share of paying reviewers by language",
	Columns: []string{ColLanguage, ColAuthorSteamID, ColSteamPurchase, ColReceivedForFree},
	Build: func(QueryParams) string {
		where, _ := query.NewWhereBuilder().
			AddClause(query.QuoteIdent(ColSteamPurchase) + " = TRUE").
			AddClause(query.QuoteIdent(ColReceivedForFree) + " = FALSE").
			BuildWithPrefix()
		steamID := query.QuoteIdent(ColAuthorSteamID)
		return fmt.Sprintf(`
			SELECT
				language,
				COUNT(DISTINCT %[1]s) AS distinct_purchasers,
				ROUND(COUNT(DISTINCT %[1]s) * 100.0 / SUM(COUNT(DISTINCT %[1]s)) OVER (), 2)::DOUBLE AS percentage
			FROM %[2]s
			%[3]s
			GROUP BY language
			ORDER BY distinct_purchasers DESC, language`,
			steamID, query.QuoteIdent(ReviewsTable), where)
	},
	PreviewOrder: "distinct_purchasers DESC, language",
}

// GetLanguageShare reads question3_1, most reviews first.
func (db *DB) GetLanguageShare(ctx context.Context) ([]models.LanguageReviewShare, error) {
	var out []models.LanguageReviewShare
	err := db.readQuestionTable(ctx, TableLanguageReviewShare, languageReviewShareQuery.PreviewOrder, func(rows *sql.Rows) error {
		var r models.LanguageReviewShare
		var lang sql.NullString
		if err := rows.Scan(&lang, &r.ReviewCount, &r.ReviewCountK, &r.Percentage); err != nil {
			return err
		}
		r.Language = nullString(lang)
		out = append(out, r)
		return nil
	})
	return out, err
}

// GetPurchaserShare reads question3_2, most purchasers first.
func (db *DB) GetPurchaserShare(ctx context.Context) ([]models.LanguagePurchaserShare, error) {
	var out []models.LanguagePurchaserShare
	err := db.readQuestionTable(ctx, TableLanguagePurchaserShare, languagePurchaserShareQuery.PreviewOrder, func(rows *sql.Rows) error {
		var r models.LanguagePurchaserShare
		var lang sql.NullString
		if err := rows.Scan(&lang, &r.DistinctPurchasers, &r.Percentage); err != nil {
			return err
		}
		r.Language = nullString(lang)
		out = append(out, r)
		return nil
	})
	return out, err
}
