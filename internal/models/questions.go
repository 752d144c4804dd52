// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package models

import "time"

// AppReviewCount is a row of question1_1.
type AppReviewCount struct {
	AppID        int64  `json:"app_id"`
	AppName      string `json:"app_name"`
	TotalReviews int64  `json:"total_reviews"`
}

// AppPositiveReviews is a row of question1_2 and question1_3.
type AppPositiveReviews struct {
	AppID              int64   `json:"app_id"`
	AppName            string  `json:"app_name"`
	TotalReviews       int64   `json:"total_reviews"`
	PositiveReviews    int64   `json:"positive_reviews"`
	PositivePercentage float64 `json:"positive_percentage"` // 0-100, 2 decimals
}

// AppMaxPlaytime is the single row of question2_1.
type AppMaxPlaytime struct {
	AppID           int64   `json:"app_id"`
	AppName         string  `json:"app_name"`
	PlaytimeForever float64 `json:"playtime_forever"` // minutes
}

// AppTotalPlaytime is a row of question2_2.
type AppTotalPlaytime struct {
	Rank               int64   `json:"rank"`
	AppID              int64   `json:"app_id"`
	AppName            string  `json:"app_name"`
	TotalPlaytimeHours float64 `json:"total_playtime_hours"`
}

// AppDailyPlaytime is a row of question2_3.
type AppDailyPlaytime struct {
	AppID         int64   `json:"app_id"`
	AppName       string  `json:"app_name"`
	AvgDailyHours float64 `json:"avg_daily_hours"`
}

// LanguageReviewShare is a row of question3_1.
type LanguageReviewShare struct {
	Language     string  `json:"language"`
	ReviewCount  int64   `json:"review_count"`
	ReviewCountK float64 `json:"review_count_k"`
	Percentage   float64 `json:"percentage"`
}

// LanguagePurchaserShare is a row of question3_2.
type LanguagePurchaserShare struct {
	Language           string  `json:"language"`
	DistinctPurchasers int64   `json:"distinct_purchasers"`
	Percentage         float64 `json:"percentage"`
}

// QuarterlyAppReviews is a row of question4.
type QuarterlyAppReviews struct {
	AppID       int64     `json:"app_id"`
	AppName     string    `json:"app_name"`
	Quarter     time.Time `json:"quarter"`
	ReviewCount int64     `json:"review_count"`
}

// Demographic labels. Rollup rows use the All* labels; authors whose game
// count falls outside every bucket are UserTypeUnclassified.
const (
	UserTypeLight        = "Light Multi-Game"
	UserTypeCasual       = "Casual Multi-Game"
	UserTypeHardcore     = "Hardcore Multi-Game"
	UserTypeUnclassified = "Unclassified"
	AllUsers             = "All Users"
	AllLanguages         = "All Languages"
)

// DemographicSegment is a row of question5.
type DemographicSegment struct {
	UserType           string  `json:"user_type"`
	Language           string  `json:"language"`
	UniqueUsers        int64   `json:"unique_users"`
	AvgGamesOwned      float64 `json:"avg_games_owned"`
	AvgPlaytime        float64 `json:"avg_playtime"`
	RecommendationRate float64 `json:"recommendation_rate"`
}

// IsRollup reports whether the row aggregates over users, languages or both.
func (d DemographicSegment) IsRollup() bool {
	return d.UserType == AllUsers || d.Language == AllLanguages
}
