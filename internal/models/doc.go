// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package models defines the data structures shared across steamlens.

Model categories:

1. Source records:
  - Review: one row of steam_reviews, with the reviewer in Author

2. Question rows (one type per derived table):
  - AppReviewCount, AppPositiveReviews, AppMaxPlaytime, AppTotalPlaytime,
    AppDailyPlaytime, LanguageReviewShare, LanguagePurchaserShare,
    QuarterlyAppReviews, DemographicSegment

3. Pipeline bookkeeping:
  - RunRecord and StageResult: one ETL execution as stored in the run log

4. Presentation:
  - TableData, TableInfo: the dashboard read contract
  - ReviewGraph, GraphNode, GraphEdge: the user/review/game network view
  - APIResponse, APIError, Metadata: the HTTP envelope

All types carry json tags and are safe to marshal with goccy/go-json.
*/
package models
