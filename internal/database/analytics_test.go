// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/steamlens/internal/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// repeat returns n copies of r.
func repeat(n int, r reviewFixture) []reviewFixture {
	out := make([]reviewFixture, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func concat(parts ...[]reviewFixture) []reviewFixture {
	var out []reviewFixture
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func runSuite(t *testing.T, db *DB, params QueryParams) []TableResult {
	t.Helper()
	results, err := db.RunQuerySuite(context.Background(), params)
	if err != nil {
		t.Fatalf("RunQuerySuite() error = %v", err)
	}
	return results
}

func TestRunQuerySuite_MissingSource(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.RunQuerySuite(context.Background(), DefaultQueryParams())
	if !errors.Is(err, ErrMissingSource) {
		t.Fatalf("error = %v, want ErrMissingSource", err)
	}
	// No question table may be created from missing data.
	for _, d := range Definitions() {
		if ok, _ := db.TableExists(context.Background(), d.Table); ok {
			t.Errorf("%s created despite missing source", d.Table)
		}
	}
}

func TestRunQuerySuite_SchemaMismatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.conn.ExecContext(ctx, `CREATE TABLE steam_reviews AS SELECT 1 AS app_id, 'x' AS app_name, TRUE AS recommended`); err != nil {
		t.Fatal(err)
	}
	_, err := db.RunQuerySuite(ctx, DefaultQueryParams())
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
	if schemaErr.Table != ReviewsTable {
		t.Errorf("SchemaError.Table = %q", schemaErr.Table)
	}

	// A single query only needs its own columns.
	res, err := db.RunQuery(ctx, totalReviewsQuery, DefaultQueryParams())
	if err != nil || res.Rows != 1 {
		t.Errorf("RunQuery(total-reviews) = %+v, %v", res, err)
	}
}

func TestRunQuerySuite_Results(t *testing.T) {
	db := setupTestDB(t)
	loadFixtures(t, db, []reviewFixture{{AppID: 1, AppName: "Alpha"}})

	results := runSuite(t, db, DefaultQueryParams())
	if len(results) != 10 {
		t.Fatalf("results = %d, want 10", len(results))
	}
	for i, d := range Definitions() {
		if results[i].Table != d.Table {
			t.Errorf("result %d table = %q, want %q", i, results[i].Table, d.Table)
		}
	}
}

func TestReviewCounts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	loadFixtures(t, db, concat(
		repeat(2, reviewFixture{AppID: 10, AppName: "Alpha", Recommended: true}),
		repeat(1, reviewFixture{AppID: 10, AppName: "Alpha"}),
		repeat(1, reviewFixture{AppID: 20, AppName: "Beta"}),
		repeat(4, reviewFixture{AppID: 30, AppName: "Gamma", Recommended: true}),
	))
	params := DefaultQueryParams()
	params.HighVolumeThreshold = 2
	runSuite(t, db, params)

	totals, err := db.GetTotalReviews(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantTotals := []models.AppReviewCount{
		{AppID: 30, AppName: "Gamma", TotalReviews: 4},
		{AppID: 10, AppName: "Alpha", TotalReviews: 3},
		{AppID: 20, AppName: "Beta", TotalReviews: 1},
	}
	if len(totals) != len(wantTotals) {
		t.Fatalf("totals = %+v", totals)
	}
	for i := range wantTotals {
		if totals[i] != wantTotals[i] {
			t.Errorf("totals[%d] = %+v, want %+v", i, totals[i], wantTotals[i])
		}
	}

	positive, err := db.GetPositiveReviews(ctx)
	if err != nil {
		t.Fatal(err)
	}
	byApp := map[int64]models.AppPositiveReviews{}
	for _, p := range positive {
		byApp[p.AppID] = p
		want := math.Round(float64(p.PositiveReviews)/float64(p.TotalReviews)*100*100) / 100
		if !almostEqual(p.PositivePercentage, want) {
			t.Errorf("app %d positive_percentage = %v, want %v", p.AppID, p.PositivePercentage, want)
		}
	}
	if !almostEqual(byApp[10].PositivePercentage, 66.67) || byApp[20].PositivePercentage != 0 || byApp[30].PositivePercentage != 100 {
		t.Errorf("percentages = %+v", byApp)
	}

	// question1_3 is question1_1 restricted to total_reviews > threshold.
	high, err := db.GetHighVolumeApps(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(high) != 2 {
		t.Fatalf("high volume = %+v, want Gamma and Alpha", high)
	}
	for _, h := range high {
		if h.TotalReviews <= params.HighVolumeThreshold {
			t.Errorf("%s has %d reviews, not above threshold", h.AppName, h.TotalReviews)
		}
		found := false
		for _, tot := range totals {
			if tot.AppID == h.AppID && tot.TotalReviews == h.TotalReviews {
				found = true
			}
		}
		if !found {
			t.Errorf("%+v has no matching question1_1 row", h)
		}
	}
}

func TestPlaytimeQueries(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	loadFixtures(t, db, []reviewFixture{
		// Alpha: 2 active authors, 2400 + 1800 minutes in the window.
		{AppID: 1, AppName: "Alpha", SteamID: 101, Playtime: 6000, TwoWeeks: 2400},
		{AppID: 1, AppName: "Alpha", SteamID: 102, Playtime: 1200, TwoWeeks: 1800},
		// Inactive author is excluded from the daily average.
		{AppID: 1, AppName: "Alpha", SteamID: 103, Playtime: 600, TwoWeeks: 0},
		// Beta: 1 author at 1 hour/day, below the 2.5h minimum.
		{AppID: 2, AppName: "Beta", SteamID: 104, Playtime: 9000, TwoWeeks: 840},
		// Gamma ties Alpha on total hours and sorts after it by name.
		{AppID: 3, AppName: "Gamma", SteamID: 105, Playtime: 7800},
	})
	runSuite(t, db, DefaultQueryParams())

	maxPT, err := db.GetMaxPlaytime(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if maxPT == nil || maxPT.AppID != 2 || maxPT.PlaytimeForever != 9000 {
		t.Errorf("max playtime = %+v", maxPT)
	}
	if n := countRows(t, db, "SELECT COUNT(*) FROM question2_1"); n != 1 {
		t.Errorf("question2_1 has %d rows, want 1", n)
	}

	total, err := db.GetTotalPlaytime(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []models.AppTotalPlaytime{
		{Rank: 1, AppID: 2, AppName: "Beta", TotalPlaytimeHours: 150},
		{Rank: 2, AppID: 1, AppName: "Alpha", TotalPlaytimeHours: 130},
		{Rank: 3, AppID: 3, AppName: "Gamma", TotalPlaytimeHours: 130},
	}
	if len(total) != len(want) {
		t.Fatalf("total playtime = %+v", total)
	}
	for i := range want {
		if total[i].Rank != want[i].Rank || total[i].AppID != want[i].AppID || !almostEqual(total[i].TotalPlaytimeHours, want[i].TotalPlaytimeHours) {
			t.Errorf("total[%d] = %+v, want %+v", i, total[i], want[i])
		}
	}

	daily, err := db.GetDailyPlaytime(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// (2400+1800)/60/2/14 = 2.5 exactly, which passes the >= filter.
	if len(daily) != 1 || daily[0].AppID != 1 || !almostEqual(daily[0].AvgDailyHours, 2.5) {
		t.Errorf("daily playtime = %+v", daily)
	}
}

func TestLanguageQueries(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	loadFixtures(t, db, concat(
		repeat(3, reviewFixture{AppID: 1, AppName: "A", Language: "english", SteamID: 1, Purchase: true}),
		repeat(1, reviewFixture{AppID: 1, AppName: "A", Language: "english", SteamID: 2, Purchase: true}),
		// received for free: excluded from purchasers
		repeat(1, reviewFixture{AppID: 1, AppName: "A", Language: "english", SteamID: 3, Purchase: true, Free: true}),
		repeat(2, reviewFixture{AppID: 1, AppName: "A", Language: "german", SteamID: 4, Purchase: true}),
		// not a steam purchase: excluded
		repeat(1, reviewFixture{AppID: 1, AppName: "A", Language: "german", SteamID: 5}),
	))
	runSuite(t, db, DefaultQueryParams())

	share, err := db.GetLanguageShare(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(share) != 2 {
		t.Fatalf("language share = %+v", share)
	}
	if share[0].Language != "english" || share[0].ReviewCount != 5 || !almostEqual(share[0].ReviewCountK, 0.005) || !almostEqual(share[0].Percentage, 62.5) {
		t.Errorf("english = %+v", share[0])
	}
	if share[1].Language != "german" || share[1].ReviewCount != 3 || !almostEqual(share[1].Percentage, 37.5) {
		t.Errorf("german = %+v", share[1])
	}

	purchasers, err := db.GetPurchaserShare(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(purchasers) != 2 {
		t.Fatalf("purchasers = %+v", purchasers)
	}
	if purchasers[0].Language != "english" || purchasers[0].DistinctPurchasers != 2 || !almostEqual(purchasers[0].Percentage, 66.67) {
		t.Errorf("english purchasers = %+v", purchasers[0])
	}
	if purchasers[1].Language != "german" || purchasers[1].DistinctPurchasers != 1 || !almostEqual(purchasers[1].Percentage, 33.33) {
		t.Errorf("german purchasers = %+v", purchasers[1])
	}
}

func TestQuarterlyTrends_TieBreak(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var fixtures []reviewFixture
	// Q1: apps 1-8 with 3 reviews, apps 9-12 tied on 2 reviews across the
	// top-10 boundary.
	for id := 1; id <= 12; id++ {
		n := 3
		if id > 8 {
			n = 2
		}
		name := fmt.Sprintf("Game %02d", id)
		fixtures = append(fixtures, repeat(n, reviewFixture{AppID: int64(id), AppName: name, Created: tsQ1})...)
	}
	// Q2: only three apps.
	for id := 1; id <= 3; id++ {
		fixtures = append(fixtures, reviewFixture{AppID: int64(id), AppName: fmt.Sprintf("Game %02d", id), Created: tsQ2})
	}
	loadFixtures(t, db, fixtures)
	runSuite(t, db, DefaultQueryParams())

	trends, err := db.GetQuarterlyTrends(ctx)
	if err != nil {
		t.Fatal(err)
	}

	q1, q2 := "2021-01-01", "2021-04-01"
	perQuarter := map[string][]models.QuarterlyAppReviews{}
	for _, r := range trends {
		key := r.Quarter.Format(time.DateOnly)
		perQuarter[key] = append(perQuarter[key], r)
	}
	if len(perQuarter) != 2 {
		t.Fatalf("quarters = %v", perQuarter)
	}
	if got := len(perQuarter[q1]); got != 10 {
		t.Errorf("Q1 rows = %d, want exactly 10 despite ties", got)
	}
	if got := len(perQuarter[q2]); got != 3 {
		t.Errorf("Q2 rows = %d, want min(10, 3) = 3", got)
	}

	kept := map[int64]bool{}
	for _, r := range perQuarter[q1] {
		kept[r.AppID] = true
		if r.ReviewCount < 2 {
			t.Errorf("kept %s with %d reviews, below 11th-ranked count", r.AppName, r.ReviewCount)
		}
	}
	// Tie broken by app name: Game 09 and Game 10 in, 11 and 12 out.
	for _, id := range []int64{9, 10} {
		if !kept[id] {
			t.Errorf("app %d should be kept", id)
		}
	}
	for _, id := range []int64{11, 12} {
		if kept[id] {
			t.Errorf("app %d should be cut", id)
		}
	}

	// Rerunning yields the identical table.
	runSuite(t, db, DefaultQueryParams())
	again, err := db.GetQuarterlyTrends(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(trends) {
		t.Fatalf("rerun rows = %d, want %d", len(again), len(trends))
	}
	for i := range trends {
		if again[i].AppID != trends[i].AppID || again[i].ReviewCount != trends[i].ReviewCount || !again[i].Quarter.Equal(trends[i].Quarter) {
			t.Errorf("rerun row %d = %+v, want %+v", i, again[i], trends[i])
		}
	}
}

func TestDemographics_Cube(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	buckets := []struct {
		games int64
		label string
	}{
		{1, models.UserTypeLight},
		{5, models.UserTypeCasual},
		{50, models.UserTypeHardcore},
	}
	var fixtures []reviewFixture
	steamID := int64(1)
	for _, lang := range []string{"english", "german"} {
		for _, b := range buckets {
			// two distinct authors per cell, one recommends
			for k := 0; k < 2; k++ {
				fixtures = append(fixtures, reviewFixture{
					AppID: 1, AppName: "A", Language: lang, SteamID: steamID,
					GamesOwned: b.games, Playtime: 100, Recommended: k == 0,
				})
				steamID++
			}
		}
	}
	loadFixtures(t, db, fixtures)
	runSuite(t, db, DefaultQueryParams())

	rows, err := db.GetDemographics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// (2 languages + 1) x (3 user types + 1)
	if len(rows) != 12 {
		t.Fatalf("demographics rows = %d, want 12: %+v", len(rows), rows)
	}

	cells := map[[2]string]models.DemographicSegment{}
	for _, r := range rows {
		cells[[2]string{r.UserType, r.Language}] = r
	}
	total, ok := cells[[2]string{models.AllUsers, models.AllLanguages}]
	if !ok {
		t.Fatal("missing grand total row")
	}
	if total.UniqueUsers != 12 {
		t.Errorf("grand total unique_users = %d, want 12", total.UniqueUsers)
	}
	if !almostEqual(total.RecommendationRate, 0.5) {
		t.Errorf("grand total recommendation_rate = %v", total.RecommendationRate)
	}
	cell := cells[[2]string{models.UserTypeCasual, "german"}]
	if cell.UniqueUsers != 2 || !almostEqual(cell.AvgGamesOwned, 5) || !almostEqual(cell.AvgPlaytime, 100) {
		t.Errorf("casual/german = %+v", cell)
	}
	if r := cells[[2]string{models.AllUsers, "english"}]; r.UniqueUsers != 6 {
		t.Errorf("all users/english = %+v", r)
	}
	if r := cells[[2]string{models.UserTypeHardcore, models.AllLanguages}]; r.UniqueUsers != 4 {
		t.Errorf("hardcore/all languages = %+v", r)
	}
	// detail rows come first
	if rows[0].IsRollup() || !rows[len(rows)-1].IsRollup() {
		t.Errorf("ordering: first=%+v last=%+v", rows[0], rows[len(rows)-1])
	}
}

func TestDemographics_Unclassified(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	loadFixtures(t, db, []reviewFixture{
		{AppID: 1, AppName: "A", SteamID: 1, GamesOwned: 2},
		{AppID: 1, AppName: "A", SteamID: 2, GamesOwned: 3},
		{AppID: 1, AppName: "A", SteamID: 3, GamesOwned: 9},
		{AppID: 1, AppName: "A", SteamID: 4, GamesOwned: 10},
		{AppID: 1, AppName: "A", SteamID: 5, GamesOwned: 200},
		{AppID: 1, AppName: "A", SteamID: 6, GamesOwned: 201},
		{AppID: 1, AppName: "A", SteamID: 7, GamesOwned: -4},
		{AppID: 1, AppName: "A", SteamID: 8, NullGames: true},
	})
	runSuite(t, db, DefaultQueryParams())

	rows, err := db.GetDemographics(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]int64{}
	for _, r := range rows {
		if r.Language == "english" {
			got[r.UserType] = r.UniqueUsers
		}
	}
	want := map[string]int64{
		models.UserTypeLight:        1, // 2
		models.UserTypeCasual:       2, // 3, 9
		models.UserTypeHardcore:     2, // 10, 200
		models.UserTypeUnclassified: 3, // 201, -4, NULL
		models.AllUsers:             8,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s unique_users = %d, want %d", k, got[k], v)
		}
	}
}

func TestQuestionPreview(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	var fixtures []reviewFixture
	for app := int64(1); app <= 7; app++ {
		fixtures = append(fixtures, repeat(int(app), reviewFixture{
			AppID:       app,
			AppName:     fmt.Sprintf("Game %d", app),
			Recommended: true,
			GamesOwned:  5,
			Playtime:    float64(60 * app),
			TwoWeeks:    600,
		})...)
	}
	loadFixtures(t, db, fixtures)
	runSuite(t, db, QueryParams{HighVolumeThreshold: 0, DailyPlaytimeMinHours: 0, PlaytimeWindowDays: 14, TrendTopN: 10})

	for _, d := range Definitions() {
		if _, err := db.QuestionPreview(ctx, d.Table); err != nil {
			t.Errorf("QuestionPreview(%s) error = %v", d.Table, err)
		}
	}

	got, err := db.QuestionPreview(ctx, TableTotalReviews)
	if err != nil {
		t.Fatal(err)
	}
	rows, ok := got.([]models.AppReviewCount)
	if !ok {
		t.Fatalf("QuestionPreview(%s) = %T, want []models.AppReviewCount", TableTotalReviews, got)
	}
	if len(rows) != previewRows {
		t.Fatalf("preview rows = %d, want %d", len(rows), previewRows)
	}
	if rows[0].AppID != 7 || rows[0].TotalReviews != 7 {
		t.Errorf("first preview row = %+v, want app 7 with 7 reviews", rows[0])
	}

	if got, err := db.QuestionPreview(ctx, TableMaxPlaytime); err != nil {
		t.Fatal(err)
	} else if _, ok := got.(*models.AppMaxPlaytime); !ok {
		t.Errorf("QuestionPreview(%s) = %T, want *models.AppMaxPlaytime", TableMaxPlaytime, got)
	}

	if _, err := db.QuestionPreview(ctx, ReviewsTable); err == nil {
		t.Errorf("QuestionPreview(%s) should fail without a typed reader", ReviewsTable)
	}
}
