// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package models

import "time"

// Author describes the reviewer as of the dataset snapshot.
// Playtime values are minutes.
type Author struct {
	SteamID              int64      `json:"steamid"`
	NumGamesOwned        *int64     `json:"num_games_owned,omitempty"`
	NumReviews           *int64     `json:"num_reviews,omitempty"`
	PlaytimeForever      *float64   `json:"playtime_forever,omitempty"`
	PlaytimeLastTwoWeeks *float64   `json:"playtime_last_two_weeks,omitempty"`
	PlaytimeAtReview     *float64   `json:"playtime_at_review,omitempty"`
	LastPlayed           *time.Time `json:"last_played,omitempty"`
}

// Review is one row of the raw steam_reviews table. Every review belongs to
// exactly one app; an author may write many reviews.
type Review struct {
	AppID                    int64     `json:"app_id"`
	AppName                  string    `json:"app_name"`
	ReviewID                 int64     `json:"review_id"`
	Language                 string    `json:"language"`
	TimestampCreated         time.Time `json:"timestamp_created"`
	TimestampUpdated         time.Time `json:"timestamp_updated"`
	Recommended              bool      `json:"recommended"`
	VotesHelpful             int64     `json:"votes_helpful"`
	VotesFunny               int64     `json:"votes_funny"`
	WeightedVoteScore        float64   `json:"weighted_vote_score"`
	CommentCount             int64     `json:"comment_count"`
	SteamPurchase            bool      `json:"steam_purchase"`
	ReceivedForFree          bool      `json:"received_for_free"`
	WrittenDuringEarlyAccess bool      `json:"written_during_early_access"`
	Author                   Author    `json:"author"`
}

// EpochTime converts a unix-seconds column value to UTC.
func EpochTime(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}
