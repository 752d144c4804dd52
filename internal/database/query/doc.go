// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

// Package query provides SQL building utilities shared by the DuckDB layer,
// the SQLite exporter and the dashboard store.
//
// Table and column names in this system come from a fixed catalogue, but the
// raw CSV columns contain dots ("author.steamid") and table names can arrive
// in URLs, so every identifier is emitted through QuoteIdent:
//
//	query.QuoteIdent("author.steamid")   // "author.steamid"
//	query.QuoteIdent(`we"ird`)           // "we""ird"
//
// Materialisation helpers produce the statements the pipeline runs:
//
//	query.CreateOrReplaceTableAs("question1_1", sel)
//	// CREATE OR REPLACE TABLE "question1_1" AS <sel>
//
//	query.RandomSample("question1_1", "question1_1_samples_500", 500)
//	// CREATE OR REPLACE TABLE "question1_1_samples_500" AS
//	//   SELECT * FROM "question1_1" ORDER BY RANDOM() LIMIT 500
//
// WhereBuilder composes AND-joined conditions with positional arguments:
//
//	wb := query.NewWhereBuilder()
//	wb.AddClause(`"author.playtime_last_two_weeks" > 0`)
//	wb.AddEquals("language", "english")
//	where, args := wb.BuildWithPrefix()
//	// WHERE "author.playtime_last_two_weeks" > 0 AND "language" = ?
package query
