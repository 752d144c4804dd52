// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package models

// TableInfo describes one exported sample table.
type TableInfo struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Title string `json:"title"`
}

// TableData is a full exported table as served to the dashboard. Values keep
// the SQLite storage class of each cell (int64, float64, string or nil).
type TableData struct {
	Name    string          `json:"name"`
	Title   string          `json:"title,omitempty"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// Graph node kinds and their display colours.
const (
	NodeKindUser   = "user"
	NodeKindGame   = "game"
	NodeKindReview = "review"

	ColorUser   = "#1f77b4"
	ColorGame   = "#ff7f0e"
	ColorReview = "#2ca02c"
)

// Graph edge labels.
const (
	EdgeWrites = "WRITES" // user -> review
	EdgeFor    = "FOR"    // review -> game
)

// GraphNode is a vertex of the review network.
type GraphNode struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// GraphEdge is a directed edge of the review network.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// ReviewGraph links sampled users, their reviews and the reviewed games.
type ReviewGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
