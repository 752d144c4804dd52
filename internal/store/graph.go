// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/steamlens/internal/cache"
	"github.com/tomtom215/steamlens/internal/database"
	"github.com/tomtom215/steamlens/internal/database/query"
	"github.com/tomtom215/steamlens/internal/metrics"
	"github.com/tomtom215/steamlens/internal/models"
)

// MaxGraphReviews caps the reviews drawn into one graph.
const MaxGraphReviews = database.SampleLimit

// ReviewGraph builds the user -> review -> game network from the first limit
// reviews of the raw sample. Users and games appear once however many of
// the selected reviews reference them.
func (s *Store) ReviewGraph(ctx context.Context, limit int) (*models.ReviewGraph, error) {
	if limit < 1 || limit > MaxGraphReviews {
		return nil, fmt.Errorf("graph limit must be between 1 and %d, got %d", MaxGraphReviews, limit)
	}

	key := cache.GenerateKey("graph", limit)
	if s.cache != nil {
		if v, hit := s.cache.Get(key); hit {
			return v.(*models.ReviewGraph), nil
		}
	}

	exists, err := s.tableExists(ctx, database.RawSampleTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMissingTable, database.RawSampleTable)
	}

	stmt := fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s ORDER BY rowid LIMIT ?",
		query.QuoteIdent(database.ColReviewID),
		query.QuoteIdent(database.ColAuthorSteamID),
		query.QuoteIdent(database.ColAppID),
		query.QuoteIdent(database.ColAppName),
		query.QuoteIdent(database.RawSampleTable))

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt, limit)
	if err != nil {
		metrics.RecordStoreQuery("review_graph", database.RawSampleTable, time.Since(start))
		return nil, fmt.Errorf("read review graph: %w", err)
	}
	defer func() { _ = rows.Close() }()

	b := newGraphBuilder()
	for rows.Next() {
		var reviewID, steamID, appID, appName interface{}
		if err := rows.Scan(&reviewID, &steamID, &appID, &appName); err != nil {
			return nil, fmt.Errorf("scan review graph: %w", err)
		}
		b.addReview(text(reviewID), text(steamID), text(appID), text(appName))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read review graph: %w", err)
	}
	metrics.RecordStoreQuery("review_graph", database.RawSampleTable, time.Since(start))

	g := b.graph()
	if s.cache != nil {
		s.cache.Set(key, g)
	}
	return g, nil
}

type graphBuilder struct {
	seen  map[string]bool
	nodes []models.GraphNode
	edges []models.GraphEdge
}

func newGraphBuilder() *graphBuilder {
	return &graphBuilder{seen: make(map[string]bool)}
}

func (b *graphBuilder) addNode(n models.GraphNode) {
	if b.seen[n.ID] {
		return
	}
	b.seen[n.ID] = true
	b.nodes = append(b.nodes, n)
}

func (b *graphBuilder) addReview(reviewID, steamID, appID, appName string) {
	user := "User_" + steamID
	review := "Review_" + reviewID
	game := "Game_" + appID

	b.addNode(models.GraphNode{ID: user, Kind: models.NodeKindUser, Label: user, Color: models.ColorUser})
	b.addNode(models.GraphNode{ID: review, Kind: models.NodeKindReview, Label: review, Color: models.ColorReview})
	b.addNode(models.GraphNode{ID: game, Kind: models.NodeKindGame, Label: "Game_" + appName, Color: models.ColorGame})

	b.edges = append(b.edges,
		models.GraphEdge{Source: user, Target: review, Label: models.EdgeWrites},
		models.GraphEdge{Source: review, Target: game, Label: models.EdgeFor},
	)
}

func (b *graphBuilder) graph() *models.ReviewGraph {
	g := &models.ReviewGraph{Nodes: b.nodes, Edges: b.edges}
	if g.Nodes == nil {
		g.Nodes = []models.GraphNode{}
	}
	if g.Edges == nil {
		g.Edges = []models.GraphEdge{}
	}
	return g
}

// text renders a scanned SQLite value as a node id component.
func text(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "unknown"
	case []byte:
		return string(x)
	case float64:
		// integral REALs come from DuckDB DOUBLE ids; keep them integer-looking
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprint(x)
	default:
		return fmt.Sprint(x)
	}
}
