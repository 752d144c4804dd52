// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/steamlens/internal/config"
	"github.com/tomtom215/steamlens/internal/metrics"
	"github.com/tomtom215/steamlens/internal/models"
	"github.com/tomtom215/steamlens/internal/store"
)

// TableReader is the read side of the export store. *store.Store satisfies it.
type TableReader interface {
	Ping(ctx context.Context) error
	AvailableTables(ctx context.Context) ([]string, error)
	ReadTable(ctx context.Context, name string) (*models.TableData, error)
	ReadQuestion(ctx context.Context, key string) (*models.TableData, error)
	ReviewGraph(ctx context.Context, limit int) (*models.ReviewGraph, error)
}

// Handler serves the dashboard endpoints.
type Handler struct {
	store     TableReader
	config    *config.Config
	version   string
	startTime time.Time
}

// NewHandler creates a handler reading from st.
func NewHandler(st TableReader, cfg *config.Config, version string) *Handler {
	return &Handler{
		store:     st,
		config:    cfg,
		version:   version,
		startTime: time.Now(),
	}
}

// TableEntry is one row of the table listing.
type TableEntry struct {
	models.TableInfo
	Available bool `json:"available"`
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, &models.HealthStatus{
		Status:    "alive",
		Version:   h.version,
		Uptime:    h.uptime(),
		CheckedAt: time.Now().UTC(),
	}, time.Time{})
}

// HealthReady returns 200 only when the export file can be queried.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	health := &models.HealthStatus{
		Status:    StatusReady,
		Version:   h.version,
		Store:     "connected",
		Uptime:    h.uptime(),
		CheckedAt: time.Now().UTC(),
	}

	statusCode := http.StatusOK
	tables, err := h.available(r.Context())
	if err != nil {
		statusCode = http.StatusServiceUnavailable
		health.Status = StatusNotReady
		health.Store = "unavailable"
	} else {
		health.Tables = len(tables)
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status:   health.Status,
		Data:     health,
		Metadata: metadata(r, time.Time{}),
	})
}

// uptime reports seconds since the handler was created and mirrors it into
// the app_uptime_seconds gauge.
func (h *Handler) uptime() float64 {
	secs := time.Since(h.startTime).Seconds()
	metrics.AppUptime.Set(secs)
	return secs
}

func (h *Handler) available(ctx context.Context) ([]string, error) {
	if err := h.store.Ping(ctx); err != nil {
		return nil, err
	}
	return h.store.AvailableTables(ctx)
}

// Tables lists the exported tables and whether each is present in the file.
func (h *Handler) Tables(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	present, err := h.store.AvailableTables(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	have := make(map[string]bool, len(present))
	for _, name := range present {
		have[name] = true
	}

	catalogue := store.ListTables()
	entries := make([]TableEntry, 0, len(catalogue))
	for _, info := range catalogue {
		entries = append(entries, TableEntry{TableInfo: info, Available: have[info.Name]})
	}

	respondSuccess(w, r, entries, start)
}

// Table returns a full exported table by name.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := h.store.ReadTable(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, r, data, start)
}

// Question returns a full exported table by question key.
func (h *Handler) Question(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	data, err := h.store.ReadQuestion(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, r, data, start)
}

// Graph returns the user -> review -> game network of the raw sample.
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req, apiErr := parseGraphRequest(r, h.config.Server.GraphLimit)
	if apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	graph, err := h.store.ReviewGraph(r.Context(), req.Limit)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	respondSuccess(w, r, graph, start)
}

// NotFound answers unknown routes with the JSON envelope.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
}

// MethodNotAllowed answers non-GET requests to known routes.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
}

// respondStoreError maps store errors to HTTP responses.
func (h *Handler) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrMissingTable):
		respondError(w, r, http.StatusNotFound, ErrCodeMissingTable, err.Error(), nil)
	case errors.Is(err, store.ErrUnknownTable):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request canceled", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "Failed to read export store", err)
	}
}
