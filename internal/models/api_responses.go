// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

package models

import "time"

// APIResponse is the envelope of every JSON response.
//
// Success:
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":3}}
//
// Error:
//
//	{"status":"error","error":{"code":"MISSING_TABLE","message":"..."},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and correlation for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error body.
//
// Codes: VALIDATION_ERROR, MISSING_TABLE, NOT_FOUND, DATABASE_ERROR,
// SERVICE_UNAVAILABLE, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Store     string    `json:"store,omitempty"`
	Tables    int       `json:"tables,omitempty"`
	Uptime    float64   `json:"uptime_seconds"`
	CheckedAt time.Time `json:"checked_at"`
}
