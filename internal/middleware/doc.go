// Steamlens - Steam Review Analytics Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamlens

/*
Package middleware provides the HTTP middleware of the dashboard API.

Middleware here has the http.HandlerFunc -> http.HandlerFunc shape; the api
package adapts it for chi's r.Use.

  - RequestID: honours or generates X-Request-ID and tags the request
    context for logging.
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality.
  - Compression: gzip responses for clients that accept it. Table payloads
    are at most 500 rows of JSON and compress well.
*/
package middleware
