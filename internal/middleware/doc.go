// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: reuses or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by route pattern
  - AccessLog: one zerolog entry per request, warn level for slow or failed requests

All three have the func(http.Handler) http.Handler shape expected by
chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(2 * time.Second))
	r.Use(middleware.PrometheusMetrics)

Route-pattern labels are read after the inner handler returns, which is
when chi has finished resolving nested routers.
*/
package middleware
