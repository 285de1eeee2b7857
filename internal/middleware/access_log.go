// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/unistream/internal/logging"
)

// DefaultSlowRequestThreshold is used when AccessLog is given zero.
const DefaultSlowRequestThreshold = 2 * time.Second

// AccessLog writes one structured entry per request through the
// request-scoped logger. Requests slower than slow, and 5xx responses,
// are logged at warn level; everything else at debug.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log := logging.Ctx(r.Context())
			event := log.Debug()
			if status >= http.StatusInternalServerError || duration >= slow {
				event = log.Warn()
			}
			event.
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", duration).
				Msg("http request")
		})
	}
}
