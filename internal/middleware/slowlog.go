// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/moodboard/internal/logging"
)

// SlowRequests logs requests that take longer than threshold. A threshold
// of zero or less disables the middleware.
func SlowRequests(threshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if threshold <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			if duration > threshold {
				logging.Ctx(r.Context()).Warn().
					Str("method", r.Method).
					Str("route", routePattern(r)).
					Int("status", ww.Status()).
					Int64("duration_ms", duration.Milliseconds()).
					Int64("threshold_ms", threshold.Milliseconds()).
					Msg("Slow request detected")
			}
		})
	}
}
