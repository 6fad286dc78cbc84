// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package middleware provides net/http middleware shared by the HTTP surface.

  - RequestID: accepts or generates an X-Request-ID and stores it, with a
    fresh correlation id, in the logging context.
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality.
  - SlowRequests: logs requests slower than a threshold at warn level.

Typical stack, outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(time.Second))
*/
package middleware
