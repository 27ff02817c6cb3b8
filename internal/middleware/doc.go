// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package middleware provides the HTTP middleware used by the ops server.

Key Components:

  - RequestID: X-Request-ID propagation and correlation ids for logging
  - PrometheusMetrics: request count, latency and in-flight gauge
  - AccessLog: one structured zerolog line per request

All middleware has the func(http.Handler) http.Handler shape so it can be
passed straight to chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Metrics are labeled with the chi route pattern (for example
"/users/{id}/recommendations") rather than the raw path, so user ids never
become label values. Requests that match no route are labeled "unmatched".
*/
package middleware
