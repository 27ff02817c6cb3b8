// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
)

// AccessLog writes one line per request through the context logger. 5xx
// responses log at error, 4xx at warn, everything else at debug so health
// probes stay quiet at the default level.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := newStatusRecorder(w)

		next.ServeHTTP(wrapper, r)

		logger := logging.Ctx(r.Context())
		var event *zerolog.Event
		switch {
		case wrapper.statusCode >= 500:
			event = logger.Error()
		case wrapper.statusCode >= 400:
			event = logger.Warn()
		default:
			event = logger.Debug()
		}
		event.
			Str("method", r.Method).
			Str("route", routePattern(r)).
			Int("status", wrapper.statusCode).
			Int("bytes", wrapper.bytes).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
