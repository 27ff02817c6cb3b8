// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned when the client is built without a TMDB key.
var ErrNoAPIKey = errors.New("TMDB API key is not configured")

// ErrInvalidSyncRequest is returned for a sync request outside its bounds.
var ErrInvalidSyncRequest = errors.New("invalid catalog sync request")

// APIError is a non-2xx TMDB response.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
