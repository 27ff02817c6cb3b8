// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/marquee/internal/logging"
)

var (
	// ErrMovieNotFound is returned when an interaction references an unknown movie.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrInvalidStatus is returned for a watch status outside the known set.
	ErrInvalidStatus = errors.New("invalid watch status")

	// ErrInvalidDirection is returned for a swipe direction other than like or dislike.
	ErrInvalidDirection = errors.New("invalid swipe direction")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
