// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package swipecache

import "errors"

var (
	// ErrEmptyUserID is returned when a fetch or replace names no user.
	ErrEmptyUserID = errors.New("swipecache: empty user id")

	// ErrClosed is returned by stores after Close.
	ErrClosed = errors.New("swipecache: store closed")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("swipecache: unknown backend")
)
