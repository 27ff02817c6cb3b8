// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import "errors"

// ErrNoProfile is returned by a stage when the user has no profile record.
var ErrNoProfile = errors.New("user has no profile")

// ErrNoTasteVector is returned by recommendation regeneration when the user's
// taste vector is unset.
var ErrNoTasteVector = errors.New("user has no taste vector")

// ErrNoCandidates is returned when the candidate pool is empty after exclusion.
var ErrNoCandidates = errors.New("no candidate movies")

// IsSkip reports whether err means a stage had nothing to do. Callers treat
// these as successful no-ops rather than failures.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoProfile) ||
		errors.Is(err, ErrNoTasteVector) ||
		errors.Is(err, ErrNoCandidates)
}
