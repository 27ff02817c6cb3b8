// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package cache provides a thread-safe in-memory cache with TTL support.

The database package uses it to hold the popularity-ordered candidate pool
that every user's recommendation and swipe-batch pools are drawn from, so a
burst of regeneration jobs reads the catalog once per TTL instead of once
per job.

# Expiration

Expiration is checked lazily on Get and by a background loop every five
minutes. Close stops the loop.

# Statistics

GetStats reports hits, misses, evictions and the current key count.
HitRate derives the hit percentage.
*/
package cache
