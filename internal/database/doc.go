// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package database is the DuckDB-backed entity store and recommendation cache.
//
// # Overview
//
// DB implements recommend.Store over these tables:
//   - profiles: one row per user, holding the taste vector as JSON (NULL = unset)
//   - movies: catalog movies keyed by id, unique by tmdb_id
//   - favorites, dislikes, statuses, swipes: user interactions
//   - ai_recommendations: (user_id, movie_id) -> score, upserted by regeneration
//   - match_scores: canonical (user_a, user_b) -> similarity in [0, 100]
//
// All writes are upserts keyed by the natural primary key, so concurrent
// jobs for the same user converge to the last write instead of duplicating
// rows.
//
// # Files
//
//   - database.go: connection lifecycle
//   - schema.go: table creation
//   - store.go: recommend.Store implementation and cache reads
//   - interactions.go: profile and interaction writes
//   - movies.go: catalog upserts
//   - pool.go: shared popularity pool cached in memory
//
// # Thread Safety
//
// DB is safe for concurrent use. DuckDB serializes conflicting writes; the
// schema has no cross-row invariants that need explicit locking.
package database
