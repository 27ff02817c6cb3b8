// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package catalog imports movies from TMDB into the entity store.
//
// Client wraps the TMDB v3 endpoints the importer needs (popular, trending,
// discover, details, keywords). Syncer walks those lists, fetches details
// and keywords per movie, maps them with MovieFromTMDB, and hands the result
// to a MovieWriter that upserts by TMDB id.
//
// Two modes exist:
//   - popular: /movie/popular pages 1..N followed by /trending/movie/day
//   - full: /discover/movie sorted by popularity for each release year
package catalog
