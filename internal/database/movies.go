// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/catalog"
)

var _ catalog.MovieWriter = (*DB)(nil)

// UpsertCatalogMovie inserts or refreshes a movie keyed by its TMDB id and
// returns the local movie id. The local id of an existing movie never changes.
func (db *DB) UpsertCatalogMovie(ctx context.Context, m catalog.Movie) (uuid.UUID, error) {
	genres, err := json.Marshal(nonNil(m.Genres))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode genres: %w", err)
	}
	keywords, err := json.Marshal(nonNil(m.Keywords))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode keywords: %w", err)
	}

	var releaseDate interface{}
	if m.ReleaseDate != nil {
		releaseDate = m.ReleaseDate.Format("2006-01-02")
	}
	var metadata interface{}
	if len(m.Metadata) > 0 {
		metadata = string(m.Metadata)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO movies (
			id, tmdb_id, title, overview, release_date, rating, popularity,
			poster_url, backdrop_url, genres, keywords, metadata_json, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tmdb_id) DO UPDATE SET
			title = EXCLUDED.title,
			overview = EXCLUDED.overview,
			release_date = EXCLUDED.release_date,
			rating = EXCLUDED.rating,
			popularity = EXCLUDED.popularity,
			poster_url = EXCLUDED.poster_url,
			backdrop_url = EXCLUDED.backdrop_url,
			genres = EXCLUDED.genres,
			keywords = EXCLUDED.keywords,
			metadata_json = EXCLUDED.metadata_json,
			updated_at = EXCLUDED.updated_at`,
		uuid.New().String(), m.TMDBID, m.Title, m.Overview, releaseDate, m.Rating, m.Popularity,
		m.PosterURL, m.BackdropURL, string(genres), string(keywords), metadata, time.Now().UTC())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert movie %d: %w", m.TMDBID, err)
	}

	var id string
	if err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM movies WHERE tmdb_id = ?`, m.TMDBID).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to read movie id for %d: %w", m.TMDBID, err)
	}

	db.pool.Invalidate()

	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("stored movie id %q: %w", id, err)
	}
	return parsed, nil
}

// CountMovies returns the number of catalog movies.
func (db *DB) CountMovies(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
