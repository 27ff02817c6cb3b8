// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context bounded for DDL execution.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates every table if missing. Columns rewritten by
// ON CONFLICT DO UPDATE must stay out of secondary indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			taste_vector TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS movies (
			id TEXT PRIMARY KEY,
			tmdb_id BIGINT UNIQUE,
			title TEXT NOT NULL,
			overview TEXT NOT NULL DEFAULT '',
			release_date DATE,
			rating DOUBLE NOT NULL DEFAULT 0,
			popularity DOUBLE NOT NULL DEFAULT 0,
			poster_url TEXT NOT NULL DEFAULT '',
			backdrop_url TEXT NOT NULL DEFAULT '',
			genres TEXT NOT NULL DEFAULT '[]',
			keywords TEXT NOT NULL DEFAULT '[]',
			metadata_json TEXT,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS favorites (
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		);`,

		`CREATE TABLE IF NOT EXISTS dislikes (
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		);`,

		`CREATE TABLE IF NOT EXISTS statuses (
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			status TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		);`,

		`CREATE TABLE IF NOT EXISTS swipes (
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			direction TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		);`,

		`CREATE TABLE IF NOT EXISTS ai_recommendations (
			user_id TEXT NOT NULL,
			movie_id TEXT NOT NULL,
			score DOUBLE NOT NULL,
			generated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, movie_id)
		);`,

		`CREATE TABLE IF NOT EXISTS match_scores (
			user_a TEXT NOT NULL,
			user_b TEXT NOT NULL,
			similarity_score DOUBLE NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_a, user_b)
		);`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}
