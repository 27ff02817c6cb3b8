// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/recommend"
)

var _ recommend.Store = (*DB)(nil)

// ProfileExists reports whether the user has a profile row.
func (db *DB) ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM profiles WHERE user_id = ?`, userID.String()).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query profile: %w", err)
	}
	return n > 0, nil
}

// LoadInteractions reads the four interaction collections of a user.
func (db *DB) LoadInteractions(ctx context.Context, userID uuid.UUID) (recommend.InteractionSet, error) {
	set := recommend.NewInteractionSet()
	uid := userID.String()

	if err := db.scanIDSet(ctx, `SELECT movie_id FROM favorites WHERE user_id = ?`, uid, set.Favorites); err != nil {
		return set, fmt.Errorf("favorites: %w", err)
	}
	if err := db.scanIDSet(ctx, `SELECT movie_id FROM dislikes WHERE user_id = ?`, uid, set.Dislikes); err != nil {
		return set, fmt.Errorf("dislikes: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT movie_id, status FROM statuses WHERE user_id = ?`, uid)
	if err != nil {
		return set, fmt.Errorf("statuses: %w", err)
	}
	for rows.Next() {
		var movieID, status string
		if err := rows.Scan(&movieID, &status); err != nil {
			closeQuietly(rows)
			return set, fmt.Errorf("scan status: %w", err)
		}
		if id, err := uuid.Parse(movieID); err == nil {
			set.Statuses[id] = recommend.WatchStatus(status)
		}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return set, fmt.Errorf("statuses: %w", err)
	}
	closeWithLog(rows, "status rows")

	rows, err = db.conn.QueryContext(ctx, `SELECT movie_id, direction FROM swipes WHERE user_id = ?`, uid)
	if err != nil {
		return set, fmt.Errorf("swipes: %w", err)
	}
	for rows.Next() {
		var movieID, direction string
		if err := rows.Scan(&movieID, &direction); err != nil {
			closeQuietly(rows)
			return set, fmt.Errorf("scan swipe: %w", err)
		}
		if id, err := uuid.Parse(movieID); err == nil {
			set.Swipes[id] = recommend.SwipeDirection(direction)
		}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return set, fmt.Errorf("swipes: %w", err)
	}
	closeWithLog(rows, "swipe rows")

	return set, nil
}

func (db *DB) scanIDSet(ctx context.Context, query, userID string, into map[uuid.UUID]struct{}) error {
	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return err
	}
	defer closeWithLog(rows, "id rows")

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if id, err := uuid.Parse(raw); err == nil {
			into[id] = struct{}{}
		}
	}
	return rows.Err()
}

const movieFeatureColumns = `id, genres, keywords, popularity, rating`

// LoadMovieFeatures returns the features of the given movies ordered by id.
// Unknown ids are silently absent from the result.
func (db *DB) LoadMovieFeatures(ctx context.Context, ids []uuid.UUID) ([]recommend.MovieFeature, error) {
	if len(ids) == 0 {
		return []recommend.MovieFeature{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id.String()
	}

	//nolint:gosec // placeholders are literal "?" markers
	query := `SELECT ` + movieFeatureColumns + ` FROM movies WHERE id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY id`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movie features: %w", err)
	}
	defer closeWithLog(rows, "movie feature rows")

	return scanMovieFeatures(rows)
}

// loadPopular reads the n most popular movies; ties break on id.
func (db *DB) loadPopular(ctx context.Context, n int) ([]recommend.MovieFeature, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+movieFeatureColumns+` FROM movies ORDER BY popularity DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular movies: %w", err)
	}
	defer closeWithLog(rows, "popular movie rows")

	return scanMovieFeatures(rows)
}

func scanMovieFeatures(rows *sql.Rows) ([]recommend.MovieFeature, error) {
	out := []recommend.MovieFeature{}
	for rows.Next() {
		var (
			id, genres, keywords string
			popularity, rating   float64
		)
		if err := rows.Scan(&id, &genres, &keywords, &popularity, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan movie feature: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		m := recommend.MovieFeature{ID: parsed, Popularity: popularity, Rating: rating}
		if err := json.Unmarshal([]byte(genres), &m.Genres); err != nil {
			return nil, fmt.Errorf("movie %s genres: %w", id, err)
		}
		if err := json.Unmarshal([]byte(keywords), &m.Keywords); err != nil {
			return nil, fmt.Errorf("movie %s keywords: %w", id, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadTasteVector returns nil when the vector is unset or the profile is missing.
func (db *DB) LoadTasteVector(ctx context.Context, userID uuid.UUID) (*recommend.TasteVector, error) {
	var raw sql.NullString
	err := db.conn.QueryRowContext(ctx,
		`SELECT taste_vector FROM profiles WHERE user_id = ?`, userID.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query taste vector: %w", err)
	}
	if !raw.Valid {
		return nil, nil
	}

	tv := recommend.NewTasteVector()
	if err := json.Unmarshal([]byte(raw.String), tv); err != nil {
		return nil, fmt.Errorf("failed to decode taste vector: %w", err)
	}
	if tv.Genres == nil {
		tv.Genres = make(map[string]float64)
	}
	if tv.Keywords == nil {
		tv.Keywords = make(map[string]float64)
	}
	return tv, nil
}

// SaveTasteVector replaces the stored vector; nil clears it to NULL.
func (db *DB) SaveTasteVector(ctx context.Context, userID uuid.UUID, tv *recommend.TasteVector) error {
	var value interface{}
	if tv != nil {
		data, err := json.Marshal(tv)
		if err != nil {
			return fmt.Errorf("failed to encode taste vector: %w", err)
		}
		value = string(data)
	}

	_, err := db.conn.ExecContext(ctx,
		`UPDATE profiles SET taste_vector = ?, updated_at = ? WHERE user_id = ?`,
		value, time.Now().UTC(), userID.String())
	if err != nil {
		return fmt.Errorf("failed to save taste vector: %w", err)
	}
	return nil
}

// UpsertRecommendation writes one recommendation row, replacing any prior score.
func (db *DB) UpsertRecommendation(ctx context.Context, userID, movieID uuid.UUID, score float64) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO ai_recommendations (user_id, movie_id, score, generated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			score = EXCLUDED.score,
			generated_at = EXCLUDED.generated_at`,
		userID.String(), movieID.String(), score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert recommendation: %w", err)
	}
	return nil
}

// canonicalPair orders two user ids by their string form so (a, b) and
// (b, a) address the same match_scores row.
func canonicalPair(a, b uuid.UUID) (first, second string) {
	sa, sb := a.String(), b.String()
	if sb < sa {
		return sb, sa
	}
	return sa, sb
}

// UpsertMatchScore writes the canonical pair row.
func (db *DB) UpsertMatchScore(ctx context.Context, userA, userB uuid.UUID, score float64) error {
	first, second := canonicalPair(userA, userB)
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO match_scores (user_a, user_b, similarity_score, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_a, user_b) DO UPDATE SET
			similarity_score = EXCLUDED.similarity_score,
			updated_at = EXCLUDED.updated_at`,
		first, second, score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert match score: %w", err)
	}
	return nil
}

// LoadCandidatePool draws from the cached popularity pool, drops excluded
// movies, and caps the result at limit.
func (db *DB) LoadCandidatePool(ctx context.Context, excluding map[uuid.UUID]struct{}, limit int) ([]recommend.MovieFeature, error) {
	pool, err := db.pool.Load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]recommend.MovieFeature, 0, min(limit, len(pool)))
	for _, m := range pool {
		if len(out) >= limit {
			break
		}
		if _, skip := excluding[m.ID]; skip {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// ListRecommendations returns the user's cached recommendations, best first.
func (db *DB) ListRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]recommend.Recommendation, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT r.movie_id, m.title, r.score, r.generated_at
		FROM ai_recommendations r
		JOIN movies m ON m.id = r.movie_id
		WHERE r.user_id = ?
		ORDER BY r.score DESC, r.movie_id
		LIMIT ?`, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer closeWithLog(rows, "recommendation rows")

	out := []recommend.Recommendation{}
	for rows.Next() {
		var (
			rec     recommend.Recommendation
			movieID string
		)
		if err := rows.Scan(&movieID, &rec.Title, &rec.Score, &rec.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		if rec.MovieID, err = uuid.Parse(movieID); err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetMatchScore reads the pair score in either argument order. The boolean
// is false when no score has been computed yet.
func (db *DB) GetMatchScore(ctx context.Context, userA, userB uuid.UUID) (float64, bool, error) {
	first, second := canonicalPair(userA, userB)

	var score float64
	err := db.conn.QueryRowContext(ctx,
		`SELECT similarity_score FROM match_scores WHERE user_a = ? AND user_b = ?`,
		first, second).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query match score: %w", err)
	}
	return score, true, nil
}

// CountMatchScores returns the number of match_scores rows.
func (db *DB) CountMatchScores(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_scores`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count match scores: %w", err)
	}
	return n, nil
}
