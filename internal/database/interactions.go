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
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/recommend"
)

// CreateProfile inserts the user's profile or updates its display name.
// An existing taste vector is left untouched.
func (db *DB) CreateProfile(ctx context.Context, userID uuid.UUID, displayName string) error {
	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			updated_at = EXCLUDED.updated_at`,
		userID.String(), displayName, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// AddFavorite records a favorite. Adding twice is a no-op.
func (db *DB) AddFavorite(ctx context.Context, userID, movieID uuid.UUID) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionFavoriteAdded, MovieID: movieID}
	return in, db.insertPair(ctx, "favorites", userID, movieID)
}

// RemoveFavorite deletes a favorite if present.
func (db *DB) RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionFavoriteRemoved, MovieID: movieID}
	return in, db.deletePair(ctx, "favorites", userID, movieID)
}

// AddDislike records a dislike. Adding twice is a no-op.
func (db *DB) AddDislike(ctx context.Context, userID, movieID uuid.UUID) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionDislikeAdded, MovieID: movieID}
	return in, db.insertPair(ctx, "dislikes", userID, movieID)
}

// RemoveDislike deletes a dislike if present.
func (db *DB) RemoveDislike(ctx context.Context, userID, movieID uuid.UUID) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionDislikeRemoved, MovieID: movieID}
	return in, db.deletePair(ctx, "dislikes", userID, movieID)
}

// SetStatus sets or replaces the user's watch status for a movie.
func (db *DB) SetStatus(ctx context.Context, userID, movieID uuid.UUID, status recommend.WatchStatus) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionStatusSet, MovieID: movieID, Status: status}
	if !status.Valid() {
		return in, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := db.requireMovie(ctx, movieID); err != nil {
		return in, err
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO statuses (user_id, movie_id, status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		userID.String(), movieID.String(), string(status), time.Now().UTC())
	if err != nil {
		return in, fmt.Errorf("failed to upsert status: %w", err)
	}
	return in, nil
}

// ClearStatus removes the user's watch status for a movie.
func (db *DB) ClearStatus(ctx context.Context, userID, movieID uuid.UUID) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionStatusCleared, MovieID: movieID}
	return in, db.deletePair(ctx, "statuses", userID, movieID)
}

// RecordSwipe records the latest swipe direction on a movie. The returned
// Interaction carries the direction it replaced.
func (db *DB) RecordSwipe(ctx context.Context, userID, movieID uuid.UUID, direction recommend.SwipeDirection) (recommend.Interaction, error) {
	in := recommend.Interaction{Kind: recommend.InteractionSwipe, MovieID: movieID, Direction: direction}
	if !direction.Valid() {
		return in, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	if err := db.requireMovie(ctx, movieID); err != nil {
		return in, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return in, fmt.Errorf("failed to begin swipe transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var previous string
	err = tx.QueryRowContext(ctx, `SELECT direction FROM swipes WHERE user_id = ? AND movie_id = ?`,
		userID.String(), movieID.String()).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return in, fmt.Errorf("failed to query previous swipe: %w", err)
	}
	in.PreviousDirection = recommend.SwipeDirection(previous)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO swipes (user_id, movie_id, direction, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET
			direction = EXCLUDED.direction,
			created_at = EXCLUDED.created_at`,
		userID.String(), movieID.String(), string(direction), time.Now().UTC())
	if err != nil {
		return in, fmt.Errorf("failed to upsert swipe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return in, fmt.Errorf("failed to commit swipe: %w", err)
	}
	return in, nil
}

// insertPair inserts into one of the (user_id, movie_id) set tables.
// table is always a literal from this file.
func (db *DB) insertPair(ctx context.Context, table string, userID, movieID uuid.UUID) error {
	if err := db.requireMovie(ctx, movieID); err != nil {
		return err
	}

	//nolint:gosec // table name is a compile-time constant
	query := `INSERT INTO ` + table + ` (user_id, movie_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id, movie_id) DO NOTHING`
	if _, err := db.conn.ExecContext(ctx, query, userID.String(), movieID.String(), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (db *DB) deletePair(ctx context.Context, table string, userID, movieID uuid.UUID) error {
	//nolint:gosec // table name is a compile-time constant
	query := `DELETE FROM ` + table + ` WHERE user_id = ? AND movie_id = ?`
	if _, err := db.conn.ExecContext(ctx, query, userID.String(), movieID.String()); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

func (db *DB) requireMovie(ctx context.Context, movieID uuid.UUID) error {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies WHERE id = ?`, movieID.String()).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to query movie: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrMovieNotFound, movieID)
	}
	return nil
}
