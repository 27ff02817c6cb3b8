// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store is the persistence collaborator the pipeline reads from and writes to.
// Writes must be upserts keyed by natural unique constraints so concurrent
// stages never create duplicates.
type Store interface {
	// ProfileExists reports whether the user has a profile record.
	ProfileExists(ctx context.Context, userID uuid.UUID) (bool, error)

	LoadInteractions(ctx context.Context, userID uuid.UUID) (InteractionSet, error)
	LoadMovieFeatures(ctx context.Context, ids []uuid.UUID) ([]MovieFeature, error)

	// LoadTasteVector returns nil when the vector is unset.
	LoadTasteVector(ctx context.Context, userID uuid.UUID) (*TasteVector, error)

	// SaveTasteVector replaces the stored vector; nil stores the unset state.
	SaveTasteVector(ctx context.Context, userID uuid.UUID, tv *TasteVector) error

	UpsertRecommendation(ctx context.Context, userID, movieID uuid.UUID, score float64) error
	UpsertMatchScore(ctx context.Context, userA, userB uuid.UUID, score float64) error

	// LoadCandidatePool returns up to limit movies not in excluding, ordered
	// by popularity descending.
	LoadCandidatePool(ctx context.Context, excluding map[uuid.UUID]struct{}, limit int) ([]MovieFeature, error)
}

// BatchWriter replaces a user's swipe batch.
type BatchWriter interface {
	Replace(ctx context.Context, userID string, movieIDs []string) error
}

// Pipeline runs the recompute stages against a Store.
type Pipeline struct {
	store   Store
	batches BatchWriter
	config  Config
	logger  zerolog.Logger
}

// NewPipeline creates a pipeline. batches may be nil when swipe batches are
// not served by this process; RefillSwipeBatch then fails.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipeline(store Store, batches BatchWriter, cfg Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:   store,
		batches: batches,
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// RecomputeTaste rebuilds the user's taste vector from scratch and replaces
// the stored one. A user with no interactions gets the unset vector.
func (p *Pipeline) RecomputeTaste(ctx context.Context, userID uuid.UUID) error {
	if err := p.requireProfile(ctx, userID); err != nil {
		return err
	}

	set, err := p.store.LoadInteractions(ctx, userID)
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}

	var movies []MovieFeature
	if ids := set.ReferencedIDs(); len(ids) > 0 {
		movies, err = p.store.LoadMovieFeatures(ctx, ids)
		if err != nil {
			return fmt.Errorf("load movie features: %w", err)
		}
	}

	tv := Aggregate(set, movies, p.config.Weights)
	if err := p.store.SaveTasteVector(ctx, userID, tv); err != nil {
		return fmt.Errorf("save taste vector: %w", err)
	}

	event := p.logger.Debug().Str("user_id", userID.String())
	if tv == nil {
		event.Msg("taste vector cleared")
	} else {
		event.Int("genres", len(tv.Genres)).Int("keywords", len(tv.Keywords)).Msg("taste vector recomputed")
	}
	return nil
}

// RegenerateRecommendations ranks the user's candidate pool against the
// current taste vector and upserts every ranked row. Returns the number of
// rows written.
func (p *Pipeline) RegenerateRecommendations(ctx context.Context, userID uuid.UUID) (int, error) {
	if err := p.requireProfile(ctx, userID); err != nil {
		return 0, err
	}

	tv, err := p.store.LoadTasteVector(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load taste vector: %w", err)
	}
	if tv == nil {
		return 0, ErrNoTasteVector
	}

	set, err := p.store.LoadInteractions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load interactions: %w", err)
	}

	candidates, err := p.store.LoadCandidatePool(ctx, set.Seen(), p.config.CandidateLimit)
	if err != nil {
		return 0, fmt.Errorf("load candidate pool: %w", err)
	}
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}

	ranked := RankMovies(tv, candidates)
	for _, c := range ranked {
		if err := p.store.UpsertRecommendation(ctx, userID, c.MovieID, c.Score); err != nil {
			return 0, fmt.Errorf("upsert recommendation %s: %w", c.MovieID, err)
		}
	}

	p.logger.Debug().
		Str("user_id", userID.String()).
		Int("candidates", len(ranked)).
		Msg("recommendations regenerated")

	return len(ranked), nil
}

// ScoreFriendMatch scores two users and upserts the canonical pair row.
// Both users need a profile; unset taste vectors count as empty.
func (p *Pipeline) ScoreFriendMatch(ctx context.Context, userA, userB uuid.UUID) (float64, error) {
	if err := p.requireProfile(ctx, userA); err != nil {
		return 0, err
	}
	if err := p.requireProfile(ctx, userB); err != nil {
		return 0, err
	}

	tvA, err := p.store.LoadTasteVector(ctx, userA)
	if err != nil {
		return 0, fmt.Errorf("load taste vector %s: %w", userA, err)
	}
	tvB, err := p.store.LoadTasteVector(ctx, userB)
	if err != nil {
		return 0, fmt.Errorf("load taste vector %s: %w", userB, err)
	}

	setA, err := p.store.LoadInteractions(ctx, userA)
	if err != nil {
		return 0, fmt.Errorf("load interactions %s: %w", userA, err)
	}
	setB, err := p.store.LoadInteractions(ctx, userB)
	if err != nil {
		return 0, fmt.Errorf("load interactions %s: %w", userB, err)
	}

	score := FriendMatch(tvA, tvB, CommonFavorites(setA, setB))
	if err := p.store.UpsertMatchScore(ctx, userA, userB, score); err != nil {
		return 0, fmt.Errorf("upsert match score: %w", err)
	}

	p.logger.Debug().
		Str("user_a", userA.String()).
		Str("user_b", userB.String()).
		Float64("score", score).
		Msg("friend match scored")

	return score, nil
}

// RefillSwipeBatch selects up to BatchSize unseen movies and replaces the
// user's swipe batch with them.
//
// Selection reuses the recommendation pool (popularity order, favorites,
// dislikes and swiped movies excluded). Movies that only carry a watch
// status stay eligible. With a taste vector the pool is ranked and the top
// BatchSize kept; without one the most popular are used.
func (p *Pipeline) RefillSwipeBatch(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if p.batches == nil {
		return nil, fmt.Errorf("refill swipe batch: no batch writer configured")
	}
	if err := p.requireProfile(ctx, userID); err != nil {
		return nil, err
	}

	set, err := p.store.LoadInteractions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	tv, err := p.store.LoadTasteVector(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load taste vector: %w", err)
	}

	candidates, err := p.store.LoadCandidatePool(ctx, set.Swiped(), p.config.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	ids := make([]string, 0, p.config.BatchSize)
	if tv == nil {
		for i := 0; i < len(candidates) && len(ids) < p.config.BatchSize; i++ {
			ids = append(ids, candidates[i].ID.String())
		}
	} else {
		for _, c := range RankMovies(tv, candidates) {
			if len(ids) == p.config.BatchSize {
				break
			}
			ids = append(ids, c.MovieID.String())
		}
	}

	if err := p.batches.Replace(ctx, userID.String(), ids); err != nil {
		return nil, fmt.Errorf("replace swipe batch: %w", err)
	}

	p.logger.Debug().
		Str("user_id", userID.String()).
		Int("movies", len(ids)).
		Bool("personalized", tv != nil).
		Msg("swipe batch refilled")

	return ids, nil
}

func (p *Pipeline) requireProfile(ctx context.Context, userID uuid.UUID) error {
	ok, err := p.store.ProfileExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		return ErrNoProfile
	}
	return nil
}
