// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package swipecache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// Store is a keyed list store with an atomic read-and-clear.
type Store interface {
	// PopAll returns the list at key in insertion order and deletes it in
	// the same atomic step. A missing key yields an empty list.
	PopAll(ctx context.Context, key string) ([]string, error)

	// Replace overwrites the list at key. An empty list deletes the key.
	Replace(ctx context.Context, key string, movieIDs []string) error

	Close() error
}

// Refiller requests a new swipe batch for a user without waiting for it.
type Refiller interface {
	EnqueueBatchRefill(ctx context.Context, userID string) error
}

// RefillerFunc adapts a function to the Refiller interface.
type RefillerFunc func(ctx context.Context, userID string) error

// EnqueueBatchRefill calls f.
func (f RefillerFunc) EnqueueBatchRefill(ctx context.Context, userID string) error {
	return f(ctx, userID)
}

var _ recommend.BatchWriter = (*Cache)(nil)

// Cache serves per-user swipe batches from a Store.
type Cache struct {
	store    Store
	prefix   string
	refiller Refiller
	logger   zerolog.Logger
}

// New creates a Cache. refiller may be nil, in which case empty fetches
// request nothing.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(store Store, keyPrefix string, refiller Refiller, logger zerolog.Logger) *Cache {
	return &Cache{
		store:    store,
		prefix:   keyPrefix,
		refiller: refiller,
		logger:   logger.With().Str("component", "swipecache").Logger(),
	}
}

func (c *Cache) key(userID string) string {
	return c.prefix + userID
}

// FetchAndClear returns the user's batch and clears it atomically. An empty
// batch returns an empty, non-nil slice and requests one refill; a refill
// request failure is logged and not returned.
func (c *Cache) FetchAndClear(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	ids, err := c.store.PopAll(ctx, c.key(userID))
	if err != nil {
		return nil, fmt.Errorf("fetch swipe batch: %w", err)
	}
	metrics.RecordSwipeFetch(len(ids))

	if len(ids) > 0 {
		return ids, nil
	}

	if c.refiller != nil {
		err := c.refiller.EnqueueBatchRefill(ctx, userID)
		metrics.RecordSwipeRefill(err)
		if err != nil {
			c.logger.Warn().Err(err).Str("user_id", userID).Msg("Swipe batch refill request failed")
		}
	}
	return []string{}, nil
}

// Replace overwrites the user's batch with movieIDs.
func (c *Cache) Replace(ctx context.Context, userID string, movieIDs []string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if err := c.store.Replace(ctx, c.key(userID), movieIDs); err != nil {
		return fmt.Errorf("replace swipe batch: %w", err)
	}
	metrics.SwipeBatchSize.Observe(float64(len(movieIDs)))
	return nil
}

// Close closes the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}
