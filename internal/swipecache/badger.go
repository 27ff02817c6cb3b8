// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package swipecache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
)

// maxConflictRetries bounds PopAll retries when a concurrent Replace commits
// between our read and delete.
const maxConflictRetries = 5

// BadgerStore keeps swipe batches in an embedded BadgerDB. Each list is one
// JSON array value.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
	closed atomic.Bool
}

// OpenBadger opens a BadgerDB for swipe batches.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadger(cfg config.BadgerConfig, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(newBadgerLogger(logger))
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for swipe batches: %w", err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStore wraps an already open BadgerDB. Close does not close db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// PopAll reads and deletes the list in one transaction.
func (s *BadgerStore) PopAll(ctx context.Context, key string) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	var ids []string
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ids = nil
		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get %s: %w", key, err)
			}
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &ids)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", key, err)
			}
			return txn.Delete([]byte(key))
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Replace overwrites the list at key.
func (s *BadgerStore) Replace(ctx context.Context, key string, movieIDs []string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(movieIDs) == 0 {
		return s.db.Update(func(txn *badger.Txn) error {
			return txn.Delete([]byte(key))
		})
	}

	data, err := json.Marshal(movieIDs)
	if err != nil {
		return fmt.Errorf("encode swipe batch: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// badgerLogger routes BadgerDB's internal logging through zerolog.
// Info and debug lines are demoted to debug; Badger is chatty at startup.
type badgerLogger struct {
	logger zerolog.Logger
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBadgerLogger(logger zerolog.Logger) *badgerLogger {
	return &badgerLogger{logger: logger.With().Str("component", "badger").Logger()}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}
