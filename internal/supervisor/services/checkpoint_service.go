// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Checkpointer flushes the write-ahead log. Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints DuckDB so the WAL does not
// grow unbounded between restarts.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewCheckpointService creates a checkpoint service. interval must be positive.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCheckpointService(db Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	return &CheckpointService{
		db:       db,
		interval: interval,
		timeout:  time.Minute,
		logger:   logger.With().Str("service", "duckdb-checkpoint").Logger(),
	}
}

// Serve implements suture.Service. A failed checkpoint is logged; the next
// tick tries again.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.checkpoint(ctx)
		}
	}
}

func (s *CheckpointService) checkpoint(ctx context.Context) {
	cpCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.db.Checkpoint(cpCtx); err != nil {
		s.logger.Warn().Err(err).Msg("checkpoint failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("checkpoint complete")
}

// String implements fmt.Stringer for suture log events.
func (s *CheckpointService) String() string {
	return "duckdb-checkpoint"
}
