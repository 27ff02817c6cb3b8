// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
)

// CatalogSyncEnqueuer publishes catalog-sync jobs.
// Satisfied by *eventprocessor.Dispatcher.
type CatalogSyncEnqueuer interface {
	EnqueueCatalogSync(ctx context.Context, req catalog.SyncRequest) error
}

// CatalogSyncServiceConfig holds configuration for the catalog sync scheduler.
type CatalogSyncServiceConfig struct {
	// Interval between scheduled syncs. Default: 24h
	Interval time.Duration

	// OnStartup enqueues a sync as soon as the router is ready.
	OnStartup bool

	// Pages of /movie/popular fetched per sync; 0 uses the syncer default.
	Pages int
}

// CatalogSyncService schedules popular catalog syncs. It only enqueues;
// the job router's catalog-sync handler does the TMDB work.
type CatalogSyncService struct {
	enqueuer CatalogSyncEnqueuer
	config   CatalogSyncServiceConfig
	ready    <-chan struct{}
	logger   zerolog.Logger
}

// NewCatalogSyncService creates a catalog sync scheduler. ready, if non-nil,
// must close before the first job is enqueued.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogSyncService(enqueuer CatalogSyncEnqueuer, cfg CatalogSyncServiceConfig, ready <-chan struct{}, logger zerolog.Logger) *CatalogSyncService {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &CatalogSyncService{
		enqueuer: enqueuer,
		config:   cfg,
		ready:    ready,
		logger:   logger.With().Str("service", "catalog-sync").Logger(),
	}
}

// Serve implements suture.Service.
func (s *CatalogSyncService) Serve(ctx context.Context) error {
	if s.ready != nil {
		select {
		case <-s.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("catalog sync scheduler running")

	if s.config.OnStartup {
		s.enqueue(ctx, "startup")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.enqueue(ctx, "schedule")
		}
	}
}

func (s *CatalogSyncService) enqueue(ctx context.Context, trigger string) {
	req := catalog.SyncRequest{Mode: catalog.ModePopular, Pages: s.config.Pages}
	if err := s.enqueuer.EnqueueCatalogSync(ctx, req); err != nil {
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("catalog sync enqueue failed; retrying next interval")
		return
	}
	s.logger.Debug().Str("trigger", trigger).Msg("catalog sync enqueued")
}

// String implements fmt.Stringer for suture log events.
func (s *CatalogSyncService) String() string {
	return "catalog-sync"
}
