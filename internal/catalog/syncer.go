// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/validation"
)

// Sync modes.
const (
	ModePopular = "popular"
	ModeFull    = "full"
)

// Defaults for sync requests that leave a field at zero.
const (
	DefaultPages        = 3
	DefaultStartYear    = 1980
	DefaultEndYear      = 2025
	DefaultPagesPerYear = 10
)

// SyncRequest selects a sync mode and its bounds.
type SyncRequest struct {
	Mode         string `json:"mode" validate:"omitempty,oneof=popular full"`
	Pages        int    `json:"pages,omitempty" validate:"gte=0,lte=50"`
	StartYear    int    `json:"start_year,omitempty" validate:"gte=0"`
	EndYear      int    `json:"end_year,omitempty" validate:"gte=0"`
	PagesPerYear int    `json:"pages_per_year,omitempty" validate:"gte=0,lte=50"`
}

// Validate checks the request bounds. Zero fields are valid and take
// defaults in Run.
func (r SyncRequest) Validate() error {
	if verr := validation.ValidateStruct(&r); verr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSyncRequest, verr)
	}
	if r.StartYear != 0 && r.EndYear != 0 && r.StartYear > r.EndYear {
		return fmt.Errorf("%w: start_year %d is after end_year %d", ErrInvalidSyncRequest, r.StartYear, r.EndYear)
	}
	return nil
}

// WithDefaults fills zero fields; an empty mode means a popular sync.
func (r SyncRequest) WithDefaults() SyncRequest {
	if r.Mode == "" {
		r.Mode = ModePopular
	}
	if r.Pages == 0 {
		r.Pages = DefaultPages
	}
	if r.StartYear == 0 {
		r.StartYear = DefaultStartYear
	}
	if r.EndYear == 0 {
		r.EndYear = DefaultEndYear
	}
	if r.PagesPerYear == 0 {
		r.PagesPerYear = DefaultPagesPerYear
	}
	return r
}

// SplitByYear breaks a full sync into one request per year so each job
// finishes well inside the queue's ack deadline. Other requests, and full
// requests with an inverted range, are returned unchanged.
func (r SyncRequest) SplitByYear() []SyncRequest {
	if r.Mode != ModeFull {
		return []SyncRequest{r}
	}
	full := r.WithDefaults()
	if full.StartYear > full.EndYear {
		return []SyncRequest{r}
	}

	parts := make([]SyncRequest, 0, full.EndYear-full.StartYear+1)
	for year := full.StartYear; year <= full.EndYear; year++ {
		part := full
		part.StartYear, part.EndYear = year, year
		parts = append(parts, part)
	}
	return parts
}

// API is the subset of the TMDB client the syncer uses.
type API interface {
	Popular(ctx context.Context, page int) (*Page, error)
	Trending(ctx context.Context, window string) (*Page, error)
	Discover(ctx context.Context, year, page int) (*Page, error)
	Details(ctx context.Context, tmdbID int64) (*Details, []byte, error)
	Keywords(ctx context.Context, tmdbID int64) ([]Keyword, error)
}

// Syncer imports TMDB movies into the store. Any TMDB or store failure
// aborts the sync; movies already written stay written.
type Syncer struct {
	api    API
	writer MovieWriter
	logger zerolog.Logger
}

// NewSyncer creates a syncer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSyncer(api API, writer MovieWriter, logger zerolog.Logger) *Syncer {
	return &Syncer{
		api:    api,
		writer: writer,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// Run executes the request after applying defaults and returns the number
// of movies upserted.
func (s *Syncer) Run(ctx context.Context, req SyncRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	req = req.WithDefaults()

	var (
		n   int
		err error
	)
	switch req.Mode {
	case ModePopular:
		n, err = s.SyncPopular(ctx, req.Pages)
	case ModeFull:
		n, err = s.SyncFull(ctx, req.StartYear, req.EndYear, req.PagesPerYear)
	default:
		return 0, fmt.Errorf("unknown catalog sync mode %q", req.Mode)
	}

	metrics.RecordCatalogSync(req.Mode, n, err)
	return n, err
}

// SyncPopular imports popular pages 1..pages and then today's trending list.
func (s *Syncer) SyncPopular(ctx context.Context, pages int) (int, error) {
	start := time.Now()
	upserted := 0

	for page := 1; page <= pages; page++ {
		list, err := s.api.Popular(ctx, page)
		if err != nil {
			return upserted, fmt.Errorf("popular page %d: %w", page, err)
		}
		n, err := s.importList(ctx, list)
		upserted += n
		if err != nil {
			return upserted, err
		}
	}

	trending, err := s.api.Trending(ctx, "day")
	if err != nil {
		return upserted, fmt.Errorf("trending: %w", err)
	}
	n, err := s.importList(ctx, trending)
	upserted += n
	if err != nil {
		return upserted, err
	}

	s.logger.Info().
		Int("pages", pages).
		Int("upserted", upserted).
		Dur("duration", time.Since(start)).
		Msg("Popular catalog sync complete")
	return upserted, nil
}

// SyncFull imports pagesPerYear discover pages for every year in
// [startYear, endYear].
func (s *Syncer) SyncFull(ctx context.Context, startYear, endYear, pagesPerYear int) (int, error) {
	if endYear < startYear {
		return 0, fmt.Errorf("invalid year range %d..%d", startYear, endYear)
	}

	start := time.Now()
	upserted := 0

	for year := startYear; year <= endYear; year++ {
		for page := 1; page <= pagesPerYear; page++ {
			list, err := s.api.Discover(ctx, year, page)
			if err != nil {
				return upserted, fmt.Errorf("discover %d page %d: %w", year, page, err)
			}
			n, err := s.importList(ctx, list)
			upserted += n
			if err != nil {
				return upserted, err
			}
		}
		s.logger.Debug().Int("year", year).Int("upserted", upserted).Msg("Catalog year imported")
	}

	s.logger.Info().
		Int("start_year", startYear).
		Int("end_year", endYear).
		Int("upserted", upserted).
		Dur("duration", time.Since(start)).
		Msg("Full catalog sync complete")
	return upserted, nil
}

func (s *Syncer) importList(ctx context.Context, list *Page) (int, error) {
	n := 0
	for _, item := range list.Results {
		if err := s.importMovie(ctx, item.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// importMovie fetches details and keywords for one movie and upserts it.
func (s *Syncer) importMovie(ctx context.Context, tmdbID int64) error {
	details, raw, err := s.api.Details(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("details %d: %w", tmdbID, err)
	}
	keywords, err := s.api.Keywords(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("keywords %d: %w", tmdbID, err)
	}

	if _, err := s.writer.UpsertCatalogMovie(ctx, MovieFromTMDB(details, raw, keywords)); err != nil {
		return fmt.Errorf("upsert %d: %w", tmdbID, err)
	}
	return nil
}
