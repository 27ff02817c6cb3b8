// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package api serves the internal ops HTTP surface: health, Prometheus
// metrics and read-only views of recommendations, match scores and swipe
// batches. It is not a public API; authentication lives in front of it.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marquee/internal/eventprocessor"
	"github.com/tomtom215/marquee/internal/middleware"
	"github.com/tomtom215/marquee/internal/recommend"
)

// RecommendationReader reads the persisted pipeline outputs.
// Satisfied by *database.DB.
type RecommendationReader interface {
	ListRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]recommend.Recommendation, error)
	GetMatchScore(ctx context.Context, userA, userB uuid.UUID) (float64, bool, error)
}

// SwipeBatchFetcher hands out a user's staged swipe batch.
// Satisfied by *swipecache.Cache.
type SwipeBatchFetcher interface {
	FetchAndClear(ctx context.Context, userID string) ([]string, error)
}

// HealthReporter aggregates component health.
// Satisfied by *eventprocessor.HealthChecker.
type HealthReporter interface {
	CheckAll(ctx context.Context) eventprocessor.OverallHealth
}

// Router holds the ops server's handlers and their collaborators.
type Router struct {
	recs   RecommendationReader
	swipes SwipeBatchFetcher
	health HealthReporter
}

// NewRouter creates a Router. Any collaborator may be nil; its routes then
// answer 503.
func NewRouter(recs RecommendationReader, swipes SwipeBatchFetcher, health HealthReporter) *Router {
	return &Router{recs: recs, swipes: swipes, health: health}
}

// Handler builds the chi route tree.
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)

	// ========================
	// Health and Metrics
	// ========================
	r.Get("/healthz", router.Health)
	r.Get("/healthz/live", router.HealthLive)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// Read Endpoints
	// ========================
	r.Route("/users/{id}", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)
		r.Get("/recommendations", router.Recommendations)
		r.Get("/swipe-batch", router.SwipeBatch)
		r.Get("/matches/{other}", router.MatchScore)
	})

	return r
}
