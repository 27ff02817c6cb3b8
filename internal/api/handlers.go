// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/eventprocessor"
)

const (
	defaultRecommendationLimit = 20
	maxRecommendationLimit     = 100
)

// MatchScoreResponse is the body of GET /users/{id}/matches/{other}.
type MatchScoreResponse struct {
	UserA uuid.UUID `json:"user_a"`
	UserB uuid.UUID `json:"user_b"`
	Score float64   `json:"score"`
}

// Health reports every registered component. Degraded components still
// answer 200; any unhealthy component turns the response into a 503.
func (router *Router) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if router.health == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "health checks not configured")
		return
	}

	report := router.health.CheckAll(r.Context())
	if report.Status == eventprocessor.HealthStatusUnhealthy {
		rw.write(http.StatusServiceUnavailable, false, report)
		return
	}
	rw.Success(report)
}

// HealthLive answers as long as the process can serve HTTP.
func (router *Router) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Recommendations lists a user's cached recommendations, best first.
//
// Query parameters:
//   - limit: 1..100, default 20
func (router *Router) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if router.recs == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "recommendation store not configured")
		return
	}

	userID, ok := userIDParam(rw, r, "id")
	if !ok {
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	recs, err := router.recs.ListRecommendations(r.Context(), userID, limit)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	rw.List(recs, len(recs))
}

// SwipeBatch hands out and clears the user's staged swipe batch. An empty
// batch is a 200 with an empty list; the cache requests a refill itself.
func (router *Router) SwipeBatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if router.swipes == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "swipe cache not configured")
		return
	}

	userID, ok := userIDParam(rw, r, "id")
	if !ok {
		return
	}

	batch, err := router.swipes.FetchAndClear(r.Context(), userID.String())
	if err != nil {
		rw.CacheError(err)
		return
	}
	if batch == nil {
		batch = []string{}
	}
	rw.List(batch, len(batch))
}

// MatchScore returns the stored compatibility of two users in either order.
func (router *Router) MatchScore(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if router.recs == nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "recommendation store not configured")
		return
	}

	userA, ok := userIDParam(rw, r, "id")
	if !ok {
		return
	}
	userB, ok := userIDParam(rw, r, "other")
	if !ok {
		return
	}

	score, found, err := router.recs.GetMatchScore(r.Context(), userA, userB)
	if err != nil {
		rw.DatabaseError(err)
		return
	}
	if !found {
		rw.NotFound("no match score for this pair")
		return
	}
	rw.Success(MatchScoreResponse{UserA: userA, UserB: userB, Score: score})
}

// userIDParam parses a UUID path parameter, writing a 400 on failure.
func userIDParam(rw *ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		rw.BadRequest("invalid user id: " + name)
		return uuid.Nil, false
	}
	return id, true
}

// limitParam reads ?limit=, defaulting to 20 and capping at 100.
func limitParam(r *http.Request) (int, error) {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return defaultRecommendationLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, errInvalidLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}
	return limit, nil
}
