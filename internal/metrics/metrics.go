// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Job Metrics
	JobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_jobs_enqueued_total",
			Help: "Total number of jobs handed to the queue transport",
		},
		[]string{"kind"},
	)

	JobsEnqueueErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_jobs_enqueue_errors_total",
			Help: "Total number of jobs the transport refused",
		},
		[]string{"kind"},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_jobs_processed_total",
			Help: "Total number of jobs that completed their stage",
		},
		[]string{"kind"},
	)

	JobsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_jobs_skipped_total",
			Help: "Total number of jobs acknowledged without work",
		},
		[]string{"kind", "reason"}, // reason: "undecodable_payload", "invalid_payload", "no_profile", "no_taste_vector", "no_candidates"
	)

	JobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_jobs_failed_total",
			Help: "Total number of job attempts that returned an error",
		},
		[]string{"kind"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_job_duration_seconds",
			Help:    "Duration of job handler execution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Swipe Batch Metrics
	SwipeBatchFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_swipe_batch_fetches_total",
			Help: "Total number of swipe batch fetches",
		},
		[]string{"result"}, // result: "hit", "miss"
	)

	SwipeBatchRefills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_swipe_batch_refills_total",
			Help: "Total number of swipe batch refill requests triggered by empty fetches",
		},
		[]string{"result"}, // result: "requested", "failed"
	)

	SwipeBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marquee_swipe_batch_size",
			Help:    "Number of movies written per swipe batch refill",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		},
	)

	// Recommendation Metrics
	RecommendationsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_recommendations_written_total",
			Help: "Total number of recommendation rows upserted",
		},
	)

	// Catalog Metrics
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_tmdb_requests_total",
			Help: "Total number of TMDB API requests",
		},
		[]string{"endpoint", "status"},
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_tmdb_request_duration_seconds",
			Help:    "Duration of TMDB API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogMoviesUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_catalog_movies_upserted_total",
			Help: "Total number of catalog movies upserted",
		},
		[]string{"mode"}, // mode: "popular", "full"
	)

	CatalogSyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_catalog_sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful catalog sync",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of ops API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Ops API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active ops API requests",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordJobEnqueued records a publish attempt for a job kind.
func RecordJobEnqueued(kind string, err error) {
	if err != nil {
		JobsEnqueueErrors.WithLabelValues(kind).Inc()
		return
	}
	JobsEnqueued.WithLabelValues(kind).Inc()
}

// RecordJobResult records the outcome of one handler execution. A non-empty
// skipReason marks a no-op success.
func RecordJobResult(kind, skipReason string, duration time.Duration, err error) {
	JobDuration.WithLabelValues(kind).Observe(duration.Seconds())
	switch {
	case err != nil:
		JobsFailed.WithLabelValues(kind).Inc()
	case skipReason != "":
		JobsSkipped.WithLabelValues(kind, skipReason).Inc()
	default:
		JobsProcessed.WithLabelValues(kind).Inc()
	}
}

// RecordSwipeFetch records a swipe batch fetch and its size.
func RecordSwipeFetch(n int) {
	if n == 0 {
		SwipeBatchFetches.WithLabelValues("miss").Inc()
		return
	}
	SwipeBatchFetches.WithLabelValues("hit").Inc()
}

// RecordSwipeRefill records a refill request triggered by an empty fetch.
func RecordSwipeRefill(err error) {
	if err != nil {
		SwipeBatchRefills.WithLabelValues("failed").Inc()
		return
	}
	SwipeBatchRefills.WithLabelValues("requested").Inc()
}

// RecordTMDBRequest records one TMDB API call. statusCode 0 means the request
// never got a response.
func RecordTMDBRequest(endpoint string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	TMDBRequests.WithLabelValues(endpoint, status).Inc()
	TMDBRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCatalogSync records a finished catalog sync.
func RecordCatalogSync(mode string, upserted int, err error) {
	CatalogMoviesUpserted.WithLabelValues(mode).Add(float64(upserted))
	if err == nil {
		CatalogSyncLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordAPIRequest records one ops API request. endpoint is the route
// pattern, not the raw path, so user ids do not become label values.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}
