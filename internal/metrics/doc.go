// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics provides Prometheus metrics for the recommendation pipeline.

All collectors are registered on the default registry through promauto and
exposed by the ops server at /metrics:

	curl http://localhost:9464/metrics

# Available Metrics

Job Metrics:
  - marquee_jobs_enqueued_total, marquee_jobs_enqueue_errors_total (kind)
  - marquee_jobs_processed_total, marquee_jobs_failed_total (kind)
  - marquee_jobs_skipped_total (kind, reason)
  - marquee_job_duration_seconds (kind)

Swipe Batch Metrics:
  - marquee_swipe_batch_fetches_total (result: hit, miss)
  - marquee_swipe_batch_refills_total (result: requested, failed)
  - marquee_swipe_batch_size

Catalog Metrics:
  - marquee_tmdb_requests_total (endpoint, status)
  - marquee_tmdb_request_duration_seconds (endpoint)
  - marquee_catalog_movies_upserted_total (mode)
  - marquee_catalog_sync_last_success_timestamp

Circuit Breaker Metrics:
  - circuit_breaker_state (name)
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)

# Usage

Callers use the Record helpers rather than touching collectors directly:

	start := time.Now()
	err := handle(msg)
	metrics.RecordJobResult("taste-update", "", time.Since(start), err)
*/
package metrics
