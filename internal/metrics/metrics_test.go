// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordJobEnqueued(t *testing.T) {
	beforeOK := testutil.ToFloat64(JobsEnqueued.WithLabelValues("test-enqueue"))
	beforeErr := testutil.ToFloat64(JobsEnqueueErrors.WithLabelValues("test-enqueue"))

	RecordJobEnqueued("test-enqueue", nil)
	RecordJobEnqueued("test-enqueue", nil)
	RecordJobEnqueued("test-enqueue", errors.New("transport closed"))

	if got := testutil.ToFloat64(JobsEnqueued.WithLabelValues("test-enqueue")) - beforeOK; got != 2 {
		t.Errorf("JobsEnqueued delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(JobsEnqueueErrors.WithLabelValues("test-enqueue")) - beforeErr; got != 1 {
		t.Errorf("JobsEnqueueErrors delta = %v, want 1", got)
	}
}

func TestRecordJobResult(t *testing.T) {
	tests := []struct {
		name       string
		skipReason string
		err        error
		counter    func() prometheus.Counter
	}{
		{
			name:    "processed",
			counter: func() prometheus.Counter { return JobsProcessed.WithLabelValues("test-result") },
		},
		{
			name:       "skipped",
			skipReason: "no_profile",
			counter:    func() prometheus.Counter { return JobsSkipped.WithLabelValues("test-result", "no_profile") },
		},
		{
			name:       "failed wins over skip reason",
			skipReason: "no_profile",
			err:        errors.New("duckdb unavailable"),
			counter:    func() prometheus.Counter { return JobsFailed.WithLabelValues("test-result") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(tt.counter())
			RecordJobResult("test-result", tt.skipReason, 5*time.Millisecond, tt.err)
			if got := testutil.ToFloat64(tt.counter()) - before; got != 1 {
				t.Errorf("counter delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordSwipeFetchAndRefill(t *testing.T) {
	hits := testutil.ToFloat64(SwipeBatchFetches.WithLabelValues("hit"))
	misses := testutil.ToFloat64(SwipeBatchFetches.WithLabelValues("miss"))
	failed := testutil.ToFloat64(SwipeBatchRefills.WithLabelValues("failed"))

	RecordSwipeFetch(3)
	RecordSwipeFetch(0)
	RecordSwipeRefill(errors.New("queue full"))

	if got := testutil.ToFloat64(SwipeBatchFetches.WithLabelValues("hit")) - hits; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SwipeBatchFetches.WithLabelValues("miss")) - misses; got != 1 {
		t.Errorf("miss delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SwipeBatchRefills.WithLabelValues("failed")) - failed; got != 1 {
		t.Errorf("refill failed delta = %v, want 1", got)
	}
}

func TestRecordTMDBRequest(t *testing.T) {
	before200 := testutil.ToFloat64(TMDBRequests.WithLabelValues("test-endpoint", "200"))
	beforeErr := testutil.ToFloat64(TMDBRequests.WithLabelValues("test-endpoint", "error"))

	RecordTMDBRequest("test-endpoint", 200, 10*time.Millisecond)
	RecordTMDBRequest("test-endpoint", 0, time.Second)

	if got := testutil.ToFloat64(TMDBRequests.WithLabelValues("test-endpoint", "200")) - before200; got != 1 {
		t.Errorf("200 delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(TMDBRequests.WithLabelValues("test-endpoint", "error")) - beforeErr; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestRecordCatalogSync(t *testing.T) {
	before := testutil.ToFloat64(CatalogMoviesUpserted.WithLabelValues("test-mode"))

	RecordCatalogSync("test-mode", 7, nil)
	if got := testutil.ToFloat64(CatalogMoviesUpserted.WithLabelValues("test-mode")) - before; got != 7 {
		t.Errorf("upserted delta = %v, want 7", got)
	}
	if testutil.ToFloat64(CatalogSyncLastSuccess) == 0 {
		t.Error("CatalogSyncLastSuccess not set after successful sync")
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/{id}", "200"))

	RecordAPIRequest("GET", "/test/{id}", "200", 3*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/{id}", "200")) - before; got != 1 {
		t.Errorf("requests delta = %v, want 1", got)
	}

	active := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != active {
		t.Errorf("APIActiveRequests = %v after inc/dec, want %v", got, active)
	}
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
