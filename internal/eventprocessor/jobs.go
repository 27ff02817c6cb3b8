// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"fmt"

	"github.com/tomtom215/marquee/internal/catalog"
)

// JobKind identifies a background job. Its value is the queue topic.
type JobKind string

const (
	JobTasteUpdate         JobKind = "taste-update"
	JobMovieRecommendation JobKind = "movie-recommendation"
	JobFriendMatch         JobKind = "friend-match"
	JobCatalogSync         JobKind = "catalog-sync"
	JobSwipePreload        JobKind = "swipe-preload"
)

// AllJobKinds lists every job kind in registration order.
var AllJobKinds = []JobKind{
	JobTasteUpdate,
	JobMovieRecommendation,
	JobFriendMatch,
	JobCatalogSync,
	JobSwipePreload,
}

// Topic returns the queue topic for the job kind.
func (k JobKind) Topic() string {
	return string(k)
}

// Valid reports whether k is a known job kind.
func (k JobKind) Valid() bool {
	for _, known := range AllJobKinds {
		if k == known {
			return true
		}
	}
	return false
}

func (k JobKind) String() string {
	return string(k)
}

// ParseJobKind converts a topic or kind name to a JobKind.
func ParseJobKind(s string) (JobKind, error) {
	k := JobKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownJob, s)
	}
	return k, nil
}

// Topics returns the topics of every job kind.
func Topics() []string {
	topics := make([]string, len(AllJobKinds))
	for i, k := range AllJobKinds {
		topics[i] = k.Topic()
	}
	return topics
}

// UserJob is the payload of the per-user jobs.
type UserJob struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// FriendMatchJob is the payload of a friend-match job.
type FriendMatchJob struct {
	UserAID string `json:"user_a_id" validate:"required,uuid"`
	UserBID string `json:"user_b_id" validate:"required,uuid"`
}

// CatalogSyncJob is the payload of a catalog-sync job.
type CatalogSyncJob = catalog.SyncRequest

// Metadata keys set on every job message.
const (
	MetadataJobKind       = "job"
	MetadataCorrelationID = "correlation_id"
)
