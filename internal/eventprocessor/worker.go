// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// Skip reasons reported for no-op jobs.
const (
	SkipUndecodablePayload = "undecodable_payload"
	SkipInvalidPayload     = "invalid_payload"
	SkipNoProfile          = "no_profile"
	SkipNoTasteVector      = "no_taste_vector"
	SkipNoCandidates       = "no_candidates"
)

// Stages is the recompute pipeline the worker drives. *recommend.Pipeline
// satisfies it.
type Stages interface {
	RecomputeTaste(ctx context.Context, userID uuid.UUID) error
	RegenerateRecommendations(ctx context.Context, userID uuid.UUID) (int, error)
	ScoreFriendMatch(ctx context.Context, userA, userB uuid.UUID) (float64, error)
	RefillSwipeBatch(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// CatalogRunner runs a catalog sync. *catalog.Syncer satisfies it.
type CatalogRunner interface {
	Run(ctx context.Context, req catalog.SyncRequest) (int, error)
}

var (
	_ Stages        = (*recommend.Pipeline)(nil)
	_ CatalogRunner = (*catalog.Syncer)(nil)
)

// Worker consumes job messages and runs the matching stage.
//
// A handler returns nil for success and for every no-op case: an
// undecodable payload, a malformed user id, a missing profile, an unset
// taste vector and an empty candidate pool. Any other error is returned so
// the router retries the message.
type Worker struct {
	stages     Stages
	catalog    CatalogRunner
	serializer *Serializer
	jobs       *logging.JobLogger
}

// NewWorker creates a worker. syncer may be nil when this process does not
// run catalog syncs; the catalog-sync handler is then not registered.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWorker(stages Stages, syncer CatalogRunner, logger zerolog.Logger) *Worker {
	return &Worker{
		stages:     stages,
		catalog:    syncer,
		serializer: NewSerializer(),
		jobs:       logging.NewJobLogger(logger),
	}
}

// Kinds returns the job kinds this worker handles.
func (w *Worker) Kinds() []JobKind {
	kinds := make([]JobKind, 0, len(AllJobKinds))
	for _, k := range AllJobKinds {
		if k == JobCatalogSync && w.catalog == nil {
			continue
		}
		kinds = append(kinds, k)
	}
	return kinds
}

// Register adds one consumer handler per job kind to r.
func (w *Worker) Register(r *Router, sub message.Subscriber) int {
	kinds := w.Kinds()
	for _, kind := range kinds {
		r.AddConsumerHandler("job-"+kind.String(), kind.Topic(), sub, w.Handler(kind))
	}
	return len(kinds)
}

// Handler returns the Watermill handler for kind.
func (w *Worker) Handler(kind JobKind) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := logging.ContextWithCorrelationID(msg.Context(), msg.Metadata.Get(MetadataCorrelationID))

		start := time.Now()
		out := w.process(ctx, kind, msg)
		elapsed := time.Since(start)

		metrics.RecordJobResult(kind.String(), out.skip, elapsed, out.err)
		switch {
		case out.err != nil:
			w.jobs.Failed(ctx, kind.String(), out.userID, out.err)
		case out.skip != "":
			w.jobs.Skipped(ctx, kind.String(), out.userID, out.skip)
		default:
			w.jobs.Processed(ctx, kind.String(), out.userID, elapsed)
		}
		return out.err
	}
}

type outcome struct {
	userID string
	skip   string
	err    error
}

func (w *Worker) process(ctx context.Context, kind JobKind, msg *message.Message) outcome {
	switch kind {
	case JobTasteUpdate, JobMovieRecommendation, JobSwipePreload:
		var job UserJob
		if err := w.serializer.Decode(msg.Payload, &job); err != nil {
			return w.reject(ctx, kind, msg, err)
		}
		userID, err := uuid.Parse(job.UserID)
		if err != nil {
			return w.reject(ctx, kind, msg, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		out := w.runUserStage(ctx, kind, userID)
		out.userID = job.UserID
		return out

	case JobFriendMatch:
		var job FriendMatchJob
		if err := w.serializer.Decode(msg.Payload, &job); err != nil {
			return w.reject(ctx, kind, msg, err)
		}
		userA, errA := uuid.Parse(job.UserAID)
		userB, errB := uuid.Parse(job.UserBID)
		if err := errors.Join(errA, errB); err != nil {
			return w.reject(ctx, kind, msg, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		_, err := w.stages.ScoreFriendMatch(ctx, userA, userB)
		return stageOutcome(job.UserAID, err)

	case JobCatalogSync:
		if w.catalog == nil {
			return outcome{err: errors.New("catalog sync is not configured")}
		}
		var job CatalogSyncJob
		if err := w.serializer.Decode(msg.Payload, &job); err != nil {
			return w.reject(ctx, kind, msg, err)
		}
		if err := job.Validate(); err != nil {
			return w.reject(ctx, kind, msg, fmt.Errorf("%w: %v", ErrInvalidPayload, err))
		}
		if _, err := w.catalog.Run(ctx, job); err != nil {
			return outcome{err: fmt.Errorf("catalog sync: %w", err)}
		}
		return outcome{}

	default:
		return outcome{err: fmt.Errorf("%w: %q", ErrUnknownJob, kind)}
	}
}

func (w *Worker) runUserStage(ctx context.Context, kind JobKind, userID uuid.UUID) outcome {
	var err error
	switch kind {
	case JobTasteUpdate:
		err = w.stages.RecomputeTaste(ctx, userID)
	case JobMovieRecommendation:
		var n int
		n, err = w.stages.RegenerateRecommendations(ctx, userID)
		if err == nil {
			metrics.RecommendationsWritten.Add(float64(n))
		}
	case JobSwipePreload:
		_, err = w.stages.RefillSwipeBatch(ctx, userID)
	}
	return stageOutcome(userID.String(), err)
}

// reject acknowledges a message whose payload can never succeed.
func (w *Worker) reject(ctx context.Context, kind JobKind, msg *message.Message, err error) outcome {
	w.jobs.Rejected(ctx, kind.String(), msg.UUID, err)
	if errors.Is(err, ErrUndecodablePayload) {
		return outcome{skip: SkipUndecodablePayload}
	}
	return outcome{skip: SkipInvalidPayload}
}

func stageOutcome(userID string, err error) outcome {
	switch {
	case err == nil:
		return outcome{userID: userID}
	case errors.Is(err, recommend.ErrNoProfile):
		return outcome{userID: userID, skip: SkipNoProfile}
	case errors.Is(err, recommend.ErrNoTasteVector):
		return outcome{userID: userID, skip: SkipNoTasteVector}
	case errors.Is(err, recommend.ErrNoCandidates):
		return outcome{userID: userID, skip: SkipNoCandidates}
	default:
		return outcome{userID: userID, err: err}
	}
}
