// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// JobPublisher publishes a job message to a topic.
type JobPublisher interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
}

// Dispatcher enqueues background jobs. Every method returns as soon as the
// message is handed to the transport; none waits for the job to run.
type Dispatcher struct {
	publisher  JobPublisher
	serializer *Serializer
	jobs       *logging.JobLogger
}

// NewDispatcher creates a dispatcher that publishes through pub.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDispatcher(pub JobPublisher, logger zerolog.Logger) (*Dispatcher, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	return &Dispatcher{
		publisher:  pub,
		serializer: NewSerializer(),
		jobs:       logging.NewJobLogger(logger),
	}, nil
}

// Enqueue publishes payload as a job of the given kind. The correlation id
// of ctx travels with the message; a new one is generated when ctx has none.
func (d *Dispatcher) Enqueue(ctx context.Context, kind JobKind, payload interface{}) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownJob, kind)
	}

	data, err := d.serializer.Marshal(payload)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", kind, err)
	}

	correlationID := logging.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = logging.GenerateCorrelationID()
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(MetadataJobKind, kind.String())
	msg.Metadata.Set(MetadataCorrelationID, correlationID)

	err = d.publisher.Publish(ctx, kind.Topic(), msg)
	metrics.RecordJobEnqueued(kind.String(), err)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", kind, err)
	}

	d.jobs.Enqueued(ctx, kind.String(), msg.UUID, payloadUser(payload))
	return nil
}

// EnqueueTasteRecompute enqueues a taste-update job.
func (d *Dispatcher) EnqueueTasteRecompute(ctx context.Context, userID string) error {
	return d.Enqueue(ctx, JobTasteUpdate, UserJob{UserID: userID})
}

// EnqueueRecommendationRegen enqueues a movie-recommendation job.
func (d *Dispatcher) EnqueueRecommendationRegen(ctx context.Context, userID string) error {
	return d.Enqueue(ctx, JobMovieRecommendation, UserJob{UserID: userID})
}

// EnqueueBatchRefill enqueues a swipe-preload job.
func (d *Dispatcher) EnqueueBatchRefill(ctx context.Context, userID string) error {
	return d.Enqueue(ctx, JobSwipePreload, UserJob{UserID: userID})
}

// EnqueueFriendMatch enqueues a friend-match job for the pair.
func (d *Dispatcher) EnqueueFriendMatch(ctx context.Context, userA, userB string) error {
	return d.Enqueue(ctx, JobFriendMatch, FriendMatchJob{UserAID: userA, UserBID: userB})
}

// EnqueueCatalogSync enqueues a catalog-sync job. A full sync is enqueued as
// one job per year.
func (d *Dispatcher) EnqueueCatalogSync(ctx context.Context, req catalog.SyncRequest) error {
	var errs []error
	for _, part := range req.SplitByYear() {
		if err := d.Enqueue(ctx, JobCatalogSync, part); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnInteraction fans out the recompute jobs after an interaction changed.
// The taste, recommendation and refill jobs are enqueued together and are
// not ordered relative to each other. A dislike swipe enqueues nothing
// unless it replaced a like.
func (d *Dispatcher) OnInteraction(ctx context.Context, userID string, in recommend.Interaction) error {
	if !in.TriggersRecompute() {
		return nil
	}

	return errors.Join(
		d.EnqueueTasteRecompute(ctx, userID),
		d.EnqueueRecommendationRegen(ctx, userID),
		d.EnqueueBatchRefill(ctx, userID),
	)
}

// OnFriendAccepted enqueues the match score job for a new friendship.
func (d *Dispatcher) OnFriendAccepted(ctx context.Context, userA, userB string) error {
	return d.EnqueueFriendMatch(ctx, userA, userB)
}

func payloadUser(payload interface{}) string {
	switch p := payload.(type) {
	case UserJob:
		return p.UserID
	case FriendMatchJob:
		return p.UserAID
	default:
		return ""
	}
}
