// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// JobLogger logs the lifecycle of background jobs: enqueue, run, skip,
// failure and poison queue routing.
type JobLogger struct {
	logger zerolog.Logger
}

// NewJobLogger creates a JobLogger on top of logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewJobLogger(logger zerolog.Logger) *JobLogger {
	return &JobLogger{
		logger: logger.With().Str("component", "jobs").Logger(),
	}
}

func (j *JobLogger) forJob(ctx context.Context, kind, userID string) zerolog.Logger {
	logCtx := j.logger.With().Str("job", kind)
	if userID != "" {
		logCtx = logCtx.Str("user_id", userID)
	}
	if correlationID := CorrelationIDFromContext(ctx); correlationID != "" {
		logCtx = logCtx.Str("correlation_id", correlationID)
	}
	return logCtx.Logger()
}

// Enqueued logs a job handed to the publisher.
func (j *JobLogger) Enqueued(ctx context.Context, kind, messageID, userID string) {
	l := j.forJob(ctx, kind, userID)
	l.Debug().Str("message_id", messageID).Msg("job enqueued")
}

// Processed logs a job that ran to completion.
func (j *JobLogger) Processed(ctx context.Context, kind, userID string, d time.Duration) {
	l := j.forJob(ctx, kind, userID)
	l.Info().Dur("duration", d).Msg("job processed")
}

// Skipped logs a job that completed without doing work, such as a missing
// profile or an empty candidate pool.
func (j *JobLogger) Skipped(ctx context.Context, kind, userID, reason string) {
	l := j.forJob(ctx, kind, userID)
	l.Info().Str("reason", reason).Msg("job skipped")
}

// Failed logs a job attempt that returned an error; the router may retry it.
func (j *JobLogger) Failed(ctx context.Context, kind, userID string, err error) {
	l := j.forJob(ctx, kind, userID)
	l.Error().Err(err).Msg("job failed")
}

// Rejected logs a message that could not be decoded or validated. It is
// acknowledged without processing.
func (j *JobLogger) Rejected(ctx context.Context, kind, messageID string, err error) {
	l := j.forJob(ctx, kind, "")
	l.Warn().Str("message_id", messageID).Err(err).Msg("job rejected")
}

// RouterStarted logs when the job router starts.
func (j *JobLogger) RouterStarted(transport string, handlers int) {
	j.logger.Info().Str("transport", transport).Int("handlers", handlers).Msg("job router started")
}

// RouterStopped logs when the job router stops.
func (j *JobLogger) RouterStopped() {
	j.logger.Info().Msg("job router stopped")
}
