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

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultStreamName is the JetStream stream holding all job topics.
const DefaultStreamName = "MARQUEE_JOBS"

// StreamConfig describes the job stream.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	DuplicateWindow time.Duration
	Replicas        int
}

// JobStreamConfig returns the stream configuration covering every job topic
// and the poison topic.
func JobStreamConfig(poisonTopic string, retention time.Duration, maxBytes int64) StreamConfig {
	subjects := Topics()
	if poisonTopic != "" {
		subjects = append(subjects, poisonTopic)
	}
	return StreamConfig{
		Name:            DefaultStreamName,
		Subjects:        subjects,
		MaxAge:          retention,
		MaxBytes:        maxBytes,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// JetStreamContext defines the subset of jetstream.JetStream used by StreamInitializer.
type JetStreamContext interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// StreamInitializer creates or updates the job stream before publishers
// and subscribers start.
type StreamInitializer struct {
	js     JetStreamContext
	config StreamConfig
}

// NewStreamInitializer creates a stream initializer.
func NewStreamInitializer(js JetStreamContext, cfg *StreamConfig) (*StreamInitializer, error) {
	if js == nil {
		return nil, fmt.Errorf("%w: JetStream context required", ErrInvalidConfig)
	}
	if cfg == nil || cfg.Name == "" || len(cfg.Subjects) == 0 {
		return nil, fmt.Errorf("%w: stream name and subjects required", ErrInvalidConfig)
	}
	return &StreamInitializer{js: js, config: *cfg}, nil
}

// JetStreamConfig returns the jetstream configuration for the job stream.
// Jobs use work-queue retention: a message is removed once a worker acks it.
func (s *StreamInitializer) JetStreamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       s.config.Name,
		Subjects:   s.config.Subjects,
		Retention:  jetstream.WorkQueuePolicy,
		MaxAge:     s.config.MaxAge,
		MaxBytes:   s.config.MaxBytes,
		Duplicates: s.config.DuplicateWindow,
		Replicas:   s.config.Replicas,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}
}

// EnsureStream creates the stream, or updates it when it already exists.
// It is idempotent.
func (s *StreamInitializer) EnsureStream(ctx context.Context) (jetstream.Stream, error) {
	streamCfg := s.JetStreamConfig()

	_, err := s.js.Stream(ctx, s.config.Name)
	if err == nil {
		stream, err := s.js.UpdateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("update stream %s: %w", s.config.Name, err)
		}
		return stream, nil
	}

	if errors.Is(err, jetstream.ErrStreamNotFound) {
		stream, err := s.js.CreateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("create stream %s: %w", s.config.Name, err)
		}
		return stream, nil
	}

	return nil, fmt.Errorf("check stream %s: %w", s.config.Name, err)
}

// HealthCheck implements HealthCheckable.
func (s *StreamInitializer) HealthCheck(ctx context.Context) ComponentHealth {
	if _, err := s.js.Stream(ctx, s.config.Name); err != nil {
		return ComponentHealth{Healthy: false, Error: err.Error()}
	}
	return ComponentHealth{Healthy: true, Details: map[string]interface{}{"stream": s.config.Name}}
}

// Config returns the stream configuration.
func (s *StreamInitializer) Config() StreamConfig {
	return s.config
}
