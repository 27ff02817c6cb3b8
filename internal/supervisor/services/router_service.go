// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/marquee/internal/logging"
)

// JobRouter is the lifecycle of the job router.
// Satisfied by *eventprocessor.Router.
type JobRouter interface {
	Run(ctx context.Context) error
	Running() <-chan struct{}
	Handlers() []string
}

// RouterService runs the job router under supervision.
type RouterService struct {
	router    JobRouter
	transport string
	jobs      *logging.JobLogger
	logger    zerolog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// NewRouterService creates a RouterService. transport names the pub/sub
// backend for the startup log line.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRouterService(router JobRouter, transport string, logger zerolog.Logger) *RouterService {
	return &RouterService{
		router:    router,
		transport: transport,
		jobs:      logging.NewJobLogger(logger),
		logger:    logger.With().Str("service", "job-router").Logger(),
		ready:     make(chan struct{}),
	}
}

// Ready is closed once the router has started consuming.
func (s *RouterService) Ready() <-chan struct{} {
	return s.ready
}

// Serve implements suture.Service. It blocks until ctx is canceled.
//
// A router that stops while ctx is still live cannot be run again, so Serve
// returns suture.ErrTerminateSupervisorTree and lets the process exit.
func (s *RouterService) Serve(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-s.router.Running():
			s.jobs.RouterStarted(s.transport, len(s.router.Handlers()))
			s.readyOnce.Do(func() { close(s.ready) })
		case <-done:
		}
	}()

	err := s.router.Run(ctx)
	s.jobs.RouterStopped()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.logger.Error().Err(err).Msg("job router stopped unexpectedly")
	return suture.ErrTerminateSupervisorTree
}

// String implements fmt.Stringer for suture log events.
func (s *RouterService) String() string {
	return "job-router"
}
