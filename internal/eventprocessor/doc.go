// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package eventprocessor dispatches and runs the background recompute jobs.

Producers call the Dispatcher after any interaction-mutating action. The
Dispatcher serializes a small JSON payload and publishes it to the topic of
the job kind, then returns without waiting for the job to run:

	taste-update          {"user_id"}                  recompute the taste vector
	movie-recommendation  {"user_id"}                  rank and upsert recommendations
	friend-match          {"user_a_id","user_b_id"}   score a user pair
	catalog-sync          {"mode","pages",...}         import movies from TMDB
	swipe-preload         {"user_id"}                  refill the swipe batch

An interaction fans out to taste-update, movie-recommendation and
swipe-preload at once. The three jobs are not chained, so a regeneration can
run against the previous taste vector; every stage is a full recompute that
ends in an upsert, so the stored state converges.

# Architecture

	Dispatcher --> Publisher (circuit breaker) --> Transport
	                                                  |
	                    gochannel (single process) or NATS JetStream
	                                                  |
	Router (PoisonQueue -> Retry -> Throttle -> Recoverer) --> Worker

The Worker decodes and validates the payload, then calls the
recommend.Pipeline stage or the catalog.Syncer. A payload that cannot be
decoded, a malformed user id, a missing profile and an unset taste vector are
no-op successes: the message is acked and the skip is logged and counted.
Storage and TMDB errors are returned, retried by the router with exponential
backoff, and finally published to the poison topic (jobs.poison by default).

Delivery is at-least-once and there is no deduplication layer.

# Transports

The gochannel transport keeps everything in process and is the default for a
single node. The NATS transport publishes to a JetStream work-queue stream
that can be shared by several worker processes through a queue group; an
embedded NATS server can be started for deployments without an external one.

# Usage

	transport, err := eventprocessor.NewTransport(ctx, &cfg.Queue, wmLogger)
	router, err := eventprocessor.NewRouter(eventprocessor.RouterConfigFromQueue(&cfg.Queue), transport.Publisher, wmLogger)
	breaker := eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig("job-publisher"))
	publisher := eventprocessor.NewPublisher(transport.Publisher, breaker)
	dispatcher, err := eventprocessor.NewDispatcher(publisher, logger)

	worker := eventprocessor.NewWorker(pipeline, syncer, logger)
	worker.Register(router, transport.Subscriber)
	go router.Run(ctx)

	_ = dispatcher.OnInteraction(ctx, userID, interaction)
*/
package eventprocessor
