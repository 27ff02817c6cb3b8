// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/eventprocessor"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/swipecache"
)

// appOptions selects which components newApp builds.
type appOptions struct {
	// serve builds the job router and keeps jobs on the configured transport.
	serve bool

	// publishOnly skips DuckDB and the swipe cache when jobs leave the
	// process over NATS. enqueue uses it so it can run next to serve.
	publishOnly bool
}

// app holds the wired components of one marquee process.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	db       *database.DB
	cache    *swipecache.Cache
	pipeline *recommend.Pipeline
	syncer   *catalog.Syncer
	worker   *eventprocessor.Worker

	transport  *eventprocessor.Transport
	publisher  *eventprocessor.Publisher
	dispatcher *eventprocessor.Dispatcher
	router     *eventprocessor.Router
	health     *eventprocessor.HealthChecker

	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func() error
}

// inline reports whether jobs run in the enqueuing goroutine. Without NATS
// no broker outlives a CLI command, so its jobs are handled before it exits.
func (o appOptions) inline(cfg *config.Config) bool {
	return !o.serve && !cfg.UsesNATS()
}

//nolint:gocyclo // sequential wiring
func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (_ *app, err error) {
	a := &app{
		cfg:    cfg,
		logger: logging.Logger(),
		health: eventprocessor.NewHealthChecker(5 * time.Second),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	inline := opts.inline(cfg)
	needData := opts.serve || inline || !opts.publishOnly

	// The swipe cache refills through the dispatcher, which is built after
	// the pipeline that writes into the cache.
	var dispatcher *eventprocessor.Dispatcher
	refiller := swipecache.RefillerFunc(func(ctx context.Context, userID string) error {
		if dispatcher == nil {
			return eventprocessor.ErrNilPublisher
		}
		return dispatcher.EnqueueBatchRefill(ctx, userID)
	})

	if needData {
		if err := a.openData(ctx, refiller); err != nil {
			return nil, err
		}
	}

	var pub eventprocessor.JobPublisher
	if inline {
		pub = eventprocessor.NewInlinePublisher(a.worker)
	} else {
		if err := a.openTransport(ctx, opts.serve); err != nil {
			return nil, err
		}
		pub = a.publisher
	}

	dispatcher, err = eventprocessor.NewDispatcher(pub, logging.WithComponent("dispatcher"))
	if err != nil {
		return nil, err
	}
	a.dispatcher = dispatcher

	if opts.serve {
		if err := a.buildRouter(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) openData(ctx context.Context, refiller swipecache.Refiller) error {
	cfg := a.cfg

	db, err := database.New(&cfg.Database, cfg.Recommend.CandidatePool)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = db
	a.onClose("database", db.Close)
	a.health.RegisterComponent("database", eventprocessor.HealthCheckFunc(db.Ping))

	store, err := swipecache.Open(ctx, &cfg.SwipeCache, logging.WithComponent("swipecache"))
	if err != nil {
		return fmt.Errorf("failed to open swipe cache: %w", err)
	}
	a.cache = swipecache.New(store, cfg.SwipeCache.KeyPrefix, refiller, logging.WithComponent("swipecache"))
	a.onClose("swipe cache", a.cache.Close)

	a.pipeline = recommend.NewPipeline(db, a.cache, cfg.Recommend, logging.WithComponent("recommend"))

	var runner eventprocessor.CatalogRunner
	client, err := catalog.NewClient(&cfg.TMDB)
	switch {
	case err == nil:
		a.syncer = catalog.NewSyncer(client, db, a.logger)
		runner = a.syncer
	case errors.Is(err, catalog.ErrNoAPIKey):
		a.logger.Debug().Msg("TMDB_API_KEY not set, catalog sync disabled")
	default:
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	a.worker = eventprocessor.NewWorker(a.pipeline, runner, logging.WithComponent("worker"))
	return nil
}

func (a *app) openTransport(ctx context.Context, serve bool) error {
	queueCfg := a.cfg.Queue
	if !serve {
		// CLI commands publish to the server started by "marquee serve".
		queueCfg.NATS.EmbeddedServer = false
	}

	transport, err := eventprocessor.NewTransport(ctx, &queueCfg, watermillLogger())
	if err != nil {
		return fmt.Errorf("failed to create %s transport: %w", queueCfg.Transport, err)
	}
	a.transport = transport
	a.onClose("transport", transport.Close)
	transport.RegisterHealth(a.health)

	breaker := eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig("job-publisher"))
	a.publisher = eventprocessor.NewPublisher(transport.Publisher, breaker)
	a.onClose("publisher", a.publisher.Close)
	a.health.RegisterComponent("publisher", a.publisher)
	return nil
}

func (a *app) buildRouter() error {
	router, err := eventprocessor.NewRouter(
		eventprocessor.RouterConfigFromQueue(&a.cfg.Queue),
		a.transport.Publisher,
		watermillLogger(),
	)
	if err != nil {
		return fmt.Errorf("failed to create job router: %w", err)
	}
	a.router = router
	a.onClose("router", router.Close)
	a.health.RegisterComponent("router", router)

	n := a.worker.Register(router, a.transport.Subscriber)
	a.logger.Info().Int("handlers", n).Str("transport", a.transport.Name()).Msg("Job handlers registered")
	return nil
}

func watermillLogger() watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logging.NewSlogLogger())
}

func (a *app) onClose(name string, fn func() error) {
	a.closers = append(a.closers, namedCloser{name: name, close: fn})
}

// Close releases components in reverse order of construction.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.close(); err != nil {
			a.logger.Error().Err(err).Str("component", c.name).Msg("Error closing component")
		}
	}
	a.closers = nil
}

// transportName is "inline" when jobs run in the enqueuing command.
func (a *app) transportName() string {
	if a.transport == nil {
		return "inline"
	}
	return a.transport.Name()
}
