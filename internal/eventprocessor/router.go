// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/marquee/internal/config"
)

// RouterConfig holds configuration for the Watermill Router.
type RouterConfig struct {
	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64

	// Throttle configuration (messages per second, 0 = disabled)
	ThrottlePerSecond int64

	// PoisonQueueTopic receives jobs that failed every retry. Empty disables it.
	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults for the Router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: time.Second,
		RetryMaxInterval:     time.Minute,
		RetryMultiplier:      2.0,
		ThrottlePerSecond:    0,
		PoisonQueueTopic:     "jobs.poison",
	}
}

// RouterConfigFromQueue builds the router configuration from the queue settings.
func RouterConfigFromQueue(cfg *config.QueueConfig) RouterConfig {
	rc := DefaultRouterConfig()
	rc.CloseTimeout = cfg.RouterCloseTimeout
	rc.RetryMaxRetries = cfg.RouterRetryCount
	rc.RetryInitialInterval = cfg.RouterRetryInitialInterval
	rc.ThrottlePerSecond = int64(cfg.RouterThrottlePerSecond)
	rc.PoisonQueueTopic = ""
	if cfg.RouterPoisonQueueEnabled {
		rc.PoisonQueueTopic = cfg.RouterPoisonQueueTopic
	}
	return rc
}

// Router wraps the Watermill Router with the job middleware stack: poison
// queue routing, exponential backoff retry, optional throttling and panic
// recovery. Handlers are acked on nil and nacked on error.
//
// No deduplication middleware is installed; every job is idempotent.
type Router struct {
	router   *message.Router
	config   RouterConfig
	logger   watermill.LoggerAdapter
	running  atomic.Bool
	mu       sync.RWMutex
	handlers map[string]*message.Handler
}

// NewRouter creates a Watermill Router with the job middleware stack.
// poisonPublisher may be nil to drop exhausted jobs after logging them.
func NewRouter(cfg RouterConfig, poisonPublisher message.Publisher, logger watermill.LoggerAdapter) (*Router, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	r := &Router{
		router:   wmRouter,
		config:   cfg,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}

	// Outer to inner: PoisonQueue, Retry, Throttle, Recoverer. The poison
	// queue wraps retry so a message is only poisoned once retries are spent,
	// and a recovered panic is retried like any other error.
	if poisonPublisher != nil && cfg.PoisonQueueTopic != "" {
		poisonQueue, err := middleware.PoisonQueue(poisonPublisher, cfg.PoisonQueueTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poisonQueue)
	}

	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      cfg.RetryMultiplier,
			Logger:          logger,
		}
		wmRouter.AddMiddleware(retry.Middleware)
	}

	if cfg.ThrottlePerSecond > 0 {
		throttle := middleware.NewThrottle(cfg.ThrottlePerSecond, time.Second)
		wmRouter.AddMiddleware(throttle.Middleware)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	return r, nil
}

// AddConsumerHandler registers a handler that doesn't produce output messages.
func (r *Router) AddConsumerHandler(
	name string,
	subscribeTopic string,
	subscriber message.Subscriber,
	handler message.NoPublishHandlerFunc,
) *message.Handler {
	h := r.router.AddConsumerHandler(name, subscribeTopic, subscriber, handler)

	r.mu.Lock()
	r.handlers[name] = h
	r.mu.Unlock()
	return h
}

// Handlers returns the registered handler names.
func (r *Router) Handlers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Run starts the router and blocks until ctx is canceled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running returns a channel that closes when the router is running.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// Close gracefully stops the router, waiting up to CloseTimeout for
// in-flight jobs.
func (r *Router) Close() error {
	return r.router.Close()
}

// IsRunning returns whether the router is currently processing messages.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Config returns the router configuration.
func (r *Router) Config() RouterConfig {
	return r.config
}

// HealthCheck implements HealthCheckable.
func (r *Router) HealthCheck(_ context.Context) ComponentHealth {
	health := ComponentHealth{
		Name:      "router",
		LastCheck: time.Now(),
		Details:   make(map[string]interface{}),
	}

	if !r.running.Load() {
		health.Error = "Router is not running"
		return health
	}

	r.mu.RLock()
	health.Details["handlers"] = len(r.handlers)
	r.mu.RUnlock()
	health.Healthy = true
	health.Message = "Router is running"
	return health
}
