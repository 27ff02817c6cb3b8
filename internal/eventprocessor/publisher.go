// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marquee/internal/metrics"
)

// Publisher wraps a Watermill publisher with circuit breaker protection.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	breakerName    string
	mu             sync.RWMutex
	closed         bool
}

// NewPublisher wraps pub. cb may be nil to publish without a breaker.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}]) *Publisher {
	p := &Publisher{
		publisher:      pub,
		circuitBreaker: cb,
	}
	if cb != nil {
		p.breakerName = cb.Name()
	}
	return p
}

// Publish sends msg to topic. The message UUID doubles as the JetStream
// Nats-Msg-Id so that publish retries are not stored twice.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}
	msg.SetContext(ctx)

	if p.circuitBreaker == nil {
		return p.publisher.Publish(topic, msg)
	}

	_, err := p.circuitBreaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(topic, msg)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(p.breakerName, "rejected").Inc()
		return fmt.Errorf("publish %s: %w", topic, err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(p.breakerName, "failure").Inc()
		return err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(p.breakerName, "success").Inc()
	return nil
}

// Close stops accepting messages. The wrapped publisher is owned by the
// Transport and is not closed here.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// HealthCheck reports the breaker state.
func (p *Publisher) HealthCheck(_ context.Context) ComponentHealth {
	health := ComponentHealth{
		Name:      "publisher",
		Healthy:   true,
		LastCheck: time.Now(),
		Details:   make(map[string]interface{}),
	}

	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		health.Healthy = false
		health.Error = "publisher is closed"
		return health
	}

	if p.circuitBreaker != nil {
		state := p.circuitBreaker.State()
		health.Details["circuit_breaker_state"] = state.String()
		switch state {
		case gobreaker.StateOpen:
			health.Healthy = false
			health.Error = "circuit breaker is open"
		case gobreaker.StateHalfOpen:
			health.Degraded = true
			health.Message = "circuit breaker is half-open"
		}
	}
	return health
}
