// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"
)

// failingPublisher is a message.Publisher that always fails.
type failingPublisher struct {
	calls int
}

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.calls++
	return errors.New("nats: no responders available")
}

func (f *failingPublisher) Close() error { return nil }

func TestPublisher_SetsMsgID(t *testing.T) {
	t.Parallel()

	transport := NewGoChannelTransport(1, nil)
	defer transport.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, err := transport.Subscriber.Subscribe(ctx, "taste-update")
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	p := NewPublisher(transport.Publisher, nil)
	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	if err := p.Publish(context.Background(), "taste-update", msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-messages:
		got.Ack()
		if got.Metadata.Get(natsgo.MsgIdHdr) != msg.UUID {
			t.Errorf("Nats-Msg-Id = %q, want %q", got.Metadata.Get(natsgo.MsgIdHdr), msg.UUID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestPublisher_Closed(t *testing.T) {
	t.Parallel()

	p := NewPublisher(&failingPublisher{}, nil)
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := p.Publish(context.Background(), "taste-update", message.NewMessage(watermill.NewUUID(), nil))
	if !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("Publish() after Close error = %v, want ErrPublisherClosed", err)
	}
	if h := p.HealthCheck(context.Background()); h.Healthy {
		t.Error("HealthCheck() healthy after Close")
	}
}

func TestPublisher_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	cfg := DefaultCircuitBreakerConfig("test-publisher-open")
	cfg.FailureThreshold = 3
	cfg.Timeout = time.Hour
	cb := NewCircuitBreaker(cfg)

	inner := &failingPublisher{}
	p := NewPublisher(inner, cb)

	for i := 0; i < 3; i++ {
		_ = p.Publish(context.Background(), "friend-match", message.NewMessage(watermill.NewUUID(), nil))
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", cb.State())
	}

	err := p.Publish(context.Background(), "friend-match", message.NewMessage(watermill.NewUUID(), nil))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Publish() with open breaker error = %v, want ErrOpenState", err)
	}
	if inner.calls != 3 {
		t.Errorf("inner publisher calls = %d, want 3", inner.calls)
	}

	h := p.HealthCheck(context.Background())
	if h.Healthy || h.Details["circuit_breaker_state"] != "open" {
		t.Errorf("HealthCheck() = %+v, want unhealthy open breaker", h)
	}
}
