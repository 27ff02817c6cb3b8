// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/recommend"
)

type testPipeline struct {
	dispatcher *Dispatcher
	router     *Router
	transport  *Transport
}

// startTestPipeline wires dispatcher, router and worker over the gochannel transport.
func startTestPipeline(t *testing.T, stages Stages, cfg RouterConfig) *testPipeline {
	t.Helper()

	transport := NewGoChannelTransport(1, watermill.NopLogger{})
	router, err := NewRouter(cfg, transport.Publisher, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}

	worker := NewWorker(stages, nil, zerolog.Nop())
	if n := worker.Register(router, transport.Subscriber); n != 4 {
		t.Fatalf("Register() = %d handlers, want 4", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- router.Run(ctx) }()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	t.Cleanup(func() {
		cancel()
		_ = router.Close()
		<-runErr
		_ = transport.Close()
	})

	pub := NewPublisher(transport.Publisher, NewCircuitBreaker(DefaultCircuitBreakerConfig("test-"+t.Name())))
	dispatcher, err := NewDispatcher(pub, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	return &testPipeline{dispatcher: dispatcher, router: router, transport: transport}
}

func fastRetryConfig() RouterConfig {
	cfg := DefaultRouterConfig()
	cfg.CloseTimeout = 5 * time.Second
	cfg.RetryMaxRetries = 2
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond
	cfg.RetryMultiplier = 1.5
	return cfg
}

func waitForStages(t *testing.T, stages *fakeStages, want map[string]int) {
	t.Helper()

	got := make(map[string]int)
	deadline := time.After(5 * time.Second)
	for {
		done := true
		for stage, n := range want {
			if got[stage] < n {
				done = false
			}
		}
		if done {
			return
		}
		select {
		case call := <-stages.called:
			got[call.stage]++
		case <-deadline:
			t.Fatalf("stage calls = %v, want %v", got, want)
		}
	}
}

func TestPipeline_InteractionFansOut(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	p := startTestPipeline(t, stages, fastRetryConfig())

	in := recommend.Interaction{Kind: recommend.InteractionFavoriteAdded, MovieID: uuid.New()}
	if err := p.dispatcher.OnInteraction(context.Background(), uuid.NewString(), in); err != nil {
		t.Fatalf("OnInteraction() error = %v", err)
	}

	waitForStages(t, stages, map[string]int{"taste": 1, "recs": 1, "refill": 1})
}

func TestPipeline_FriendAccepted(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	p := startTestPipeline(t, stages, fastRetryConfig())

	if err := p.dispatcher.OnFriendAccepted(context.Background(), uuid.NewString(), uuid.NewString()); err != nil {
		t.Fatalf("OnFriendAccepted() error = %v", err)
	}
	waitForStages(t, stages, map[string]int{"match": 1})
}

// A malformed id is acked once and never retried or poisoned.
func TestPipeline_MalformedIDIsAcked(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	p := startTestPipeline(t, stages, fastRetryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poisoned, err := p.transport.Subscriber.Subscribe(ctx, "jobs.poison")
	if err != nil {
		t.Fatalf("Subscribe(poison) error = %v", err)
	}

	if err := p.dispatcher.EnqueueTasteRecompute(context.Background(), "user-42"); err != nil {
		t.Fatalf("EnqueueTasteRecompute() error = %v", err)
	}
	// A valid job behind it proves the malformed one was consumed.
	valid := uuid.NewString()
	if err := p.dispatcher.EnqueueTasteRecompute(context.Background(), valid); err != nil {
		t.Fatalf("EnqueueTasteRecompute() error = %v", err)
	}
	waitForStages(t, stages, map[string]int{"taste": 1})

	select {
	case msg := <-poisoned:
		msg.Ack()
		t.Fatalf("malformed job was poisoned: %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
	if n := stages.callsTo("taste"); n != 1 {
		t.Errorf("taste stage calls = %d, want 1", n)
	}
}

func TestPipeline_FailingJobIsRetriedThenPoisoned(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	stages.setErr("refill", errStorage)
	cfg := fastRetryConfig()
	p := startTestPipeline(t, stages, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poisoned, err := p.transport.Subscriber.Subscribe(ctx, cfg.PoisonQueueTopic)
	if err != nil {
		t.Fatalf("Subscribe(poison) error = %v", err)
	}

	userID := uuid.NewString()
	if err := p.dispatcher.EnqueueBatchRefill(context.Background(), userID); err != nil {
		t.Fatalf("EnqueueBatchRefill() error = %v", err)
	}

	select {
	case msg := <-poisoned:
		msg.Ack()
		if !strings.Contains(string(msg.Payload), userID) {
			t.Errorf("poisoned payload = %s, want user %s", msg.Payload, userID)
		}
		if reason := msg.Metadata.Get(middleware.ReasonForPoisonedKey); !strings.Contains(reason, errStorage.Error()) {
			t.Errorf("poison reason = %q, want %q", reason, errStorage)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("failing job was not poisoned")
	}

	if n := stages.callsTo("refill"); n != cfg.RetryMaxRetries+1 {
		t.Errorf("refill attempts = %d, want %d", n, cfg.RetryMaxRetries+1)
	}
}

func TestPipeline_SkipIsNotRetried(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	stages.setErr("recs", recommend.ErrNoTasteVector)
	p := startTestPipeline(t, stages, fastRetryConfig())

	if err := p.dispatcher.EnqueueRecommendationRegen(context.Background(), uuid.NewString()); err != nil {
		t.Fatalf("EnqueueRecommendationRegen() error = %v", err)
	}
	waitForStages(t, stages, map[string]int{"recs": 1})

	// Retries would land within a few milliseconds.
	time.Sleep(50 * time.Millisecond)
	if n := stages.callsTo("recs"); n != 1 {
		t.Errorf("recs attempts = %d, want 1", n)
	}
}
