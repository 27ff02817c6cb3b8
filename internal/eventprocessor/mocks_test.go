// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/catalog"
)

// recordingPublisher captures published messages.
type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
	err      error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{messages: make(map[string][]*message.Message)}
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msg *message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages[topic] = append(p.messages[topic], msg)
	return nil
}

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages[topic])
}

func (p *recordingPublisher) last(topic string) *message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.messages[topic]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func (p *recordingPublisher) total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, msgs := range p.messages {
		n += len(msgs)
	}
	return n
}

// stageCall records one pipeline stage invocation.
type stageCall struct {
	stage string
	users []uuid.UUID
}

// fakeStages is a Stages implementation with configurable errors.
type fakeStages struct {
	mu     sync.Mutex
	calls  []stageCall
	errs   map[string]error
	recs   int
	called chan stageCall
}

func newFakeStages() *fakeStages {
	return &fakeStages{
		errs:   make(map[string]error),
		recs:   3,
		called: make(chan stageCall, 64),
	}
}

func (f *fakeStages) setErr(stage string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[stage] = err
}

func (f *fakeStages) record(stage string, users ...uuid.UUID) error {
	f.mu.Lock()
	call := stageCall{stage: stage, users: users}
	f.calls = append(f.calls, call)
	err := f.errs[stage]
	f.mu.Unlock()

	select {
	case f.called <- call:
	default:
	}
	return err
}

func (f *fakeStages) callsTo(stage string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.stage == stage {
			n++
		}
	}
	return n
}

func (f *fakeStages) RecomputeTaste(_ context.Context, userID uuid.UUID) error {
	return f.record("taste", userID)
}

func (f *fakeStages) RegenerateRecommendations(_ context.Context, userID uuid.UUID) (int, error) {
	if err := f.record("recs", userID); err != nil {
		return 0, err
	}
	return f.recs, nil
}

func (f *fakeStages) ScoreFriendMatch(_ context.Context, a, b uuid.UUID) (float64, error) {
	if err := f.record("match", a, b); err != nil {
		return 0, err
	}
	return 42, nil
}

func (f *fakeStages) RefillSwipeBatch(_ context.Context, userID uuid.UUID) ([]string, error) {
	if err := f.record("refill", userID); err != nil {
		return nil, err
	}
	return []string{"m1"}, nil
}

// fakeCatalog records sync requests.
type fakeCatalog struct {
	mu       sync.Mutex
	requests []catalog.SyncRequest
	err      error
}

func (c *fakeCatalog) Run(_ context.Context, req catalog.SyncRequest) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	if c.err != nil {
		return 0, c.err
	}
	return 10, nil
}

var errStorage = errors.New("duckdb: connection closed")
