// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/recommend"
)

func TestInlinePublisher_RunsStagesInOrder(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	d, err := NewDispatcher(NewInlinePublisher(NewWorker(stages, nil, zerolog.Nop())), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	user := uuid.New()
	in := recommend.Interaction{Kind: recommend.InteractionFavoriteAdded, MovieID: uuid.New()}
	if err := d.OnInteraction(context.Background(), user.String(), in); err != nil {
		t.Fatalf("OnInteraction() error = %v", err)
	}

	stages.mu.Lock()
	defer stages.mu.Unlock()
	want := []string{"taste", "recs", "refill"}
	if len(stages.calls) != len(want) {
		t.Fatalf("calls = %+v, want %v", stages.calls, want)
	}
	for i, c := range stages.calls {
		if c.stage != want[i] || c.users[0] != user {
			t.Errorf("call %d = %+v, want %s for %s", i, c, want[i], user)
		}
	}
}

func TestInlinePublisher_ReturnsStageError(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	stages.setErr("match", errStorage)
	d, _ := NewDispatcher(NewInlinePublisher(NewWorker(stages, nil, zerolog.Nop())), zerolog.Nop())

	err := d.OnFriendAccepted(context.Background(), uuid.NewString(), uuid.NewString())
	if !errors.Is(err, errStorage) {
		t.Errorf("OnFriendAccepted() error = %v, want %v", err, errStorage)
	}
}

func TestInlinePublisher_SkipIsNotAnError(t *testing.T) {
	t.Parallel()

	stages := newFakeStages()
	d, _ := NewDispatcher(NewInlinePublisher(NewWorker(stages, nil, zerolog.Nop())), zerolog.Nop())

	if err := d.EnqueueTasteRecompute(context.Background(), "not-a-uuid"); err != nil {
		t.Errorf("EnqueueTasteRecompute(malformed) error = %v, want nil", err)
	}
	if stages.callsTo("taste") != 0 {
		t.Error("stage ran for a malformed user id")
	}
}

func TestInlinePublisher_CatalogSync(t *testing.T) {
	t.Parallel()

	without, _ := NewDispatcher(NewInlinePublisher(NewWorker(newFakeStages(), nil, zerolog.Nop())), zerolog.Nop())
	if err := without.EnqueueCatalogSync(context.Background(), catalog.SyncRequest{}); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("catalog sync without syncer error = %v, want ErrUnknownJob", err)
	}

	cat := &fakeCatalog{}
	with, _ := NewDispatcher(NewInlinePublisher(NewWorker(newFakeStages(), cat, zerolog.Nop())), zerolog.Nop())
	if err := with.EnqueueCatalogSync(context.Background(), catalog.SyncRequest{Mode: catalog.ModePopular, Pages: 1}); err != nil {
		t.Fatalf("EnqueueCatalogSync() error = %v", err)
	}
	cat.mu.Lock()
	defer cat.mu.Unlock()
	if len(cat.requests) != 1 || cat.requests[0].Pages != 1 {
		t.Errorf("requests = %+v, want one popular sync", cat.requests)
	}
}

func TestInlinePublisher_UnknownTopic(t *testing.T) {
	t.Parallel()

	p := NewInlinePublisher(NewWorker(newFakeStages(), nil, zerolog.Nop()))
	if err := p.Publish(context.Background(), "jobs.poison", jobMessage("{}")); !errors.Is(err, ErrUnknownJob) {
		t.Errorf("Publish(jobs.poison) error = %v, want ErrUnknownJob", err)
	}
}
