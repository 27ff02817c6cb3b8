// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (c *countingCheckpointer) Checkpoint(ctx context.Context) error {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("checkpoint without deadline")
	}
	return c.err
}

func TestCheckpointService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failures do not stop the loop", errors.New("database is locked")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := &countingCheckpointer{err: tt.err}
			svc := NewCheckpointService(db, 10*time.Millisecond, zerolog.Nop())

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			deadline := time.Now().Add(2 * time.Second)
			for db.calls.Load() < 3 && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want context.Canceled", err)
			}
			if got := db.calls.Load(); got < 3 {
				t.Errorf("Checkpoint called %d times, want >= 3", got)
			}
		})
	}
}

func TestCheckpointService_String(t *testing.T) {
	t.Parallel()

	if got := NewCheckpointService(&countingCheckpointer{}, time.Minute, zerolog.Nop()).String(); got != "duckdb-checkpoint" {
		t.Errorf("String() = %q", got)
	}
}
