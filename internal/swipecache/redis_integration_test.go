// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

//go:build integration

package swipecache

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/testinfra"
)

func TestRedisStore_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rc, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("NewRedisContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, rc)

	store, err := OpenRedis(ctx, config.RedisConfig{Addrs: []string{rc.Addr}, PoolSize: 4})
	if err != nil {
		t.Fatalf("OpenRedis() error = %v", err)
	}
	defer store.Close()

	refiller := &countingRefiller{}
	c := New(store, "swipe_batch:", refiller, zerolog.Nop())

	t.Run("empty fetch requests refill", func(t *testing.T) {
		got, err := c.FetchAndClear(ctx, "u1")
		if err != nil || got == nil || len(got) != 0 {
			t.Fatalf("FetchAndClear() = %#v, %v; want [] and nil", got, err)
		}
		if n := len(refiller.calls()); n != 1 {
			t.Errorf("refill requests = %d, want 1", n)
		}
	})

	t.Run("replace then fetch in order", func(t *testing.T) {
		if err := c.Replace(ctx, "u2", []string{"a", "b"}); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		if err := c.Replace(ctx, "u2", []string{"c", "d", "e"}); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
		got, err := c.FetchAndClear(ctx, "u2")
		if err != nil || !slices.Equal(got, []string{"c", "d", "e"}) {
			t.Fatalf("FetchAndClear() = %v, %v; want [c d e]", got, err)
		}
		got, err = c.FetchAndClear(ctx, "u2")
		if err != nil || len(got) != 0 {
			t.Errorf("FetchAndClear() after clear = %v, %v", got, err)
		}
	})
}
