// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(50 * time.Millisecond)
	defer c.Close()

	c.Set("key1", "value1")
	if _, exists := c.Get("key1"); !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(100 * time.Millisecond)

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be expired")
	}
	if stats := c.GetStats(); stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", stats.Evictions)
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.Set("key1", "value1")
	c.Delete("key1")
	c.Delete("missing")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
	stats := c.GetStats()
	if stats.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1 (missing key does not count)", stats.Evictions)
	}
	if stats.TotalKeys != 0 {
		t.Errorf("TotalKeys = %d, want 0", stats.TotalKeys)
	}
}

func TestCacheClear(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	c.Clear()

	stats := c.GetStats()
	if stats.TotalKeys != 0 || stats.Evictions != 3 {
		t.Errorf("after Clear TotalKeys=%d Evictions=%d, want 0/3", stats.TotalKeys, stats.Evictions)
	}
}

func TestCacheSetWithTTLOverridesDefault(t *testing.T) {
	c := New(1 * time.Hour)
	defer c.Close()

	c.SetWithTTL("short", "v", 20*time.Millisecond)
	c.Set("long", "v")

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("short-TTL entry should have expired")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("default-TTL entry should still exist")
	}
}

func TestCacheHitRate(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	if got := c.HitRate(); got != 0 {
		t.Errorf("HitRate() with no operations = %v, want 0", got)
	}

	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("missing")

	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheManualCleanup(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	c.SetWithTTL("expired", 1, time.Millisecond)
	c.Set("fresh", 2)
	time.Sleep(10 * time.Millisecond)

	c.cleanup()

	stats := c.GetStats()
	if stats.TotalKeys != 1 {
		t.Errorf("TotalKeys after cleanup = %d, want 1", stats.TotalKeys)
	}
	if stats.Evictions != 1 {
		t.Errorf("Evictions after cleanup = %d, want 1", stats.Evictions)
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New(1 * time.Minute)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%5)
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
				if j%10 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.Hits+stats.Misses != 2000 {
		t.Errorf("Hits+Misses = %d, want 2000", stats.Hits+stats.Misses)
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New(1 * time.Minute)
	c.Close()
	c.Close()
}
