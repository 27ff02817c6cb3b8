// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"time"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/recommend"
)

const poolCacheKey = "candidate_pool"

// CachedPool holds the popularity-ordered top-N movie list shared by every
// user's candidate pool. Per-user exclusion happens after the cache.
type CachedPool struct {
	db    *DB
	size  int
	cache *cache.Cache
}

// NewCachedPool creates the pool cache. A non-positive ttl disables caching.
func NewCachedPool(db *DB, size int, ttl time.Duration) *CachedPool {
	p := &CachedPool{db: db, size: size}
	if ttl > 0 {
		p.cache = cache.New(ttl)
	}
	return p
}

// Load returns the shared pool, reading DuckDB on a miss. Callers must not
// modify the returned slice.
func (p *CachedPool) Load(ctx context.Context) ([]recommend.MovieFeature, error) {
	if p.cache != nil {
		if data, ok := p.cache.Get(poolCacheKey); ok {
			if pool, ok := data.([]recommend.MovieFeature); ok {
				return pool, nil
			}
		}
	}

	pool, err := p.db.loadPopular(ctx, p.size)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		p.cache.Set(poolCacheKey, pool)
	}
	return pool, nil
}

// Invalidate drops the cached pool so the next Load reads the catalog.
func (p *CachedPool) Invalidate() {
	if p.cache != nil {
		p.cache.Delete(poolCacheKey)
	}
}

// Stats returns hit and miss counts of the pool cache.
func (p *CachedPool) Stats() cache.Stats {
	if p.cache == nil {
		return cache.Stats{}
	}
	return p.cache.GetStats()
}

// Close stops the cache's cleanup loop.
func (p *CachedPool) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}
