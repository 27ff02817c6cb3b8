// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package swipecache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/marquee/internal/config"
)

// RedisStore keeps swipe batches as Redis lists. Read-and-clear and replace
// each run inside one MULTI/EXEC.
type RedisStore struct {
	client redis.UniversalClient
}

// OpenRedis connects to Redis (single node or cluster, depending on how many
// addresses are configured) and verifies the connection.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping redis %v: %w", cfg.Addrs, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// PopAll runs LRANGE 0 -1 and DEL in one transaction.
func (s *RedisStore) PopAll(ctx context.Context, key string) ([]string, error) {
	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop %s: %w", key, err)
	}

	ids := lrange.Val()
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Replace runs DEL and RPUSH in one transaction.
func (s *RedisStore) Replace(ctx context.Context, key string, movieIDs []string) error {
	values := make([]interface{}, len(movieIDs))
	for i, id := range movieIDs {
		values[i] = id
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
