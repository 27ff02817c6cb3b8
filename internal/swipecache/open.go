// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package swipecache

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
)

// Open builds the Store selected by cfg.Backend.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg *config.SwipeCacheConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case config.SwipeBackendBadger, "":
		return OpenBadger(cfg.Badger, logger)
	case config.SwipeBackendRedis:
		return OpenRedis(ctx, cfg.Redis)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
