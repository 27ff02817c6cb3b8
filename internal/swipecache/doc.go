// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package swipecache holds each user's precomputed swipe batch: a short
// ordered list of movie ids served to the swipe UI and consumed on read.
//
// Cache.FetchAndClear reads and clears a list atomically. When the list is
// empty it returns an empty slice and asks its Refiller for a new batch
// without waiting for it. Refill jobs call Cache.Replace, which overwrites
// the list, so duplicate refills converge on the same result.
//
// Two Store backends exist:
//   - BadgerStore: embedded, the default for single-node deployments
//   - RedisStore: shared across API and worker processes
package swipecache
