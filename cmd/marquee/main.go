// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package main is the marquee command.
//
// marquee runs the recommendation pipeline: a Watermill job router that
// recomputes taste vectors, regenerates recommendations, scores friend
// matches and refills swipe batches, plus an optional TMDB catalog sync
// and a small operations API.
//
// # Commands
//
//	marquee serve                      run the supervisor tree until SIGINT/SIGTERM
//	marquee enqueue <kind> --user ID   publish one job
//	marquee profile create ID NAME     create a profile
//	marquee favorite add USER MOVIE    record an interaction and fan out jobs
//	marquee swipe fetch USER           read and clear a swipe batch
//	marquee recs list USER             show stored recommendations
//	marquee match show USER OTHER      show a stored match score
//	marquee catalog sync               import movies from TMDB in-process
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (DUCKDB_PATH, QUEUE_TRANSPORT, NATS_URL, ...)
//   - Config file (--config, CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// # Job Delivery
//
// With QUEUE_TRANSPORT=nats, commands other than serve publish to JetStream
// and a running "marquee serve" consumes the jobs. With the default
// gochannel transport there is no broker shared between processes, so
// commands run the jobs they enqueue before returning.
//
// # Signal Handling
//
// serve shuts the supervisor tree down on SIGINT and SIGTERM. The HTTP
// server drains, the job router stops consuming, and DuckDB is closed last.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
