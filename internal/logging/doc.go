// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package logging provides the zerolog-based structured logging used across Marquee.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once with Init
//   - JSON output for production and console output for development
//   - Context-aware logging with correlation ID propagation through jobs
//   - JobLogger with job lifecycle events for the background workers
//   - An slog adapter so suture and Watermill log through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("transport", "nats").Msg("Router starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Refill failed")
//
// Components that take a zerolog.Logger derive a child with a component field:
//
//	logger := logging.WithComponent("swipecache")
//
// # Correlation IDs
//
// The dispatcher stamps each job with a correlation ID. Workers restore it
// with ContextWithCorrelationID so every log line for one interaction's
// cascade of jobs can be joined:
//
//	ctx = logging.ContextWithCorrelationID(ctx, msg.Metadata.Get("correlation_id"))
//	logging.Ctx(ctx).Info().Msg("Taste vector recomputed")
//
// # slog Interop
//
// Libraries that want a *slog.Logger (sutureslog, watermill.NewSlogLogger)
// receive one from NewSlogLogger, which writes through the global logger.
package logging
