// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package services provides suture.Service wrappers for Marquee components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture can name it in log events.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve

Job Router (RouterService):
  - Runs the Watermill job router until the context is canceled
  - Closes Ready() once the router is consuming, so schedulers never publish
    into a gochannel topic that has no subscriber yet
  - A router that stops on its own returns suture.ErrTerminateSupervisorTree:
    Watermill closes the subscribers with the router, so it cannot be
    restarted in-process

Catalog Sync Scheduler (CatalogSyncService):
  - Enqueues a popular catalog sync every interval
  - Optionally enqueues one as soon as the router is ready
  - Enqueue failures are logged and retried on the next tick

DuckDB Checkpoint (CheckpointService):
  - Flushes the DuckDB WAL into the database file on an interval

# Interfaces

The wrappers depend on small interfaces rather than concrete types so the
package does not import eventprocessor or database, and tests can use fakes.
*/
package services
