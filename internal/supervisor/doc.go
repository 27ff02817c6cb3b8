// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor provides process supervision for Marquee using suture v4.

# Overview

The supervisor tree organizes services into three layers for failure isolation:

	RootSupervisor ("marquee")
	├── DataSupervisor ("data-layer")
	│   └── CheckpointService (if DUCKDB_CHECKPOINT_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── RouterService (Watermill job router)
	│   └── CatalogSyncService (if CATALOG_SYNC_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (if SERVER_ENABLED)

A crashing router is restarted without taking the ops server down, so
/healthz keeps reporting while the messaging layer recovers.

Supervisor events (service start, failure, backoff) are logged through
sutureslog into the zerolog global logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewRouterService(router, "gochannel", logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return err
	}

# Shutdown

Canceling the context passed to Serve stops every layer. Each service gets
TreeConfig.ShutdownTimeout to return; UnstoppedServiceReport lists the ones
that did not.

# See Also

  - internal/supervisor/services: the suture.Service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
