// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the job router, scheduled catalog sync and operations API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return ctx.withApp(cmd, appOptions{serve: true}, func(a *app) error {
				return serve(sigCtx, a)
			})
		},
	}
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("transport", a.transportName()).
		Str("swipe_cache", cfg.SwipeCache.Backend).
		Msg("Starting Marquee with supervisor tree")

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	// Data layer
	if cfg.Database.CheckpointInterval > 0 {
		tree.AddDataService(services.NewCheckpointService(a.db, cfg.Database.CheckpointInterval, logging.WithComponent("database")))
	}

	// Messaging layer
	routerSvc := services.NewRouterService(a.router, a.transportName(), logging.WithComponent("jobs"))
	tree.AddMessagingService(routerSvc)

	switch {
	case !cfg.CatalogSync.Enabled:
	case a.syncer == nil:
		logging.Warn().Msg("Catalog sync enabled but TMDB_API_KEY is not set, scheduled sync skipped")
	default:
		tree.AddMessagingService(services.NewCatalogSyncService(a.dispatcher, services.CatalogSyncServiceConfig{
			Interval:  cfg.CatalogSync.Interval,
			OnStartup: cfg.CatalogSync.OnStartup,
			Pages:     cfg.CatalogSync.Pages,
		}, routerSvc.Ready(), logging.WithComponent("catalog")))
		logging.Info().Dur("interval", cfg.CatalogSync.Interval).Msg("Catalog sync service added")
	}

	// API layer
	if cfg.Server.Enabled {
		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           api.NewRouter(a.db, a.cache, a.health).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       cfg.Server.Timeout,
			WriteTimeout:      cfg.Server.Timeout,
			IdleTimeout:       60 * time.Second,
		}
		tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("api")))
	}

	logging.Info().Msg("Starting supervisor tree...")
	err = tree.Serve(ctx)

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Application stopped gracefully")
	return nil
}
