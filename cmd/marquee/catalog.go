// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the movie catalog",
	}
	catalogCmd.AddCommand(newCatalogSyncCommand(ctx))
	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))
	return catalogCmd
}

func newCatalogSyncCommand(ctx *commandContext) *cobra.Command {
	var req catalog.SyncRequest

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import movies from TMDB in this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				if a.syncer == nil {
					return catalog.ErrNoAPIKey
				}
				n, err := a.syncer.Run(withCorrelation(cmd), req)
				if err != nil {
					return fmt.Errorf("catalog sync stopped after %d movies: %w", n, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies\n", n)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Mode, "mode", catalog.ModePopular, "Sync mode: popular or full")
	cmd.Flags().IntVar(&req.Pages, "pages", 0, "Popular pages to import (0 uses the default)")
	cmd.Flags().IntVar(&req.StartYear, "start-year", 0, "First release year for a full sync")
	cmd.Flags().IntVar(&req.EndYear, "end-year", 0, "Last release year for a full sync")
	cmd.Flags().IntVar(&req.PagesPerYear, "pages-per-year", 0, "Discover pages per year for a full sync")

	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and match score counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				movies, err := a.db.CountMovies(cmd.Context())
				if err != nil {
					return err
				}
				matches, err := a.db.CountMatchScores(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"Table", "Rows"},
					[][]string{
						{"movies", fmt.Sprint(movies)},
						{"match_scores", fmt.Sprint(matches)},
					},
					[]columnAlignment{alignLeft, alignRight},
				))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}
