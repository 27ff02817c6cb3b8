// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/eventprocessor"
)

type enqueueFlags struct {
	user  string
	other string
	sync  catalog.SyncRequest
}

func newEnqueueCommand(ctx *commandContext) *cobra.Command {
	var flags enqueueFlags

	kinds := make([]string, len(eventprocessor.AllJobKinds))
	for i, k := range eventprocessor.AllJobKinds {
		kinds[i] = k.String()
	}

	cmd := &cobra.Command{
		Use:       "enqueue <kind>",
		Short:     "Publish one background job",
		Long:      "Publish one background job. Kinds: " + strings.Join(kinds, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := eventprocessor.ParseJobKind(args[0])
			if err != nil {
				return err
			}
			if err := flags.validate(kind); err != nil {
				return err
			}

			return ctx.withApp(cmd, appOptions{publishOnly: true}, func(a *app) error {
				if err := enqueue(cmd, a.dispatcher, kind, flags); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Enqueued %s via %s\n", kind, a.transportName())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flags.user, "user", "", "User ID for per-user jobs and the first friend")
	cmd.Flags().StringVar(&flags.other, "other", "", "Second user ID for friend-match")
	cmd.Flags().StringVar(&flags.sync.Mode, "mode", catalog.ModePopular, "Catalog sync mode: popular or full")
	cmd.Flags().IntVar(&flags.sync.Pages, "pages", 0, "Popular pages to import (0 uses the default)")
	cmd.Flags().IntVar(&flags.sync.StartYear, "start-year", 0, "First release year for a full sync")
	cmd.Flags().IntVar(&flags.sync.EndYear, "end-year", 0, "Last release year for a full sync")
	cmd.Flags().IntVar(&flags.sync.PagesPerYear, "pages-per-year", 0, "Discover pages per year for a full sync")

	return cmd
}

func (f enqueueFlags) validate(kind eventprocessor.JobKind) error {
	switch kind {
	case eventprocessor.JobFriendMatch:
		if f.user == "" || f.other == "" {
			return fmt.Errorf("%s requires --user and --other", kind)
		}
	case eventprocessor.JobCatalogSync:
		return f.sync.Validate()
	default:
		if f.user == "" {
			return fmt.Errorf("%s requires --user", kind)
		}
	}
	return nil
}

// enqueue publishes the job as given. Malformed ids are not rejected here;
// the worker acknowledges them as no-ops.
func enqueue(cmd *cobra.Command, d *eventprocessor.Dispatcher, kind eventprocessor.JobKind, f enqueueFlags) error {
	ctx := withCorrelation(cmd)

	switch kind {
	case eventprocessor.JobTasteUpdate:
		return d.EnqueueTasteRecompute(ctx, f.user)
	case eventprocessor.JobMovieRecommendation:
		return d.EnqueueRecommendationRegen(ctx, f.user)
	case eventprocessor.JobSwipePreload:
		return d.EnqueueBatchRefill(ctx, f.user)
	case eventprocessor.JobFriendMatch:
		return d.EnqueueFriendMatch(ctx, f.user, f.other)
	case eventprocessor.JobCatalogSync:
		return d.EnqueueCatalogSync(ctx, f.sync)
	default:
		return fmt.Errorf("%w: %q", eventprocessor.ErrUnknownJob, kind)
	}
}
