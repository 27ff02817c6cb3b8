// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSwipeCommand(ctx *commandContext) *cobra.Command {
	swipeCmd := &cobra.Command{
		Use:   "swipe",
		Short: "Record swipes and read swipe batches",
	}

	swipeCmd.AddCommand(newMutationCommand(ctx, "record <user-id> <movie-id> <like|dislike>", "Record a swipe", 1, recordSwipe))
	swipeCmd.AddCommand(newSwipeFetchCommand(ctx))

	return swipeCmd
}

func newSwipeFetchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fetch <user-id>",
		Short: "Take the staged swipe batch; an empty batch requests a refill",
		Long: `Take the user's staged swipe batch and clear it. An empty batch
prints nothing and requests a refill.

With the gochannel transport the refill runs before this command exits, so
the next fetch already returns the new batch. With NATS the refill is queued
for a running "serve" process.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUUIDArg("user id", args[0])
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				batch, err := a.cache.FetchAndClear(withCorrelation(cmd), userID.String())
				if err != nil {
					return err
				}
				if batch == nil {
					batch = []string{}
				}
				if jsonOutput {
					return writeJSON(cmd, batch)
				}
				if len(batch) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Swipe batch is empty")
					return nil
				}
				for _, id := range batch {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
