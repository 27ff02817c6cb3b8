// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/recommend"
)

func newRecsCommand(ctx *commandContext) *cobra.Command {
	recsCmd := &cobra.Command{
		Use:   "recs",
		Short: "Inspect stored recommendations",
	}
	recsCmd.AddCommand(newRecsListCommand(ctx))
	return recsCmd
}

func newRecsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's recommendations by score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUUIDArg("user id", args[0])
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				n := limit
				if n <= 0 {
					n = a.cfg.Recommend.ListLimit
				}
				recs, err := a.db.ListRecommendations(cmd.Context(), userID, n)
				if err != nil {
					return err
				}
				if jsonOutput {
					if recs == nil {
						recs = []recommend.Recommendation{}
					}
					return writeJSON(cmd, recs)
				}
				if len(recs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recommendations")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Movie", "Title", "Score"},
					recommendationRows(recs),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
				))
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows (0 uses recommend.list_limit)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func recommendationRows(recs []recommend.Recommendation) [][]string {
	rows := make([][]string, 0, len(recs))
	for i, r := range recs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.MovieID.String(),
			r.Title,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
		})
	}
	return rows
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Inspect friend match scores",
	}

	matchCmd.AddCommand(&cobra.Command{
		Use:   "show <user-id> <friend-id>",
		Short: "Show the stored match score for a pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userA, err := parseUUIDArg("user id", args[0])
			if err != nil {
				return err
			}
			userB, err := parseUUIDArg("friend id", args[1])
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				score, ok, err := a.db.GetMatchScore(cmd.Context(), userA, userB)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no match score for %s and %s", userA, userB)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%.1f\n", score)
				return nil
			})
		},
	})

	return matchCmd
}
