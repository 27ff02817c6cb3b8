// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/recommend"
)

// mutation writes one interaction and returns the event to fan out.
type mutation func(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, args []string) (recommend.Interaction, error)

func newProfileCommand(ctx *commandContext) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profiles",
	}

	profileCmd.AddCommand(&cobra.Command{
		Use:   "create <user-id> <display-name>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUUIDArg("user id", args[0])
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				if err := a.db.CreateProfile(cmd.Context(), userID, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s\n", userID)
				return nil
			})
		},
	})

	return profileCmd
}

// newInteractionCommands returns the favorite, dislike, status and friend
// commands. Every mutation is followed by the recompute fan-out.
func newInteractionCommands(ctx *commandContext) []*cobra.Command {
	favoriteCmd := &cobra.Command{Use: "favorite", Short: "Add or remove favorites"}
	favoriteCmd.AddCommand(
		newMutationCommand(ctx, "add <user-id> <movie-id>", "Favorite a movie", 0, addFavorite),
		newMutationCommand(ctx, "remove <user-id> <movie-id>", "Remove a favorite", 0, removeFavorite),
	)

	dislikeCmd := &cobra.Command{Use: "dislike", Short: "Add or remove dislikes"}
	dislikeCmd.AddCommand(
		newMutationCommand(ctx, "add <user-id> <movie-id>", "Dislike a movie", 0, addDislike),
		newMutationCommand(ctx, "remove <user-id> <movie-id>", "Remove a dislike", 0, removeDislike),
	)

	statusCmd := &cobra.Command{Use: "status", Short: "Set or clear a watch status"}
	statusCmd.AddCommand(
		newMutationCommand(ctx, "set <user-id> <movie-id> <watching|want_to_watch|completed|dropped>", "Set a watch status", 1, setStatus),
		newMutationCommand(ctx, "clear <user-id> <movie-id>", "Clear a watch status", 0, clearStatus),
	)

	return []*cobra.Command{favoriteCmd, dislikeCmd, statusCmd, newFriendCommand(ctx)}
}

func newMutationCommand(ctx *commandContext, use, short string, extraArgs int, fn mutation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2 + extraArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUUIDArg("user id", args[0])
			if err != nil {
				return err
			}
			movieID, err := parseUUIDArg("movie id", args[1])
			if err != nil {
				return err
			}
			return ctx.withApp(cmd, appOptions{}, func(a *app) error {
				in, err := fn(cmd.Context(), a.db, userID, movieID, args[2:])
				if err != nil {
					return err
				}
				return dispatchInteraction(cmd, a, userID, in)
			})
		},
	}
}

func dispatchInteraction(cmd *cobra.Command, a *app, userID uuid.UUID, in recommend.Interaction) error {
	if err := a.dispatcher.OnInteraction(withCorrelation(cmd), userID.String(), in); err != nil {
		return fmt.Errorf("recorded %s but dispatching jobs failed: %w", in.Kind, err)
	}
	if in.TriggersRecompute() {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s, recompute dispatched via %s\n", in.Kind, userID, a.transportName())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s for %s\n", in.Kind, userID)
	}
	return nil
}

func addFavorite(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, _ []string) (recommend.Interaction, error) {
	return db.AddFavorite(ctx, userID, movieID)
}

func removeFavorite(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, _ []string) (recommend.Interaction, error) {
	return db.RemoveFavorite(ctx, userID, movieID)
}

func addDislike(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, _ []string) (recommend.Interaction, error) {
	return db.AddDislike(ctx, userID, movieID)
}

func removeDislike(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, _ []string) (recommend.Interaction, error) {
	return db.RemoveDislike(ctx, userID, movieID)
}

func setStatus(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, args []string) (recommend.Interaction, error) {
	status := recommend.WatchStatus(args[0])
	if !status.Valid() {
		return recommend.Interaction{}, fmt.Errorf("invalid status %q", args[0])
	}
	return db.SetStatus(ctx, userID, movieID, status)
}

func clearStatus(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, _ []string) (recommend.Interaction, error) {
	return db.ClearStatus(ctx, userID, movieID)
}

func recordSwipe(ctx context.Context, db *database.DB, userID, movieID uuid.UUID, args []string) (recommend.Interaction, error) {
	direction := recommend.SwipeDirection(args[0])
	if !direction.Valid() {
		return recommend.Interaction{}, fmt.Errorf("invalid swipe direction %q", args[0])
	}
	return db.RecordSwipe(ctx, userID, movieID, direction)
}

func newFriendCommand(ctx *commandContext) *cobra.Command {
	friendCmd := &cobra.Command{Use: "friend", Short: "Friendship events"}

	friendCmd.AddCommand(&cobra.Command{
		Use:   "accept <user-id> <friend-id>",
		Short: "Score a newly accepted friendship",
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
			if userA == userB {
				return errors.New("a user cannot befriend themselves")
			}
			return ctx.withApp(cmd, appOptions{publishOnly: true}, func(a *app) error {
				if err := a.dispatcher.OnFriendAccepted(withCorrelation(cmd), userA.String(), userB.String()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Match scoring dispatched via %s\n", a.transportName())
				return nil
			})
		},
	})

	return friendCmd
}
