// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend implements the deterministic scoring core of the
// recommendation pipeline.
//
// # Components
//
//   - Aggregate folds a user's interactions into a TasteVector of signed
//     genre and keyword weights.
//   - RankMovies scores candidate movies against a TasteVector and sorts them.
//   - Cosine and FriendMatch compare two users' taste vectors.
//   - Pipeline wires the three against a Store for the background jobs
//     (taste recompute, recommendation regeneration, friend match, swipe
//     batch refill).
//
// # Determinism
//
// Every stage is a pure function of the persisted interaction state at the
// time it runs. A stage never patches previous output; it recomputes from
// scratch and overwrites through upserts. Running a stage twice, or two copies
// of a stage concurrently, converges on a valid result without locking.
//
// # Unset versus empty
//
// A nil *TasteVector means the user has never interacted with any movie.
// Recommendation regeneration is skipped for such users. A non-nil vector with
// empty maps is a real (if uninformative) vector and is ranked normally.
//
// # Usage
//
//	pipeline := recommend.NewPipeline(store, batches, recommend.DefaultConfig(), logger)
//	if err := pipeline.RecomputeTaste(ctx, userID); err != nil && !recommend.IsSkip(err) {
//	    return err
//	}
package recommend
