// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import "github.com/google/uuid"

// Aggregate folds an InteractionSet into a TasteVector.
//
// movies must hold the features of the movies the set references; movies not
// referenced by the set are ignored, and referenced movies missing from the
// slice contribute nothing. Every applicable rule adds its weight to every tag
// of the movie, so a favorited and completed movie contributes both bumps.
//
// Returns nil (unset) when the set references no movies at all.
//
//nolint:gocritic // InteractionSet holds only maps, copying it is cheap
func Aggregate(set InteractionSet, movies []MovieFeature, w Weights) *TasteVector {
	if len(set.Favorites) == 0 && len(set.Dislikes) == 0 &&
		len(set.Statuses) == 0 && len(set.Swipes) == 0 {
		return nil
	}

	tv := NewTasteVector()
	done := make(map[uuid.UUID]struct{}, len(movies))

	for i := range movies {
		m := &movies[i]
		if _, dup := done[m.ID]; dup {
			continue
		}
		done[m.ID] = struct{}{}

		if _, ok := set.Favorites[m.ID]; ok {
			bump(tv.Genres, m.Genres, w.FavoriteGenre)
			bump(tv.Keywords, m.Keywords, w.FavoriteKeyword)
		}
		if _, ok := set.Dislikes[m.ID]; ok {
			bump(tv.Genres, m.Genres, w.DislikeGenre)
			bump(tv.Keywords, m.Keywords, w.DislikeKeyword)
		}
		switch set.Statuses[m.ID] {
		case StatusCompleted:
			bump(tv.Genres, m.Genres, w.CompletedGenre)
		case StatusWatching:
			bump(tv.Genres, m.Genres, w.WatchingGenre)
		}
		if set.Swipes[m.ID] == SwipeLike {
			bump(tv.Genres, m.Genres, w.SwipeLikeGenre)
			bump(tv.Keywords, m.Keywords, w.SwipeLikeKeyword)
		}
	}

	return tv
}

func bump(counter map[string]float64, tags []string, weight float64) {
	for _, tag := range tags {
		counter[tag] += weight
	}
}
