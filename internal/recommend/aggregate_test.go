// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregate_EmptySetIsUnset(t *testing.T) {
	t.Parallel()

	tv := Aggregate(NewInteractionSet(), nil, DefaultWeights())
	if tv != nil {
		t.Errorf("Aggregate(empty) = %+v, want nil", tv)
	}
}

func TestAggregate_SingleFavorite(t *testing.T) {
	t.Parallel()

	movie := MovieFeature{ID: uuid.New(), Genres: []string{"Drama"}, Keywords: []string{"heist"}}
	set := NewInteractionSet()
	set.Favorites[movie.ID] = struct{}{}

	tv := Aggregate(set, []MovieFeature{movie}, DefaultWeights())
	if tv == nil {
		t.Fatal("Aggregate() = nil, want vector")
	}

	wantGenres := map[string]float64{"Drama": 3.0}
	wantKeywords := map[string]float64{"heist": 2.0}
	if !reflect.DeepEqual(tv.Genres, wantGenres) {
		t.Errorf("Genres = %v, want %v", tv.Genres, wantGenres)
	}
	if !reflect.DeepEqual(tv.Keywords, wantKeywords) {
		t.Errorf("Keywords = %v, want %v", tv.Keywords, wantKeywords)
	}
}

func TestAggregate_RulesAreAdditive(t *testing.T) {
	t.Parallel()

	movie := MovieFeature{ID: uuid.New(), Genres: []string{"Action", "Sci-Fi"}, Keywords: []string{"space"}}
	set := NewInteractionSet()
	set.Favorites[movie.ID] = struct{}{}
	set.Statuses[movie.ID] = StatusCompleted
	set.Swipes[movie.ID] = SwipeLike

	tv := Aggregate(set, []MovieFeature{movie}, DefaultWeights())

	// favorite 3.0 + completed 2.0 + swipe like 1.5
	for _, g := range movie.Genres {
		if got := tv.Genres[g]; !approxEqual(got, 6.5) {
			t.Errorf("Genres[%q] = %v, want 6.5", g, got)
		}
	}
	// favorite 2.0 + swipe like 1.0; completed has no keyword weight
	if got := tv.Keywords["space"]; !approxEqual(got, 3.0) {
		t.Errorf("Keywords[space] = %v, want 3.0", got)
	}
}

func TestAggregate_WeightTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		apply       func(set InteractionSet, id uuid.UUID)
		wantGenre   float64
		wantKeyword float64
		hasKeyword  bool
	}{
		{
			name:        "favorite",
			apply:       func(s InteractionSet, id uuid.UUID) { s.Favorites[id] = struct{}{} },
			wantGenre:   3.0,
			wantKeyword: 2.0,
			hasKeyword:  true,
		},
		{
			name:        "dislike",
			apply:       func(s InteractionSet, id uuid.UUID) { s.Dislikes[id] = struct{}{} },
			wantGenre:   -2.0,
			wantKeyword: -1.5,
			hasKeyword:  true,
		},
		{
			name:      "completed",
			apply:     func(s InteractionSet, id uuid.UUID) { s.Statuses[id] = StatusCompleted },
			wantGenre: 2.0,
		},
		{
			name:      "watching",
			apply:     func(s InteractionSet, id uuid.UUID) { s.Statuses[id] = StatusWatching },
			wantGenre: 1.0,
		},
		{
			name:      "want to watch carries no weight",
			apply:     func(s InteractionSet, id uuid.UUID) { s.Statuses[id] = StatusWantToWatch },
			wantGenre: 0,
		},
		{
			name:      "dropped carries no weight",
			apply:     func(s InteractionSet, id uuid.UUID) { s.Statuses[id] = StatusDropped },
			wantGenre: 0,
		},
		{
			name:        "swipe like",
			apply:       func(s InteractionSet, id uuid.UUID) { s.Swipes[id] = SwipeLike },
			wantGenre:   1.5,
			wantKeyword: 1.0,
			hasKeyword:  true,
		},
		{
			name:      "swipe dislike carries no weight",
			apply:     func(s InteractionSet, id uuid.UUID) { s.Swipes[id] = SwipeDislike },
			wantGenre: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			movie := MovieFeature{ID: uuid.New(), Genres: []string{"Comedy"}, Keywords: []string{"road trip"}}
			set := NewInteractionSet()
			tt.apply(set, movie.ID)

			tv := Aggregate(set, []MovieFeature{movie}, DefaultWeights())
			if tv == nil {
				t.Fatal("Aggregate() = nil, want vector")
			}
			if got := tv.Genres["Comedy"]; !approxEqual(got, tt.wantGenre) {
				t.Errorf("Genres[Comedy] = %v, want %v", got, tt.wantGenre)
			}
			_, ok := tv.Keywords["road trip"]
			if ok != tt.hasKeyword {
				t.Errorf("Keywords has road trip = %v, want %v", ok, tt.hasKeyword)
			}
			if got := tv.Keywords["road trip"]; !approxEqual(got, tt.wantKeyword) {
				t.Errorf("Keywords[road trip] = %v, want %v", got, tt.wantKeyword)
			}
		})
	}
}

func TestAggregate_ReferencedButMissingMovieYieldsEmptyVector(t *testing.T) {
	t.Parallel()

	set := NewInteractionSet()
	set.Favorites[uuid.New()] = struct{}{}

	tv := Aggregate(set, nil, DefaultWeights())
	if tv == nil {
		t.Fatal("Aggregate() = nil, want empty vector")
	}
	if !tv.IsEmpty() {
		t.Errorf("IsEmpty() = false, want true for %+v", tv)
	}
}

func TestAggregate_IgnoresUnreferencedAndDuplicateMovies(t *testing.T) {
	t.Parallel()

	fav := MovieFeature{ID: uuid.New(), Genres: []string{"Horror"}}
	other := MovieFeature{ID: uuid.New(), Genres: []string{"Romance"}}
	set := NewInteractionSet()
	set.Favorites[fav.ID] = struct{}{}

	tv := Aggregate(set, []MovieFeature{fav, other, fav}, DefaultWeights())
	if got := tv.Genres["Horror"]; !approxEqual(got, 3.0) {
		t.Errorf("Genres[Horror] = %v, want 3.0", got)
	}
	if _, ok := tv.Genres["Romance"]; ok {
		t.Error("Genres contains Romance from an unreferenced movie")
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	t.Parallel()

	movies := []MovieFeature{
		{ID: uuid.New(), Genres: []string{"Action", "Drama"}, Keywords: []string{"revenge", "ninja"}},
		{ID: uuid.New(), Genres: []string{"Drama"}, Keywords: []string{"family"}},
		{ID: uuid.New(), Genres: []string{"Action"}, Keywords: []string{"ninja"}},
	}
	set := NewInteractionSet()
	set.Favorites[movies[0].ID] = struct{}{}
	set.Dislikes[movies[1].ID] = struct{}{}
	set.Statuses[movies[1].ID] = StatusWatching
	set.Swipes[movies[2].ID] = SwipeLike

	first := Aggregate(set, movies, DefaultWeights())
	second := Aggregate(set, movies, DefaultWeights())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Aggregate() not deterministic: %+v vs %+v", first, second)
	}
	for k, v := range first.Genres {
		if math.Float64bits(v) != math.Float64bits(second.Genres[k]) {
			t.Errorf("Genres[%q] bits differ: %v vs %v", k, v, second.Genres[k])
		}
	}
}

func TestAggregate_CustomWeights(t *testing.T) {
	t.Parallel()

	movie := MovieFeature{ID: uuid.New(), Genres: []string{"Western"}}
	set := NewInteractionSet()
	set.Favorites[movie.ID] = struct{}{}

	w := DefaultWeights()
	w.FavoriteGenre = 10

	tv := Aggregate(set, []MovieFeature{movie}, w)
	if got := tv.Genres["Western"]; !approxEqual(got, 10) {
		t.Errorf("Genres[Western] = %v, want 10", got)
	}
}
