// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// TasteVector holds a user's accumulated signed preference weight per tag.
// A nil *TasteVector is the "unset" state.
type TasteVector struct {
	Genres   map[string]float64 `json:"genres"`
	Keywords map[string]float64 `json:"keywords"`
}

// NewTasteVector returns an empty, non-nil vector.
func NewTasteVector() *TasteVector {
	return &TasteVector{
		Genres:   make(map[string]float64),
		Keywords: make(map[string]float64),
	}
}

// IsEmpty reports whether the vector carries no weights. A nil vector is empty.
func (t *TasteVector) IsEmpty() bool {
	return t == nil || (len(t.Genres) == 0 && len(t.Keywords) == 0)
}

// genres returns the genre map, tolerating a nil receiver.
func (t *TasteVector) genres() map[string]float64 {
	if t == nil {
		return nil
	}
	return t.Genres
}

// keywords returns the keyword map, tolerating a nil receiver.
func (t *TasteVector) keywords() map[string]float64 {
	if t == nil {
		return nil
	}
	return t.Keywords
}

// WatchStatus is the user's declared watch state for a movie.
type WatchStatus string

const (
	StatusWatching    WatchStatus = "watching"
	StatusWantToWatch WatchStatus = "want_to_watch"
	StatusCompleted   WatchStatus = "completed"
	StatusDropped     WatchStatus = "dropped"
)

// Valid reports whether s is a known status.
func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWatching, StatusWantToWatch, StatusCompleted, StatusDropped:
		return true
	default:
		return false
	}
}

// SwipeDirection is a binary like/dislike signal on a single movie.
type SwipeDirection string

const (
	SwipeLike    SwipeDirection = "like"
	SwipeDislike SwipeDirection = "dislike"
)

// Valid reports whether d is a known direction.
func (d SwipeDirection) Valid() bool {
	return d == SwipeLike || d == SwipeDislike
}

// InteractionSet is everything one user has done to movies. The collections
// are independent: a movie may be a favorite and completed at the same time.
type InteractionSet struct {
	Favorites map[uuid.UUID]struct{}
	Dislikes  map[uuid.UUID]struct{}
	Statuses  map[uuid.UUID]WatchStatus
	Swipes    map[uuid.UUID]SwipeDirection
}

// NewInteractionSet returns an InteractionSet with all collections allocated.
func NewInteractionSet() InteractionSet {
	return InteractionSet{
		Favorites: make(map[uuid.UUID]struct{}),
		Dislikes:  make(map[uuid.UUID]struct{}),
		Statuses:  make(map[uuid.UUID]WatchStatus),
		Swipes:    make(map[uuid.UUID]SwipeDirection),
	}
}

// ReferencedIDs returns every movie id mentioned anywhere in the set, sorted
// by byte order so callers issue stable queries.
func (s InteractionSet) ReferencedIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(s.Favorites)+len(s.Dislikes)+len(s.Statuses)+len(s.Swipes))
	for id := range s.Favorites {
		seen[id] = struct{}{}
	}
	for id := range s.Dislikes {
		seen[id] = struct{}{}
	}
	for id := range s.Statuses {
		seen[id] = struct{}{}
	}
	for id := range s.Swipes {
		seen[id] = struct{}{}
	}
	return sortedIDs(seen)
}

// Seen returns the favorites and dislikes. These are excluded from
// recommendation candidates; statuses and swipes are not, so a heavy swiper
// always has candidates left.
func (s InteractionSet) Seen() map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(s.Favorites)+len(s.Dislikes))
	for id := range s.Favorites {
		out[id] = struct{}{}
	}
	for id := range s.Dislikes {
		out[id] = struct{}{}
	}
	return out
}

// Swiped returns Seen plus every swiped movie. The swipe deck never shows a
// movie the user has already swiped on.
func (s InteractionSet) Swiped() map[uuid.UUID]struct{} {
	out := s.Seen()
	for id := range s.Swipes {
		out[id] = struct{}{}
	}
	return out
}

// CommonFavorites counts movies favorited by both sets.
func CommonFavorites(a, b InteractionSet) int {
	small, large := a.Favorites, b.Favorites
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if _, ok := large[id]; ok {
			n++
		}
	}
	return n
}

// MovieFeature is the read-only view of a movie used for scoring.
type MovieFeature struct {
	ID         uuid.UUID
	Genres     []string
	Keywords   []string
	Popularity float64
	Rating     float64
}

// ScoredCandidate is one ranked movie.
type ScoredCandidate struct {
	MovieID uuid.UUID `json:"movie_id"`
	Score   float64   `json:"score"`
}

// Recommendation is a persisted ScoredCandidate.
type Recommendation struct {
	MovieID     uuid.UUID `json:"movie_id"`
	Title       string    `json:"title,omitempty"`
	Score       float64   `json:"score"`
	GeneratedAt time.Time `json:"generated_at"`
}

// InteractionKind names the user action that changed an InteractionSet.
type InteractionKind string

const (
	InteractionFavoriteAdded   InteractionKind = "favorite_added"
	InteractionFavoriteRemoved InteractionKind = "favorite_removed"
	InteractionDislikeAdded    InteractionKind = "dislike_added"
	InteractionDislikeRemoved  InteractionKind = "dislike_removed"
	InteractionStatusSet       InteractionKind = "status_set"
	InteractionStatusCleared   InteractionKind = "status_cleared"
	InteractionSwipe           InteractionKind = "swipe"
)

// Interaction describes one interaction-mutating event.
type Interaction struct {
	Kind      InteractionKind
	MovieID   uuid.UUID
	Status    WatchStatus
	Direction SwipeDirection
	// PreviousDirection is the swipe this event overwrote, empty for a first swipe.
	PreviousDirection SwipeDirection
}

// TriggersRecompute reports whether the event can change the taste vector.
// Only a "like" swipe carries weight, so a dislike swipe triggers a recompute
// only when it replaces an earlier like.
func (i Interaction) TriggersRecompute() bool {
	if i.Kind == InteractionSwipe {
		return i.Direction == SwipeLike || i.PreviousDirection == SwipeLike
	}
	return true
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
