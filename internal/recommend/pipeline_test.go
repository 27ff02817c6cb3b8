// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// mockStore is an in-memory Store for pipeline tests.
type mockStore struct {
	mu           sync.Mutex
	profiles     map[uuid.UUID]bool
	interactions map[uuid.UUID]InteractionSet
	movies       []MovieFeature // popularity order
	tastes       map[uuid.UUID]*TasteVector
	recs         map[[2]uuid.UUID]float64
	matches      map[[2]uuid.UUID]float64
	saveCalls    int
	loadErr      error
}

func newMockStore() *mockStore {
	return &mockStore{
		profiles:     make(map[uuid.UUID]bool),
		interactions: make(map[uuid.UUID]InteractionSet),
		tastes:       make(map[uuid.UUID]*TasteVector),
		recs:         make(map[[2]uuid.UUID]float64),
		matches:      make(map[[2]uuid.UUID]float64),
	}
}

func (m *mockStore) ProfileExists(_ context.Context, userID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profiles[userID], nil
}

func (m *mockStore) LoadInteractions(_ context.Context, userID uuid.UUID) (InteractionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return InteractionSet{}, m.loadErr
	}
	if set, ok := m.interactions[userID]; ok {
		return set, nil
	}
	return NewInteractionSet(), nil
}

func (m *mockStore) LoadMovieFeatures(_ context.Context, ids []uuid.UUID) ([]MovieFeature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []MovieFeature
	for _, mv := range m.movies {
		if _, ok := want[mv.ID]; ok {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *mockStore) LoadTasteVector(_ context.Context, userID uuid.UUID) (*TasteVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tastes[userID], nil
}

func (m *mockStore) SaveTasteVector(_ context.Context, userID uuid.UUID, tv *TasteVector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	m.tastes[userID] = tv
	return nil
}

func (m *mockStore) UpsertRecommendation(_ context.Context, userID, movieID uuid.UUID, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[[2]uuid.UUID{userID, movieID}] = score
	return nil
}

func (m *mockStore) UpsertMatchScore(_ context.Context, a, b uuid.UUID, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.String() < a.String() {
		a, b = b, a
	}
	m.matches[[2]uuid.UUID{a, b}] = score
	return nil
}

func (m *mockStore) LoadCandidatePool(_ context.Context, excluding map[uuid.UUID]struct{}, limit int) ([]MovieFeature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MovieFeature
	for _, mv := range m.movies {
		if _, skip := excluding[mv.ID]; skip {
			continue
		}
		out = append(out, mv)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// mockBatches records Replace calls.
type mockBatches struct {
	mu      sync.Mutex
	batches map[string][]string
}

func (b *mockBatches) Replace(_ context.Context, userID string, ids []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.batches == nil {
		b.batches = make(map[string][]string)
	}
	b.batches[userID] = append([]string(nil), ids...)
	return nil
}

func newTestPipeline(store *mockStore, batches BatchWriter) *Pipeline {
	return NewPipeline(store, batches, DefaultConfig(), zerolog.Nop())
}

func seedMovies(store *mockStore, n int, genre string) []MovieFeature {
	movies := make([]MovieFeature, n)
	for i := range movies {
		movies[i] = MovieFeature{
			ID:         uuid.New(),
			Genres:     []string{genre},
			Popularity: float64(1000 - i),
			Rating:     5,
		}
	}
	store.movies = append(store.movies, movies...)
	return movies
}

func TestPipeline_RecomputeTaste_NoProfile(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	p := newTestPipeline(store, nil)

	err := p.RecomputeTaste(context.Background(), uuid.New())
	if !errors.Is(err, ErrNoProfile) {
		t.Fatalf("RecomputeTaste() error = %v, want ErrNoProfile", err)
	}
	if !IsSkip(err) {
		t.Error("IsSkip(ErrNoProfile) = false, want true")
	}
	if store.saveCalls != 0 {
		t.Errorf("SaveTasteVector called %d times, want 0", store.saveCalls)
	}
}

func TestPipeline_RecomputeTaste_NoInteractionsClearsVector(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	store.tastes[user] = &TasteVector{Genres: map[string]float64{"Old": 9}}

	p := newTestPipeline(store, nil)
	if err := p.RecomputeTaste(context.Background(), user); err != nil {
		t.Fatalf("RecomputeTaste() error = %v", err)
	}
	if store.tastes[user] != nil {
		t.Errorf("taste vector = %+v, want nil", store.tastes[user])
	}
}

func TestPipeline_RecomputeTaste_ReplacesVector(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	movies := seedMovies(store, 1, "Drama")
	movies[0].Keywords = []string{"heist"}
	store.movies[0] = movies[0]

	set := NewInteractionSet()
	set.Favorites[movies[0].ID] = struct{}{}
	store.interactions[user] = set
	store.tastes[user] = &TasteVector{Genres: map[string]float64{"Stale": 1}}

	p := newTestPipeline(store, nil)
	for i := 0; i < 2; i++ {
		if err := p.RecomputeTaste(context.Background(), user); err != nil {
			t.Fatalf("RecomputeTaste() run %d error = %v", i, err)
		}
	}

	tv := store.tastes[user]
	if got := tv.Genres["Drama"]; got != 3.0 {
		t.Errorf("Genres[Drama] = %v, want 3.0", got)
	}
	if got := tv.Keywords["heist"]; got != 2.0 {
		t.Errorf("Keywords[heist] = %v, want 2.0", got)
	}
	if _, ok := tv.Genres["Stale"]; ok {
		t.Error("stale genre survived a full recompute")
	}
}

func TestPipeline_RecomputeTaste_PropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	store.loadErr = errors.New("connection reset")

	p := newTestPipeline(store, nil)
	err := p.RecomputeTaste(context.Background(), user)
	if err == nil || IsSkip(err) {
		t.Fatalf("RecomputeTaste() error = %v, want non-skip failure", err)
	}
}

func TestPipeline_RegenerateRecommendations_UnsetVectorSkips(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	seedMovies(store, 3, "Action")

	p := newTestPipeline(store, nil)
	n, err := p.RegenerateRecommendations(context.Background(), user)
	if !errors.Is(err, ErrNoTasteVector) {
		t.Fatalf("RegenerateRecommendations() error = %v, want ErrNoTasteVector", err)
	}
	if n != 0 || len(store.recs) != 0 {
		t.Errorf("wrote %d recommendations, want 0", len(store.recs))
	}
}

func TestPipeline_RegenerateRecommendations_ExcludesSeen(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	movies := seedMovies(store, 5, "Action")

	set := NewInteractionSet()
	set.Favorites[movies[0].ID] = struct{}{}
	set.Dislikes[movies[1].ID] = struct{}{}
	set.Swipes[movies[2].ID] = SwipeLike
	store.interactions[user] = set
	store.tastes[user] = &TasteVector{Genres: map[string]float64{"Action": 1}, Keywords: map[string]float64{}}

	p := newTestPipeline(store, nil)
	n, err := p.RegenerateRecommendations(context.Background(), user)
	if err != nil {
		t.Fatalf("RegenerateRecommendations() error = %v", err)
	}
	if n != 3 {
		t.Errorf("RegenerateRecommendations() = %d, want 3", n)
	}
	for _, seen := range []uuid.UUID{movies[0].ID, movies[1].ID} {
		if _, ok := store.recs[[2]uuid.UUID{user, seen}]; ok {
			t.Errorf("recommendation written for seen movie %s", seen)
		}
	}
	// Swiped movies stay eligible for recommendations.
	if _, ok := store.recs[[2]uuid.UUID{user, movies[2].ID}]; !ok {
		t.Error("swiped movie missing from recommendations")
	}
}

func TestPipeline_RegenerateRecommendations_EmptyVectorStillRanks(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	seedMovies(store, 2, "Action")
	store.tastes[user] = NewTasteVector()

	p := newTestPipeline(store, nil)
	n, err := p.RegenerateRecommendations(context.Background(), user)
	if err != nil {
		t.Fatalf("RegenerateRecommendations() error = %v", err)
	}
	if n != 2 {
		t.Errorf("RegenerateRecommendations() = %d, want 2", n)
	}
}

func TestPipeline_ScoreFriendMatch(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	a, b := uuid.New(), uuid.New()
	store.profiles[a] = true
	store.profiles[b] = true
	movies := seedMovies(store, 10, "Drama")

	tv := &TasteVector{Genres: map[string]float64{"Drama": 2}, Keywords: map[string]float64{"heist": 1}}
	store.tastes[a] = tv
	store.tastes[b] = tv

	setA, setB := NewInteractionSet(), NewInteractionSet()
	for _, m := range movies {
		setA.Favorites[m.ID] = struct{}{}
		setB.Favorites[m.ID] = struct{}{}
	}
	store.interactions[a] = setA
	store.interactions[b] = setB

	p := newTestPipeline(store, nil)
	score, err := p.ScoreFriendMatch(context.Background(), a, b)
	if err != nil {
		t.Fatalf("ScoreFriendMatch() error = %v", err)
	}
	if !approxEqual(score, 100) {
		t.Errorf("ScoreFriendMatch() = %v, want 100", score)
	}

	// Reversed order overwrites the same canonical row.
	if _, err := p.ScoreFriendMatch(context.Background(), b, a); err != nil {
		t.Fatalf("ScoreFriendMatch(b, a) error = %v", err)
	}
	if len(store.matches) != 1 {
		t.Errorf("len(matches) = %d, want 1", len(store.matches))
	}
}

func TestPipeline_ScoreFriendMatch_MissingProfile(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	a := uuid.New()
	store.profiles[a] = true

	p := newTestPipeline(store, nil)
	_, err := p.ScoreFriendMatch(context.Background(), a, uuid.New())
	if !errors.Is(err, ErrNoProfile) {
		t.Errorf("ScoreFriendMatch() error = %v, want ErrNoProfile", err)
	}
	if len(store.matches) != 0 {
		t.Errorf("len(matches) = %d, want 0", len(store.matches))
	}
}

func TestPipeline_RefillSwipeBatch_PopularityWithoutVector(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	movies := seedMovies(store, 30, "Action")

	batches := &mockBatches{}
	p := newTestPipeline(store, batches)

	ids, err := p.RefillSwipeBatch(context.Background(), user)
	if err != nil {
		t.Fatalf("RefillSwipeBatch() error = %v", err)
	}
	if len(ids) != 20 {
		t.Fatalf("len(ids) = %d, want 20", len(ids))
	}
	for i, id := range ids {
		if id != movies[i].ID.String() {
			t.Errorf("ids[%d] = %s, want %s", i, id, movies[i].ID)
		}
	}
	if got := batches.batches[user.String()]; len(got) != 20 {
		t.Errorf("stored batch len = %d, want 20", len(got))
	}
}

func TestPipeline_RefillSwipeBatch_RankedAndExcludesSwiped(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	comedies := seedMovies(store, 25, "Comedy")
	dramas := seedMovies(store, 5, "Drama")

	set := NewInteractionSet()
	set.Swipes[dramas[0].ID] = SwipeDislike
	store.interactions[user] = set
	store.tastes[user] = &TasteVector{Genres: map[string]float64{"Drama": 5}, Keywords: map[string]float64{}}

	batches := &mockBatches{}
	p := newTestPipeline(store, batches)

	ids, err := p.RefillSwipeBatch(context.Background(), user)
	if err != nil {
		t.Fatalf("RefillSwipeBatch() error = %v", err)
	}
	if len(ids) != 20 {
		t.Fatalf("len(ids) = %d, want 20", len(ids))
	}

	wantTop := []string{dramas[1].ID.String(), dramas[2].ID.String(), dramas[3].ID.String(), dramas[4].ID.String()}
	gotTop := append([]string(nil), ids[:4]...)
	sort.Strings(wantTop)
	sort.Strings(gotTop)
	for i := range wantTop {
		if gotTop[i] != wantTop[i] {
			t.Errorf("top dramas = %v, want %v", gotTop, wantTop)
			break
		}
	}
	for _, id := range ids {
		if id == dramas[0].ID.String() {
			t.Error("swiped movie included in batch")
		}
	}
	if ids[4] != comedies[0].ID.String() {
		t.Errorf("ids[4] = %s, want most popular comedy %s", ids[4], comedies[0].ID)
	}
}

func TestPipeline_RefillSwipeBatch_KeepsStatusMovies(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	user := uuid.New()
	store.profiles[user] = true
	movies := seedMovies(store, 5, "Action")

	set := NewInteractionSet()
	set.Favorites[movies[0].ID] = struct{}{}
	set.Dislikes[movies[1].ID] = struct{}{}
	set.Swipes[movies[2].ID] = SwipeLike
	set.Statuses[movies[3].ID] = StatusWantToWatch
	store.interactions[user] = set

	p := newTestPipeline(store, &mockBatches{})

	ids, err := p.RefillSwipeBatch(context.Background(), user)
	if err != nil {
		t.Fatalf("RefillSwipeBatch() error = %v", err)
	}
	want := []string{movies[3].ID.String(), movies[4].ID.String()}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}

func TestPipeline_RefillSwipeBatch_NoWriter(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(newMockStore(), nil)
	if _, err := p.RefillSwipeBatch(context.Background(), uuid.New()); err == nil {
		t.Error("RefillSwipeBatch() error = nil, want error without batch writer")
	}
}
