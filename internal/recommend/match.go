// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"math"
	"sort"
)

const (
	matchGenreWeight    = 0.6
	matchKeywordWeight  = 0.3
	matchFavoriteWeight = 0.1

	// favoritesForFullCredit common favorites saturate the favorite term.
	favoritesForFullCredit = 10.0
)

// Cosine returns the cosine similarity of two sparse weight maps over the
// union of their keys. Returns 0 when either map is empty or has a zero norm.
// Keys are visited in sorted order so Cosine(a, b) == Cosine(b, a) exactly.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	// Each side is scaled by its largest magnitude so huge weights cannot
	// overflow the squared norms. Cosine is invariant to positive scaling.
	scaleA, scaleB := maxAbs(a), maxAbs(b)
	if scaleA == 0 || scaleB == 0 {
		return 0
	}

	var dot, normA, normB float64
	for _, k := range keys {
		va, vb := a[k]/scaleA, b[k]/scaleB
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	// Rounding can push identical vectors a hair past 1.
	return math.Max(-1, math.Min(1, sim))
}

// FriendMatch scores two users in [0, 100] from their taste vectors and the
// number of movies both have favorited. Nil vectors count as empty.
func FriendMatch(a, b *TasteVector, commonFavorites int) float64 {
	simGenres := Cosine(a.genres(), b.genres())
	simKeywords := Cosine(a.keywords(), b.keywords())
	favTerm := math.Min(float64(commonFavorites)/favoritesForFullCredit, 1.0)

	raw := matchGenreWeight*simGenres + matchKeywordWeight*simKeywords + matchFavoriteWeight*favTerm
	raw = math.Max(0, math.Min(1, raw))

	return raw * 100.0
}

func maxAbs(m map[string]float64) float64 {
	var out float64
	for _, v := range m {
		if a := math.Abs(v); a > out {
			out = a
		}
	}
	return out
}
