// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import "sort"

const (
	keywordFactor = 0.5
	baseFactor    = 0.1
)

// ScoreMovie returns the score of a single candidate:
//
//	genre_score + 0.5*keyword_score + 0.1*(rating/10 + popularity/100)
//
// Tags absent from the vector contribute 0. A nil vector scores on the base
// term alone.
//
//nolint:gocritic // MovieFeature is read-only here
func ScoreMovie(taste *TasteVector, m MovieFeature) float64 {
	genres, keywords := taste.genres(), taste.keywords()

	var genreScore, keywordScore float64
	for _, g := range m.Genres {
		genreScore += genres[g]
	}
	for _, k := range m.Keywords {
		keywordScore += keywords[k]
	}

	base := m.Rating/10.0 + m.Popularity/100.0
	return genreScore + keywordFactor*keywordScore + baseFactor*base
}

// RankMovies scores every candidate and sorts descending by score. The sort
// is stable, so ties keep the caller's order (popularity order for pools
// built by the store). An empty input yields an empty, non-nil slice.
func RankMovies(taste *TasteVector, candidates []MovieFeature) []ScoredCandidate {
	out := make([]ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		out = append(out, ScoredCandidate{
			MovieID: candidates[i].ID,
			Score:   ScoreMovie(taste, candidates[i]),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}
