// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import "fmt"

// Config contains all configuration for the recommendation pipeline.
type Config struct {
	// Weights are the taste-vector bumps applied per interaction rule.
	Weights Weights `koanf:"weights" json:"weights"`

	// CandidatePool is how many movies, by popularity, are considered before
	// the user's seen movies are excluded.
	CandidatePool int `koanf:"candidate_pool" json:"candidate_pool"`

	// CandidateLimit caps the candidates ranked after exclusion.
	CandidateLimit int `koanf:"candidate_limit" json:"candidate_limit"`

	// BatchSize is the number of movies written into a swipe batch.
	BatchSize int `koanf:"batch_size" json:"batch_size"`

	// ListLimit is the default number of recommendations returned to readers.
	ListLimit int `koanf:"list_limit" json:"list_limit"`
}

// Weights defines the genre and keyword bump for each interaction rule.
type Weights struct {
	FavoriteGenre    float64 `koanf:"favorite_genre" json:"favorite_genre"`
	FavoriteKeyword  float64 `koanf:"favorite_keyword" json:"favorite_keyword"`
	DislikeGenre     float64 `koanf:"dislike_genre" json:"dislike_genre"`
	DislikeKeyword   float64 `koanf:"dislike_keyword" json:"dislike_keyword"`
	CompletedGenre   float64 `koanf:"completed_genre" json:"completed_genre"`
	WatchingGenre    float64 `koanf:"watching_genre" json:"watching_genre"`
	SwipeLikeGenre   float64 `koanf:"swipe_like_genre" json:"swipe_like_genre"`
	SwipeLikeKeyword float64 `koanf:"swipe_like_keyword" json:"swipe_like_keyword"`
}

// DefaultWeights returns the production weighting table.
func DefaultWeights() Weights {
	return Weights{
		FavoriteGenre:    3.0,
		FavoriteKeyword:  2.0,
		DislikeGenre:     -2.0,
		DislikeKeyword:   -1.5,
		CompletedGenre:   2.0,
		WatchingGenre:    1.0,
		SwipeLikeGenre:   1.5,
		SwipeLikeKeyword: 1.0,
	}
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Weights:        DefaultWeights(),
		CandidatePool:  500,
		CandidateLimit: 200,
		BatchSize:      20,
		ListLimit:      20,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.CandidatePool < 1 {
		return fmt.Errorf("recommend.candidate_pool must be positive, got %d", c.CandidatePool)
	}
	if c.CandidateLimit < 1 {
		return fmt.Errorf("recommend.candidate_limit must be positive, got %d", c.CandidateLimit)
	}
	if c.CandidateLimit > c.CandidatePool {
		return fmt.Errorf("recommend.candidate_limit (%d) must not exceed candidate_pool (%d)",
			c.CandidateLimit, c.CandidatePool)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("recommend.batch_size must be positive, got %d", c.BatchSize)
	}
	if c.ListLimit < 1 {
		return fmt.Errorf("recommend.list_limit must be positive, got %d", c.ListLimit)
	}
	return nil
}
