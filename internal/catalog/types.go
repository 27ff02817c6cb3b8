// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// imageBaseURL prefixes TMDB poster and backdrop paths.
const imageBaseURL = "https://image.tmdb.org/t/p/w500"

// Movie is a catalog movie ready to be stored.
type Movie struct {
	TMDBID      int64
	Title       string
	Overview    string
	ReleaseDate *time.Time // nil when TMDB had no valid YYYY-MM-DD date
	Rating      float64
	Popularity  float64
	PosterURL   string
	BackdropURL string
	Genres      []string
	Keywords    []string
	Metadata    []byte // raw TMDB details payload
}

// MovieWriter upserts catalog movies keyed by TMDB id and returns the local id.
type MovieWriter interface {
	UpsertCatalogMovie(ctx context.Context, m Movie) (uuid.UUID, error)
}

// Page is one page of a TMDB list endpoint.
type Page struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []ListedMovie `json:"results"`
}

// ListedMovie is the subset of a list entry the syncer needs.
type ListedMovie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Keyword is a TMDB keyword.
type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Details is the /movie/{id} response.
type Details struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Genres       []Genre `json:"genres"`
}

type keywordsResponse struct {
	ID       int64     `json:"id"`
	Keywords []Keyword `json:"keywords"`
}

// MovieFromTMDB maps a details payload and its keywords onto a Movie.
// raw is stored verbatim as the movie's metadata.
func MovieFromTMDB(d *Details, raw []byte, keywords []Keyword) Movie {
	m := Movie{
		TMDBID:     d.ID,
		Title:      d.Title,
		Overview:   d.Overview,
		Rating:     d.VoteAverage,
		Popularity: d.Popularity,
		Genres:     make([]string, 0, len(d.Genres)),
		Keywords:   make([]string, 0, len(keywords)),
		Metadata:   raw,
	}
	if m.Title == "" {
		m.Title = d.Name
	}

	if d.ReleaseDate != "" {
		if t, err := time.Parse("2006-01-02", d.ReleaseDate); err == nil {
			m.ReleaseDate = &t
		}
	}
	if d.PosterPath != "" {
		m.PosterURL = imageBaseURL + d.PosterPath
	}
	if d.BackdropPath != "" {
		m.BackdropURL = imageBaseURL + d.BackdropPath
	}

	for _, g := range d.Genres {
		if g.Name != "" {
			m.Genres = append(m.Genres, g.Name)
		}
	}
	for _, k := range keywords {
		if k.Name != "" {
			m.Keywords = append(m.Keywords, k.Name)
		}
	}
	return m
}
