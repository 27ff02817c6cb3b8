// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// maxErrorBodySize limits how much of an error response is kept.
	maxErrorBodySize = 64 * 1024

	breakerName = "tmdb-api"
)

// Client is a TMDB v3 API client with rate limiting, 429 backoff and a
// circuit breaker.
//
// Keys that look like a v4 read access token (prefix "eyJ") are sent as a
// Bearer token; anything else is sent as the api_key query parameter.
type Client struct {
	baseURL        string
	apiKey         string
	bearer         bool
	language       string
	client         *http.Client
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a TMDB client from configuration.
func NewClient(cfg *config.TMDBConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = "en-US"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(cfg.Burst, 1)
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return &Client{
		baseURL:        baseURL,
		apiKey:         cfg.APIKey,
		bearer:         strings.HasPrefix(cfg.APIKey, "eyJ"),
		language:       language,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		cb:             newBreaker(),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
	}, nil
}

func newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx answers mean TMDB is up; only transport errors and 5xx count.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
			}
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Popular returns one page of /movie/popular.
func (c *Client) Popular(ctx context.Context, page int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("language", c.language)

	var out Page
	if err := c.getJSON(ctx, "popular", "/movie/popular", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Trending returns /trending/movie/{window}; window is "day" or "week".
func (c *Client) Trending(ctx context.Context, window string) (*Page, error) {
	var out Page
	if err := c.getJSON(ctx, "trending", "/trending/movie/"+url.PathEscape(window), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Discover returns one page of the most popular movies released in year.
func (c *Client) Discover(ctx context.Context, year, page int) (*Page, error) {
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("primary_release_year", strconv.Itoa(year))
	params.Set("page", strconv.Itoa(page))
	params.Set("language", c.language)

	var out Page
	if err := c.getJSON(ctx, "discover", "/discover/movie", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Details returns /movie/{id} decoded plus the raw payload.
func (c *Client) Details(ctx context.Context, tmdbID int64) (*Details, []byte, error) {
	params := url.Values{}
	params.Set("language", c.language)

	body, err := c.get(ctx, "details", fmt.Sprintf("/movie/%d", tmdbID), params)
	if err != nil {
		return nil, nil, err
	}

	var out Details
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, nil, fmt.Errorf("failed to decode tmdb details %d: %w", tmdbID, err)
	}
	return &out, body, nil
}

// Keywords returns the keyword list of a movie.
func (c *Client) Keywords(ctx context.Context, tmdbID int64) ([]Keyword, error) {
	var out keywordsResponse
	if err := c.getJSON(ctx, "keywords", fmt.Sprintf("/movie/%d/keywords", tmdbID), nil, &out); err != nil {
		return nil, err
	}
	return out.Keywords, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	body, err := c.get(ctx, endpoint, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode tmdb %s response: %w", endpoint, err)
	}
	return nil
}

// get waits for the rate limiter and performs the request through the
// circuit breaker.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tmdb rate limiter: %w", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.doRequestWithRateLimit(ctx, endpoint, path, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		}
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return body, nil
}

// doRequestWithRateLimit performs the request, retrying HTTP 429 with
// exponential backoff (1s, 2s, 4s...) or the server's Retry-After.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if !c.bearer {
		params.Set("api_key", c.apiKey)
	}
	reqURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.bearer {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordTMDBRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("tmdb %s request failed: %w", endpoint, err)
		}
		metrics.RecordTMDBRequest(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			_ = resp.Body.Close()

			delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					delay = time.Duration(seconds) * time.Second
				}
			}

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		return readResponse(endpoint, resp)
	}
}

func readResponse(endpoint string, resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tmdb %s response: %w", endpoint, err)
	}
	return body, nil
}
