// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

/*
client.go - Metadata provider HTTP client

Client performs single-attempt, bearer-authenticated GET requests against
the TMDB v3 API and decodes JSON bodies into caller-supplied shapes.

Failure taxonomy (all wrapped, test with errors.Is):
  - ErrInvalidRequest: the path or query cannot form a valid URL
  - ErrNetwork: transport failure, non-200 status, open circuit
  - ErrDecoding: the body does not match the requested shape

There are no retries at this layer. Callers that want resilience compose
the decorators in this package:

	var f tmdb.Fetcher = tmdb.NewClient(cfg)
	f = tmdb.NewCircuitBreakerClient(f, "tmdb-api")
	f = tmdb.NewCachingClient(f, 10*time.Minute, tmdb.CacheDetails)
*/
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
)

const (
	// DefaultBaseURL is the TMDB v3 API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// DefaultImageBaseURL serves original-size posters and backdrops.
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/original"

	maxErrorBodySize = 4 * 1024
)

var (
	ErrInvalidRequest = errors.New("tmdb: invalid request")
	ErrNetwork        = errors.New("tmdb: network error")
	ErrDecoding       = errors.New("tmdb: decoding error")
)

// StatusError reports a non-200 response. It matches ErrNetwork.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Unwrap makes errors.Is(err, ErrNetwork) hold for status failures.
func (e *StatusError) Unwrap() error {
	return ErrNetwork
}

// Fetcher is the metadata client contract: fetch path with query and
// decode the JSON body into out.
type Fetcher interface {
	Fetch(ctx context.Context, path string, query url.Values, out any) error
}

// Get is a typed convenience over Fetcher.
//
//	page, err := tmdb.Get[models.TMDBPage](ctx, f, "/movie/popular", nil)
func Get[T any](ctx context.Context, f Fetcher, path string, query url.Values) (*T, error) {
	var out T
	if err := f.Fetch(ctx, path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Config configures Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// RequestsPerSecond paces requests through a token bucket; zero
	// disables pacing.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a Client. An empty BaseURL selects DefaultBaseURL.
func NewClient(cfg Config) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	c := &Client{baseURL: base, token: cfg.Token, http: hc}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, path string, query url.Values, out any) error {
	resource := resourceOf(path)
	start := time.Now()

	reqURL, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %w", ErrNetwork, err)
		}
		metrics.TMDBRateLimitWait.Observe(time.Since(waitStart).Seconds())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordTMDBRequest(resource, "transport_error", time.Since(start))
		return fmt.Errorf("%w: GET %s: %w", ErrNetwork, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordTMDBRequest(resource, "http_error", time.Since(start))
		return &StatusError{Path: path, StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordTMDBRequest(resource, "decode_error", time.Since(start))
		logging.Debug().Err(err).Str("path", path).Msg("tmdb response did not match expected shape")
		return fmt.Errorf("%w: %s: %v", ErrDecoding, path, err)
	}

	metrics.RecordTMDBRequest(resource, "ok", time.Since(start))
	return nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, "?# ") {
		return "", fmt.Errorf("%w: path %q", ErrInvalidRequest, path)
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: url %q", ErrInvalidRequest, c.baseURL+path)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// ImageURL joins the image CDN base with a provider-relative path. A
// title without artwork yields "".
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + path
}

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	return strings.TrimSpace(string(body))
}

// resourceOf maps a request path to a low-cardinality metrics label.
func resourceOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 0 || parts[0] == "":
		return "other"
	case parts[0] == "trending":
		return "trending"
	case len(parts) >= 3 && parts[len(parts)-2] == "watch" && parts[len(parts)-1] == "providers":
		return "watch_providers"
	case len(parts) == 4 && parts[0] == "tv" && parts[2] == "season":
		return "season"
	case len(parts) == 2 && (parts[0] == "movie" || parts[0] == "tv"):
		switch parts[1] {
		case "popular", "top_rated", "now_playing", "on_the_air", "upcoming":
			return "list"
		}
		return parts[0] + "_detail"
	default:
		return "other"
	}
}
