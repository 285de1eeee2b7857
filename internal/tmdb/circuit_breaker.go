// Unistream - Streaming Catalog Aggregation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/unistream

package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/unistream/internal/logging"
	"github.com/tomtom215/unistream/internal/metrics"
)

// CircuitBreakerClient wraps a Fetcher so that a failing provider stops
// receiving traffic instead of stalling every page fan-out on timeouts.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 60% failure rate with minimum 10 requests
//
// Only transport errors and 5xx/429 responses count as failures. A 404
// for a title without provider data or a decode mismatch says nothing
// about provider health.
type CircuitBreakerClient struct {
	next Fetcher
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

var _ Fetcher = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient wraps next.
func NewCircuitBreakerClient(next Fetcher, name string) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: countsAsHealthy,
	})

	return &CircuitBreakerClient{next: next, cb: cb, name: name}
}

// Fetch implements Fetcher.
func (c *CircuitBreakerClient) Fetch(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, c.next.Fetch(ctx, path, query, out)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		return fmt.Errorf("%w: circuit %s: %v", ErrNetwork, c.name, err)
	default:
		if countsAsHealthy(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(c.cb.Counts().ConsecutiveFailures))
		}
		return err
	}
}

// State returns the breaker state name (closed, half-open, open).
func (c *CircuitBreakerClient) State() string {
	return stateToString(c.cb.State())
}

func countsAsHealthy(err error) bool {
	if err == nil || errors.Is(err, ErrDecoding) || errors.Is(err, ErrInvalidRequest) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests
	}
	return false
}

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

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
