// Package client provides the HTTP transport shared by provider adapters:
// per-provider rate limiting, a circuit breaker, one retry on server errors,
// and request metrics.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"greenbier/grader/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

var (
	// ErrRateLimited is returned when the provider answers 429
	ErrRateLimited = errors.New("provider rate limited")
	// ErrUnauthorized is returned on 401/403
	ErrUnauthorized = errors.New("provider rejected credentials")
	// ErrNotFound is returned on 404
	ErrNotFound = errors.New("resource not found")
	// ErrCircuitOpen is returned while the provider's breaker is open
	ErrCircuitOpen = errors.New("provider circuit open")
)

// StatusError is a non-2xx response that is not covered by a sentinel
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Body)
}

// Retryable reports whether the status is worth one more attempt
func (e *StatusError) Retryable() bool {
	return e.Code >= 500
}

// Options configures a Client
type Options struct {
	Name          string
	Timeout       time.Duration
	RatePerMinute int
	Burst         int
	MaxRetries    int
	RetryDelay    time.Duration
	UserAgent     string
}

// Client is an HTTP client for a single provider
type Client struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

// New creates a provider client
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "GreenBier-Grader/1.0"
	}

	limit := rate.Inf
	if opts.RatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RatePerMinute))
	}

	return &Client{
		name:       opts.Name,
		limiter:    rate.NewLimiter(limit, opts.Burst),
		breaker:    newBreaker(opts.Name),
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		userAgent:  opts.UserAgent,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// Client-side errors say nothing about provider health
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return !se.Retryable()
			}
			return errors.Is(err, ErrRateLimited) ||
				errors.Is(err, ErrUnauthorized) ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.SetBreakerState(name, int(to))
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
}

// Name returns the provider name the client was created for
func (c *Client) Name() string {
	return c.name
}

// Get performs a GET request with rate limiting, circuit breaking and retry
func (c *Client) Get(ctx context.Context, url string, headers, params map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("provider", c.name).
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying provider request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, url, headers, params)
		})
		if err == nil {
			return result.([]byte), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w", c.name, ErrCircuitOpen)
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}

		var se *StatusError
		retryable := errors.As(err, &se) && se.Retryable()
		if !retryable && !isNetworkError(err) {
			return nil, err
		}

		if attempt < c.maxRetries {
			log.Warn().
				Err(err).
				Str("provider", c.name).
				Int("attempt", attempt+1).
				Msg("Received retryable error, will retry")
		}
	}

	return nil, lastErr
}

// GetJSON performs Get and decodes the body into out
func (c *Client) GetJSON(ctx context.Context, url string, headers, params map[string]string, out interface{}) error {
	body, err := c.Get(ctx, url, headers, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s response: %w", c.name, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string, headers, params map[string]string) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if len(params) > 0 {
		q := req.URL.Query()
		for key, value := range params {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	log.Debug().
		Str("provider", c.name).
		Str("url", url).
		Msg("Making provider request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		status := "error"
		if ctx.Err() != nil {
			status = "timeout"
		}
		metrics.RecordProviderRequest(c.name, status, time.Since(start).Seconds())
		return nil, &networkError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordProviderRequest(c.name, "error", time.Since(start).Seconds())
		return nil, &networkError{err: fmt.Errorf("failed to read response body: %w", err)}
	}

	metrics.RecordProviderRequest(c.name, fmt.Sprintf("%d", resp.StatusCode), time.Since(start).Seconds())

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		log.Debug().
			Str("provider", c.name).
			Int("status", resp.StatusCode).
			Int("size", len(body)).
			Msg("Provider request successful")
		return body, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordRateLimited(c.name)
		return nil, fmt.Errorf("%s: %w", c.name, ErrRateLimited)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s (status %d): %w", c.name, resp.StatusCode, ErrUnauthorized)

	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", c.name, ErrNotFound)

	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
}

// networkError marks transport failures, which are retried like 5xx
type networkError struct {
	err error
}

func (e *networkError) Error() string { return e.err.Error() }
func (e *networkError) Unwrap() error { return e.err }

func isNetworkError(err error) bool {
	var ne *networkError
	return errors.As(err, &ne)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
