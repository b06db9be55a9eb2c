// Package providers adapts external score feeds into normalized game outcomes.
//
// Adapters never return errors. Every failure mode is folded into the Status
// of the returned Fetch so one misbehaving provider cannot abort a grading run.
package providers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"greenbier/grader/internal/client"
	"greenbier/grader/internal/metrics"
	"greenbier/grader/internal/models"

	"github.com/rs/zerolog/log"
)

// Status describes how a fetch ended
type Status string

const (
	StatusOK           Status = "ok"
	StatusEmpty        Status = "empty"
	StatusCached       Status = "cached"
	StatusUnconfigured Status = "unconfigured"
	StatusUnsupported  Status = "unsupported"
	StatusFailed       Status = "failed"
	StatusRateLimited  Status = "rate_limited"
	StatusTimeout      Status = "timeout"
)

// Fetch is the result of asking one provider for one league and date
type Fetch struct {
	Provider string               `json:"provider"`
	League   models.League        `json:"league"`
	Outcomes []models.GameOutcome `json:"outcomes,omitempty"`
	Status   Status               `json:"status"`
	Error    string               `json:"error,omitempty"`
	Duration time.Duration        `json:"duration"`
}

// HasResults reports whether the fetch produced at least one outcome
func (f Fetch) HasResults() bool {
	return len(f.Outcomes) > 0
}

// Provider is a source of completed game outcomes
type Provider interface {
	Name() string
	Configured() bool
	Supports(league models.League) bool
	FetchResults(ctx context.Context, league models.League, date string) Fetch
}

// Registration places a provider in the fallback chain. Lower tiers are queried first.
type Registration struct {
	Provider Provider
	Tier     int
}

const dateLayout = "2006-01-02"

// fetchFunc is the adapter-specific part of a fetch
type fetchFunc func(ctx context.Context, league models.League, day time.Time) ([]models.GameOutcome, error)

// run wraps an adapter's fetch with the checks and bookkeeping shared by all adapters
func run(ctx context.Context, p Provider, league models.League, date string, fn fetchFunc) (f Fetch) {
	start := time.Now()
	f = Fetch{Provider: p.Name(), League: league}

	defer func() {
		f.Duration = time.Since(start)
		metrics.RecordFetch(f.Provider, string(league), string(f.Status), len(f.Outcomes))
	}()

	if !p.Configured() {
		f.Status = StatusUnconfigured
		return f
	}
	if !p.Supports(league) {
		f.Status = StatusUnsupported
		return f
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		f.Status = StatusFailed
		f.Error = "invalid date: " + date
		return f
	}

	outcomes, err := fn(ctx, league, day)
	if err != nil {
		f.Status = classify(ctx, err)
		f.Error = err.Error()
		log.Warn().
			Err(err).
			Str("provider", f.Provider).
			Str("league", string(league)).
			Str("date", date).
			Str("status", string(f.Status)).
			Msg("Provider fetch failed")
		return f
	}

	for i := range outcomes {
		outcomes[i].League = league
		outcomes[i].Date = date
		outcomes[i].SourceProvider = f.Provider
	}

	f.Outcomes = outcomes
	f.Status = StatusOK
	if len(outcomes) == 0 {
		f.Status = StatusEmpty
	}

	log.Debug().
		Str("provider", f.Provider).
		Str("league", string(league)).
		Str("date", date).
		Int("outcomes", len(outcomes)).
		Msg("Provider fetch complete")
	return f
}

func classify(ctx context.Context, err error) Status {
	switch {
	case errors.Is(err, client.ErrRateLimited):
		return StatusRateLimited
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return StatusTimeout
	default:
		return StatusFailed
	}
}

// parseScore accepts provider scores encoded as strings
func parseScore(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// localDate returns the calendar date of an RFC3339 timestamp in loc
func localDate(ts string, loc *time.Location) (string, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z", "2006-01-02T15:04:05"} {
		t, err := time.Parse(layout, ts)
		if err == nil {
			return t.In(loc).Format(dateLayout), true
		}
	}
	return "", false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
