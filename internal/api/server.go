// Package api exposes the grading job over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"greenbier/grader/internal/job"
	"greenbier/grader/internal/models"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Runner executes a grading run
type Runner interface {
	Run(ctx context.Context, date string) (*job.Report, error)
}

// SummaryReader reads stored daily summaries
type SummaryReader interface {
	GetSummary(ctx context.Context, date string) (*models.DailySummary, error)
}

// HealthChecker reports backing store health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Auth configures trigger authorization
type Auth struct {
	CronSecret           string
	SchedulerHeader      string
	SchedulerHeaderValue string
}

// Options wires the server dependencies. Summaries and Health may be nil.
type Options struct {
	Runner        Runner
	Summaries     SummaryReader
	Health        HealthChecker
	Auth          Auth
	Location      *time.Location
	EnableMetrics bool
	// Now is overridable for tests
	Now func() time.Time
}

// NewRouter builds the HTTP routes
func NewRouter(opts Options) http.Handler {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &Handler{
		runner:    opts.Runner,
		summaries: opts.Summaries,
		health:    opts.Health,
		loc:       opts.Location,
		now:       opts.Now,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", h.HealthCheck)
	if opts.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireTrigger(opts.Auth))
		r.Get("/grade", h.Grade)
		r.Post("/grade", h.Grade)
		r.Get("/summary", h.Summary)
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	level := zerolog.InfoLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	hlog.FromRequest(r).WithLevel(level).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimiddleware.GetReqID(r.Context())).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request handled")
}
