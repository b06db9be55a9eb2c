// Package job runs one grading pass: load picks, collect outcomes, grade,
// persist, and report.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"greenbier/grader/internal/grading"
	"greenbier/grader/internal/metrics"
	"greenbier/grader/internal/models"
	"greenbier/grader/internal/orchestrator"
	"greenbier/grader/internal/picks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// ErrConfiguration means the run cannot start; nothing is fetched or stored
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidDate means the requested date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")
)

const dateLayout = "2006-01-02"

// Collector gathers outcomes for a set of leagues
type Collector interface {
	CollectAll(ctx context.Context, leagues []models.League, date string) *orchestrator.Result
}

// Store persists the products of a run
type Store interface {
	StoreOutcomes(ctx context.Context, outcomes []models.GameOutcome) (int, error)
	StoreGradedPicks(ctx context.Context, graded []models.GradedPick) (int, error)
	StoreSummary(ctx context.Context, summary models.DailySummary) error
}

// Options configures a Runner
type Options struct {
	// PrimaryCredential must be non-empty for a run to start
	PrimaryCredential string
	Leagues           []models.League
	JobTimeout        time.Duration
	PersistTimeout    time.Duration
}

// Runner executes grading runs. Runs are serialized.
type Runner struct {
	source    picks.Source
	collector Collector
	grader    *grading.Grader
	store     Store
	opts      Options
	mu        sync.Mutex
}

// NewRunner creates a runner. store may be nil, in which case nothing is persisted.
func NewRunner(source picks.Source, collector Collector, grader *grading.Grader, store Store, opts Options) *Runner {
	if len(opts.Leagues) == 0 {
		opts.Leagues = models.AllLeagues
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 25 * time.Second
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 10 * time.Second
	}
	return &Runner{
		source:    source,
		collector: collector,
		grader:    grader,
		store:     store,
		opts:      opts,
	}
}

// Run grades the picks for date. Only configuration and date errors are
// returned; everything else is folded into the report.
func (r *Runner) Run(ctx context.Context, date string) (*Report, error) {
	if r.opts.PrimaryCredential == "" {
		metrics.RecordGradeRun("config_error", 0)
		return nil, fmt.Errorf("%w: ODDS_API_KEY is not set", ErrConfiguration)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidDate, date, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Str("date", date).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Msg("Grading run starting")

	budget, cancel := context.WithTimeout(ctx, r.opts.JobTimeout)
	defer cancel()

	pickList, picksState := r.loadPicks(budget, date)

	result := r.collector.CollectAll(budget, r.opts.Leagues, date)
	if budget.Err() != nil {
		logger.Warn().
			Err(budget.Err()).
			Msg("Collection budget expired, grading with partial results")
	}

	graded := r.grader.GradeAll(pickList, date, result.Outcomes)
	for _, g := range graded {
		metrics.RecordGradedPick(string(g.Status))
	}
	summary := grading.Summarize(date, graded)

	// Persistence gets its own budget so an expired collection still lands
	persistCtx, persistCancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.PersistTimeout)
	defer persistCancel()
	persistence := r.persist(persistCtx, result.AllOutcomes(), graded, summary, picksState != picksFailed)

	report := &Report{
		RunID:       runID,
		Date:        date,
		Summary:     summary,
		Message:     message(date, summary, picksState, result.Outcomes.Len()),
		Coverage:    result.Coverage(),
		Diagnostics: result.Diagnostics(),
		Persistence: persistence,
		Picks:       graded,
	}

	status := "success"
	if !persistence.OK() || picksState == picksFailed {
		status = "partial"
	}
	metrics.RecordGradeRun(status, time.Since(start).Seconds())

	logger.Info().
		Int("total", summary.Total).
		Int("correct", summary.Correct).
		Int("wrong", summary.Wrong).
		Int("pending", summary.Pending).
		Float64("win_rate", summary.WinRate).
		Dur("duration", time.Since(start)).
		Msg("Grading run complete")

	return report, nil
}

type picksState int

const (
	picksLoaded picksState = iota
	picksMissing
	// picksFailed means the store could not be read; stored grades are left alone
	picksFailed
)

func (r *Runner) loadPicks(ctx context.Context, date string) ([]models.Pick, picksState) {
	logger := zerolog.Ctx(ctx)
	pickList, err := r.source.Load(ctx, date)
	switch {
	case errors.Is(err, picks.ErrNoPicks):
		logger.Warn().Msg("No picks published, collecting outcomes only")
		return nil, picksMissing
	case err != nil:
		metrics.RecordError("job", "load_picks")
		logger.Error().Err(err).Msg("Failed to load picks, collecting outcomes only")
		return nil, picksFailed
	}
	logger.Info().Int("count", len(pickList)).Msg("Picks loaded")
	return pickList, picksLoaded
}

// persist runs the three writes independently; one failing never skips another.
// Without a trustworthy pick list only outcomes are written.
func (r *Runner) persist(ctx context.Context, outcomes []models.GameOutcome, graded []models.GradedPick, summary models.DailySummary, grades bool) Persistence {
	if r.store == nil {
		return Persistence{Outcomes: PersistSkipped, GradedPicks: PersistSkipped, Summary: PersistSkipped}
	}

	var p Persistence

	n, err := r.store.StoreOutcomes(ctx, outcomes)
	p.Outcomes, p.OutcomesWritten = persistStatus(ctx, "outcomes", err), n

	if !grades {
		p.GradedPicks, p.Summary = PersistSkipped, PersistSkipped
		return p
	}

	n, err = r.store.StoreGradedPicks(ctx, graded)
	p.GradedPicks, p.GradedPicksWritten = persistStatus(ctx, "graded_picks", err), n

	p.Summary = persistStatus(ctx, "summary", r.store.StoreSummary(ctx, summary))

	return p
}

func persistStatus(ctx context.Context, what string, err error) string {
	if err != nil {
		metrics.RecordError("job", "persist_"+what)
		zerolog.Ctx(ctx).Error().Err(err).Str("store", what).Msg("Persistence failed")
		return PersistError
	}
	return PersistOK
}

func message(date string, s models.DailySummary, state picksState, outcomes int) string {
	if state == picksFailed {
		return fmt.Sprintf("Picks for %s could not be loaded; stored grades left unchanged, %d outcomes collected", date, outcomes)
	}
	if state == picksMissing || s.Total == 0 {
		return fmt.Sprintf("No picks found for %s; 0 picks graded, %d outcomes collected", date, outcomes)
	}
	return fmt.Sprintf("Graded %d of %d picks for %s (%d pending), win rate %.1f%%",
		s.Correct+s.Wrong, s.Total, date, s.Pending, s.WinRate)
}

// Yesterday returns the calendar date before now in loc, as YYYY-MM-DD
func Yesterday(now time.Time, loc *time.Location) string {
	return now.In(loc).AddDate(0, 0, -1).Format(dateLayout)
}
