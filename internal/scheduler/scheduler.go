package scheduler

import (
	"context"
	"fmt"
	"time"

	"greenbier/grader/internal/job"
	"greenbier/grader/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Runner executes one grading run
type Runner interface {
	Run(ctx context.Context, date string) (*job.Report, error)
}

// Scheduler triggers a nightly grading run for the previous day. It is the
// in-process alternative to an external scheduler calling /api/grade.
type Scheduler struct {
	runner   Runner
	spec     string
	loc      *time.Location
	cron     *cron.Cron
	stopChan chan struct{}
}

// NewScheduler creates a scheduler firing on spec, evaluated in loc
func NewScheduler(runner Runner, spec string, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		runner:   runner,
		spec:     spec,
		loc:      loc,
		cron:     cron.New(cron.WithLocation(loc)),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.spec, func() { s.runYesterday(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule grading run: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Str("timezone", s.loc.String()).
		Msg("Nightly grading scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		<-s.cron.Stop().Done()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runYesterday(ctx context.Context) {
	select {
	case <-s.stopChan:
		return
	default:
	}

	date := job.Yesterday(time.Now(), s.loc)
	log.Info().Str("date", date).Msg("Running scheduled grading...")

	report, err := s.runner.Run(ctx, date)
	if err != nil {
		metrics.RecordError("scheduler", "grade_run")
		log.Error().Err(err).Str("date", date).Msg("Scheduled grading failed")
		return
	}

	log.Info().
		Str("date", date).
		Str("message", report.Message).
		Msg("Scheduled grading complete")
}
