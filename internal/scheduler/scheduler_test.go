package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"greenbier/grader/internal/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu    sync.Mutex
	dates []string
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, date string) (*job.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dates = append(r.dates, date)
	if r.err != nil {
		return nil, r.err
	}
	return &job.Report{Date: date}, nil
}

func TestScheduler_RunsYesterday(t *testing.T) {
	runner := &recordingRunner{}
	s := NewScheduler(runner, "@every 1h", time.UTC)

	s.runYesterday(context.Background())

	require.Len(t, runner.dates, 1)
	assert.Equal(t, time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"), runner.dates[0])
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(&recordingRunner{}, "not a cron spec", time.UTC)

	err := s.Start(context.Background())
	assert.Error(t, err, "Invalid cron spec should fail to start")
}

func TestScheduler_StartStop(t *testing.T) {
	runner := &recordingRunner{err: errors.New("boom")}
	s := NewScheduler(runner, "0 6 * * *", nil)

	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	// Jobs are ignored after stop
	s.runYesterday(context.Background())
	assert.Empty(t, runner.dates)
}
