package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"greenbier/grader/internal/grading"
	"greenbier/grader/internal/models"
	"greenbier/grader/internal/orchestrator"
	"greenbier/grader/internal/picks"
	"greenbier/grader/internal/providers"
	"greenbier/grader/internal/teams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name    string
	leagues map[models.League][]models.GameOutcome
	delay   time.Duration
}

func (s *stubProvider) Name() string                       { return s.name }
func (s *stubProvider) Configured() bool                   { return true }
func (s *stubProvider) Supports(league models.League) bool { return true }

func (s *stubProvider) FetchResults(ctx context.Context, league models.League, date string) providers.Fetch {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return providers.Fetch{Provider: s.name, League: league, Status: providers.StatusTimeout}
		}
	}
	var outcomes []models.GameOutcome
	for _, o := range s.leagues[league] {
		o.League, o.Date, o.SourceProvider = league, date, s.name
		outcomes = append(outcomes, o)
	}
	status := providers.StatusOK
	if len(outcomes) == 0 {
		status = providers.StatusEmpty
	}
	return providers.Fetch{Provider: s.name, League: league, Outcomes: outcomes, Status: status}
}

type stubSource struct {
	picks []models.Pick
	err   error
}

func (s *stubSource) Load(ctx context.Context, date string) ([]models.Pick, error) {
	return s.picks, s.err
}

// memStore emulates the upsert keys of the real tables
type memStore struct {
	mu         sync.Mutex
	outcomes   map[string]models.GameOutcome
	graded     map[string]models.GradedPick
	summaries  map[string]models.DailySummary
	failGraded bool
}

func newMemStore() *memStore {
	return &memStore{
		outcomes:  make(map[string]models.GameOutcome),
		graded:    make(map[string]models.GradedPick),
		summaries: make(map[string]models.DailySummary),
	}
}

func (m *memStore) StoreOutcomes(ctx context.Context, outcomes []models.GameOutcome) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range outcomes {
		k := o.Key()
		m.outcomes[o.Date+"|"+k.Home+"|"+k.Away] = o
	}
	return len(outcomes), nil
}

func (m *memStore) StoreGradedPicks(ctx context.Context, graded []models.GradedPick) (int, error) {
	if m.failGraded {
		return 0, errors.New("connection reset")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, g := range graded {
		if !g.Status.Decided() {
			continue
		}
		k := g.Key()
		m.graded[g.Date+"|"+k.Home+"|"+k.Away] = g
		n++
	}
	return n, nil
}

func (m *memStore) StoreSummary(ctx context.Context, s models.DailySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[s.Date] = s
	return nil
}

const testDate = "2025-01-05"

func newTestRunner(source picks.Source, store Store, chain []providers.Registration, opts Options) *Runner {
	orch := orchestrator.New(chain, orchestrator.Options{
		AlwaysSupplement: []models.League{models.LeagueNCAAB, models.LeagueNCAAF},
		ProviderTimeout:  time.Second,
		MaxParallel:      2,
	})
	grader := grading.NewGrader(teams.NewDefaultResolver(), models.AllLeagues)
	if opts.PrimaryCredential == "" {
		opts.PrimaryCredential = "test-key"
	}
	return NewRunner(source, orch, grader, store, opts)
}

func dukeChain() []providers.Registration {
	primary := &stubProvider{name: "oddsapi"}
	supplemental := &stubProvider{name: "espn", leagues: map[models.League][]models.GameOutcome{
		models.LeagueNCAAB: {{HomeTeam: "Duke Blue Devils", AwayTeam: "North Carolina Tar Heels", HomeScore: 78, AwayScore: 70}},
	}}
	return []providers.Registration{
		{Provider: primary, Tier: 1},
		{Provider: supplemental, Tier: 2},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	source := &stubSource{picks: []models.Pick{{HomeTeam: "Duke", AwayTeam: "UNC", PredictedWinner: "Duke"}}}
	store := newMemStore()
	runner := newTestRunner(source, store, dukeChain(), Options{})

	report, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, models.DailySummary{Date: testDate, Total: 1, Correct: 1, Wrong: 0, Pending: 0, WinRate: 100}, report.Summary)
	require.Len(t, report.Picks, 1)
	assert.Equal(t, models.StatusWin, report.Picks[0].Status)
	assert.Equal(t, "Duke Blue Devils 78 - North Carolina Tar Heels 70", report.Picks[0].ActualScore)
	assert.Equal(t, 1, report.Coverage["espn"], "Supplemental provider should be credited")
	assert.True(t, report.Persistence.OK())
	assert.Equal(t, 1, report.Persistence.GradedPicksWritten)
	assert.NotEmpty(t, report.RunID)
}

func TestRun_Idempotent(t *testing.T) {
	source := &stubSource{picks: []models.Pick{
		{HomeTeam: "Duke", AwayTeam: "UNC", PredictedWinner: "Duke"},
		{HomeTeam: "Kansas", AwayTeam: "Baylor", PredictedWinner: "Kansas"},
	}}
	store := newMemStore()
	runner := newTestRunner(source, store, dukeChain(), Options{})

	first, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary, "Re-run should produce the same summary")
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Len(t, store.outcomes, 1, "Re-run should not duplicate outcomes")
	assert.Len(t, store.graded, 1, "Pending picks are not persisted")
	assert.Len(t, store.summaries, 1)
	assert.Equal(t, 1, second.Summary.Pending)
}

func TestRun_NoPicks(t *testing.T) {
	source := &stubSource{err: picks.ErrNoPicks}
	store := newMemStore()
	runner := newTestRunner(source, store, dukeChain(), Options{})

	report, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err, "Missing picks should not fail the run")

	assert.Equal(t, 0, report.Summary.Total)
	assert.Equal(t, 0.0, report.Summary.WinRate)
	assert.Contains(t, report.Message, "0 picks graded")
	assert.Len(t, store.outcomes, 1, "Outcomes should still be stored")
}

func TestRun_FailedPicksLoadKeepsStoredGrades(t *testing.T) {
	source := &stubSource{picks: []models.Pick{{HomeTeam: "Duke", AwayTeam: "UNC", PredictedWinner: "Duke"}}}
	store := newMemStore()
	runner := newTestRunner(source, store, dukeChain(), Options{})

	_, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)
	good := store.summaries[testDate]
	require.Equal(t, 1, good.Correct)

	// Prediction store outage on a re-run
	source.picks, source.err = nil, errors.New("blob store 503")
	report, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err, "A picks outage should not fail the run")

	assert.Equal(t, good, store.summaries[testDate], "Stored summary must survive the outage")
	assert.Len(t, store.graded, 1, "Stored graded picks must survive the outage")
	assert.Equal(t, PersistOK, report.Persistence.Outcomes)
	assert.Equal(t, PersistSkipped, report.Persistence.GradedPicks)
	assert.Equal(t, PersistSkipped, report.Persistence.Summary)
	assert.Contains(t, report.Message, "could not be loaded")
}

func TestRun_MissingCredential(t *testing.T) {
	source := &stubSource{}
	store := newMemStore()
	orch := orchestrator.New(dukeChain(), orchestrator.Options{})
	runner := NewRunner(source, orch, grading.NewGrader(teams.NewDefaultResolver(), nil), store, Options{})

	report, err := runner.Run(context.Background(), testDate)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Nil(t, report)
	assert.Empty(t, store.outcomes, "Nothing should be persisted")
}

func TestRun_InvalidDate(t *testing.T) {
	runner := newTestRunner(&stubSource{}, newMemStore(), dukeChain(), Options{})

	_, err := runner.Run(context.Background(), "01/05/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRun_PersistenceFailureIsReported(t *testing.T) {
	source := &stubSource{picks: []models.Pick{{HomeTeam: "Duke", AwayTeam: "UNC", PredictedWinner: "UNC"}}}
	store := newMemStore()
	store.failGraded = true
	runner := newTestRunner(source, store, dukeChain(), Options{})

	report, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, PersistError, report.Persistence.GradedPicks)
	assert.Equal(t, PersistOK, report.Persistence.Outcomes)
	assert.Equal(t, PersistOK, report.Persistence.Summary, "Other writes should proceed")
	assert.Equal(t, 1, report.Summary.Wrong)
	assert.Contains(t, store.summaries, testDate)
}

func TestRun_BudgetExpiryStillPersists(t *testing.T) {
	slow := &stubProvider{name: "oddsapi", delay: 5 * time.Second}
	chain := []providers.Registration{{Provider: slow, Tier: 1}}
	source := &stubSource{picks: []models.Pick{{HomeTeam: "Duke", AwayTeam: "UNC", PredictedWinner: "Duke"}}}
	store := newMemStore()
	runner := newTestRunner(source, store, chain, Options{JobTimeout: 50 * time.Millisecond})

	report, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Summary.Pending)
	assert.Equal(t, PersistOK, report.Persistence.Summary)
	assert.Contains(t, store.summaries, testDate, "Summary should be written after the budget expired")
}

func TestRun_NoStore(t *testing.T) {
	runner := newTestRunner(&stubSource{err: picks.ErrNoPicks}, nil, dukeChain(), Options{})

	report, err := runner.Run(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, PersistSkipped, report.Persistence.Summary)
	assert.True(t, report.Persistence.OK())
}

func TestYesterday(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 03:00 UTC on Jan 6 is still Jan 5 in New York
	now := time.Date(2025, 1, 6, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-04", Yesterday(now, eastern))
	assert.Equal(t, "2025-01-05", Yesterday(now, time.UTC))
}
