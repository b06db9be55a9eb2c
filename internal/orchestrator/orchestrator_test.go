package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"greenbier/grader/internal/models"
	"greenbier/grader/internal/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name       string
	configured bool
	results    map[models.League][]models.GameOutcome
	status     providers.Status
	block      bool
	calls      int32
}

func newFake(name string, results map[models.League][]models.GameOutcome) *fakeProvider {
	return &fakeProvider{name: name, configured: true, results: results}
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) Configured() bool                   { return f.configured }
func (f *fakeProvider) Supports(league models.League) bool { return true }

func (f *fakeProvider) FetchResults(ctx context.Context, league models.League, date string) providers.Fetch {
	atomic.AddInt32(&f.calls, 1)
	out := providers.Fetch{Provider: f.name, League: league}

	if !f.configured {
		out.Status = providers.StatusUnconfigured
		return out
	}
	if f.block {
		<-ctx.Done()
		out.Status = providers.StatusTimeout
		return out
	}
	if f.status != "" {
		out.Status = f.status
		return out
	}

	for _, g := range f.results[league] {
		g.League = league
		g.Date = date
		g.SourceProvider = f.name
		out.Outcomes = append(out.Outcomes, g)
	}
	out.Status = providers.StatusOK
	if len(out.Outcomes) == 0 {
		out.Status = providers.StatusEmpty
	}
	return out
}

func (f *fakeProvider) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func game(home, away string, hs, as int) models.GameOutcome {
	return models.GameOutcome{HomeTeam: home, AwayTeam: away, HomeScore: hs, AwayScore: as}
}

func TestCollect_FirstSuccessShortCircuits(t *testing.T) {
	primary := newFake("primary", map[models.League][]models.GameOutcome{
		models.LeagueNBA: {game("Boston Celtics", "New York Knicks", 110, 101)},
	})
	fallback := newFake("fallback", map[models.League][]models.GameOutcome{
		models.LeagueNBA: {game("Miami Heat", "Orlando Magic", 99, 98)},
	})

	o := New([]providers.Registration{
		{Provider: fallback, Tier: 2},
		{Provider: primary, Tier: 1},
	}, Options{})

	outcomes, fetches := o.Collect(context.Background(), models.LeagueNBA, "2025-01-05")

	require.Len(t, outcomes, 1)
	assert.Equal(t, "primary", outcomes[0].SourceProvider)
	assert.Equal(t, 0, fallback.callCount(), "Lower tiers must not be queried after a success")
	assert.Len(t, fetches, 1)
}

func TestCollect_FallsThroughEmptyAndFailedTiers(t *testing.T) {
	empty := newFake("empty", nil)
	failing := newFake("failing", nil)
	failing.status = providers.StatusFailed
	last := newFake("last", map[models.League][]models.GameOutcome{
		models.LeagueNHL: {game("Boston Bruins", "Toronto Maple Leafs", 3, 2)},
	})

	o := New([]providers.Registration{
		{Provider: empty, Tier: 1},
		{Provider: failing, Tier: 2},
		{Provider: last, Tier: 4},
	}, Options{})

	outcomes, fetches := o.Collect(context.Background(), models.LeagueNHL, "2025-01-05")

	require.Len(t, outcomes, 1)
	assert.Equal(t, "last", outcomes[0].SourceProvider)
	assert.Len(t, fetches, 3)
}

func TestCollect_PriorityWithinTier(t *testing.T) {
	first := newFake("first", map[models.League][]models.GameOutcome{
		models.LeagueNFL: {game("Kansas City Chiefs", "Buffalo Bills", 27, 24)},
	})
	second := newFake("second", map[models.League][]models.GameOutcome{
		models.LeagueNFL: {game("Detroit Lions", "Green Bay Packers", 31, 20)},
	})

	o := New([]providers.Registration{
		{Provider: first, Tier: 3},
		{Provider: second, Tier: 3},
	}, Options{})

	outcomes, _ := o.Collect(context.Background(), models.LeagueNFL, "2025-01-05")

	require.Len(t, outcomes, 1)
	assert.Equal(t, "first", outcomes[0].SourceProvider)
	assert.Equal(t, 0, second.callCount(), "Same-tier providers after a success must not be queried")
}

func TestCollect_WithinTierFallsThroughEmpty(t *testing.T) {
	first := newFake("first", nil)
	second := newFake("second", map[models.League][]models.GameOutcome{
		models.LeagueNFL: {game("Detroit Lions", "Green Bay Packers", 31, 20)},
	})
	third := newFake("third", map[models.League][]models.GameOutcome{
		models.LeagueNFL: {game("Dallas Cowboys", "New York Giants", 20, 17)},
	})

	o := New([]providers.Registration{
		{Provider: first, Tier: 3},
		{Provider: second, Tier: 3},
		{Provider: third, Tier: 3},
	}, Options{})

	outcomes, fetches := o.Collect(context.Background(), models.LeagueNFL, "2025-01-05")

	require.Len(t, outcomes, 1)
	assert.Equal(t, "second", outcomes[0].SourceProvider)
	assert.Len(t, fetches, 2)
	assert.Equal(t, 0, third.callCount())
}

func TestCollect_AlwaysSupplementMergesAllTiers(t *testing.T) {
	primary := newFake("primary", map[models.League][]models.GameOutcome{
		models.LeagueNCAAB: {game("Duke Blue Devils", "North Carolina Tar Heels", 78, 70)},
	})
	supplemental := newFake("supplemental", map[models.League][]models.GameOutcome{
		models.LeagueNCAAB: {
			game("Duke Blue Devils", "North Carolina Tar Heels", 0, 0),
			game("Memphis Tigers", "Tennessee State Tigers", 81, 64),
		},
	})

	o := New([]providers.Registration{
		{Provider: primary, Tier: 1},
		{Provider: supplemental, Tier: 2},
	}, Options{AlwaysSupplement: []models.League{models.LeagueNCAAB}})

	outcomes, _ := o.Collect(context.Background(), models.LeagueNCAAB, "2025-01-05")

	require.Len(t, outcomes, 2, "Primary and supplemental games should merge")
	assert.Equal(t, "primary", outcomes[0].SourceProvider, "Duplicate keeps the higher-priority source")
	assert.Equal(t, 78, outcomes[0].HomeScore)
	assert.Equal(t, "supplemental", outcomes[1].SourceProvider)
	assert.Equal(t, 1, supplemental.callCount())
}

func TestCollect_ProviderTimeoutIsNonFatal(t *testing.T) {
	slow := newFake("slow", nil)
	slow.block = true
	fast := newFake("fast", map[models.League][]models.GameOutcome{
		models.LeagueNBA: {game("Denver Nuggets", "Utah Jazz", 120, 100)},
	})

	o := New([]providers.Registration{
		{Provider: slow, Tier: 1},
		{Provider: fast, Tier: 2},
	}, Options{ProviderTimeout: 20 * time.Millisecond})

	start := time.Now()
	outcomes, fetches := o.Collect(context.Background(), models.LeagueNBA, "2025-01-05")

	assert.Less(t, time.Since(start), time.Second)
	require.Len(t, outcomes, 1)
	assert.Equal(t, providers.StatusTimeout, fetches[0].Status)
}

func TestCollect_CancelledContextStopsEarly(t *testing.T) {
	p := newFake("p", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := New([]providers.Registration{{Provider: p, Tier: 1}}, Options{})
	outcomes, fetches := o.Collect(ctx, models.LeagueNBA, "2025-01-05")

	assert.Empty(t, outcomes)
	assert.Empty(t, fetches)
	assert.Equal(t, 0, p.callCount())
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]models.GameOutcome
	sets int
}

func (m *memCache) GetOutcomes(ctx context.Context, provider string, league models.League, date string) ([]models.GameOutcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.data[provider+string(league)+date]
	return g, ok
}

func (m *memCache) SetOutcomes(ctx context.Context, provider string, league models.League, date string, outcomes []models.GameOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[provider+string(league)+date] = outcomes
	m.sets++
}

func TestCollect_UsesCache(t *testing.T) {
	p := newFake("primary", map[models.League][]models.GameOutcome{
		models.LeagueNBA: {game("Boston Celtics", "New York Knicks", 110, 101)},
	})
	cache := &memCache{data: make(map[string][]models.GameOutcome)}
	o := New([]providers.Registration{{Provider: p, Tier: 1}}, Options{Cache: cache})

	first, _ := o.Collect(context.Background(), models.LeagueNBA, "2025-01-05")
	second, fetches := o.Collect(context.Background(), models.LeagueNBA, "2025-01-05")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, p.callCount(), "Second run should be served from cache")
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, providers.StatusCached, fetches[0].Status)
}

func TestCollectAll(t *testing.T) {
	p := newFake("primary", map[models.League][]models.GameOutcome{
		models.LeagueNBA:   {game("Boston Celtics", "New York Knicks", 110, 101)},
		models.LeagueNCAAB: {game("Duke", "North Carolina", 78, 70)},
	})
	unconfigured := newFake("unconfigured", nil)
	unconfigured.configured = false

	o := New([]providers.Registration{
		{Provider: p, Tier: 1},
		{Provider: unconfigured, Tier: 2},
	}, Options{MaxParallel: 2, AlwaysSupplement: []models.League{models.LeagueNCAAB}})

	res := o.CollectAll(context.Background(), []models.League{models.LeagueNBA, models.LeagueNCAAB, models.LeagueNHL}, "2025-01-05")

	assert.Equal(t, 2, res.Outcomes.Len())
	assert.Len(t, res.Outcomes[models.LeagueNBA], 1)
	assert.Len(t, res.Outcomes[models.LeagueNCAAB], 1)
	assert.Empty(t, res.Outcomes[models.LeagueNHL])

	assert.Equal(t, map[string]int{"primary": 2}, res.Coverage())

	diag := res.Diagnostics()
	assert.Equal(t, 3, diag["primary"].Calls)
	assert.Equal(t, 2, diag["primary"].Returned)
	assert.True(t, diag["unconfigured"].Unconfigured)
}

func TestDedupe(t *testing.T) {
	outcomes := []models.GameOutcome{
		{HomeTeam: "Tennessee St.", AwayTeam: "Memphis", HomeScore: 60, AwayScore: 70, SourceProvider: "a"},
		{HomeTeam: "Tennessee St", AwayTeam: "memphis", HomeScore: 0, AwayScore: 0, SourceProvider: "b"},
		{HomeTeam: "Memphis", AwayTeam: "Tennessee St", HomeScore: 80, AwayScore: 75, SourceProvider: "b"},
	}

	deduped := Dedupe(outcomes)

	require.Len(t, deduped, 2, "Home/away order is part of the key")
	assert.Equal(t, "a", deduped[0].SourceProvider, "First seen wins")
	assert.Nil(t, Dedupe(nil))
}
