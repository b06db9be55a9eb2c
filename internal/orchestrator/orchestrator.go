// Package orchestrator queries the provider chain and merges what comes back
// into one deduplicated result set per league.
package orchestrator

import (
	"context"
	"sort"
	"sync"
	"time"

	"greenbier/grader/internal/models"
	"greenbier/grader/internal/providers"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// OutcomeCache stores non-empty provider fetches between runs
type OutcomeCache interface {
	GetOutcomes(ctx context.Context, provider string, league models.League, date string) ([]models.GameOutcome, bool)
	SetOutcomes(ctx context.Context, provider string, league models.League, date string, outcomes []models.GameOutcome)
}

// Options tunes collection
type Options struct {
	// AlwaysSupplement lists leagues where every tier is merged even after a success
	AlwaysSupplement []models.League
	ProviderTimeout  time.Duration
	MaxParallel      int
	Cache            OutcomeCache
}

// Orchestrator runs the tiered provider chain
type Orchestrator struct {
	tiers       [][]providers.Provider
	supplement  map[models.League]bool
	timeout     time.Duration
	maxParallel int
	cache       OutcomeCache
}

// New groups the chain by ascending tier, keeping registration order within a tier
func New(chain []providers.Registration, opts Options) *Orchestrator {
	sorted := make([]providers.Registration, len(chain))
	copy(sorted, chain)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tier < sorted[j].Tier })

	var tiers [][]providers.Provider
	for i, reg := range sorted {
		if i == 0 || reg.Tier != sorted[i-1].Tier {
			tiers = append(tiers, nil)
		}
		tiers[len(tiers)-1] = append(tiers[len(tiers)-1], reg.Provider)
	}

	supplement := make(map[models.League]bool, len(opts.AlwaysSupplement))
	for _, l := range opts.AlwaysSupplement {
		supplement[l] = true
	}

	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 8 * time.Second
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 4
	}

	return &Orchestrator{
		tiers:       tiers,
		supplement:  supplement,
		timeout:     opts.ProviderTimeout,
		maxParallel: opts.MaxParallel,
		cache:       opts.Cache,
	}
}

// Collect queries tiers in order for one league. Ordinary leagues query
// providers one by one and stop at the first that returns results;
// always-supplement leagues fetch each tier concurrently and merge every tier.
// Cancellation of ctx ends collection early with whatever was gathered.
func (o *Orchestrator) Collect(ctx context.Context, league models.League, date string) ([]models.GameOutcome, []providers.Fetch) {
	var merged []models.GameOutcome
	var fetches []providers.Fetch
	supplement := o.supplement[league]

	for tierIdx, tier := range o.tiers {
		if ctx.Err() != nil {
			log.Warn().
				Str("league", string(league)).
				Int("tier", tierIdx+1).
				Msg("Collection budget exhausted, skipping remaining tiers")
			break
		}

		if !supplement {
			results := o.fetchUntilResults(ctx, tier, league, date)
			fetches = append(fetches, results...)
			if last := results[len(results)-1]; last.HasResults() {
				merged = append(merged, last.Outcomes...)
				break
			}
			continue
		}

		results := o.fetchTier(ctx, tier, league, date)
		fetches = append(fetches, results...)
		for _, f := range results {
			merged = append(merged, f.Outcomes...)
		}
	}

	return Dedupe(merged), fetches
}

// fetchUntilResults asks a tier's providers one at a time in priority order and
// stops at the first that returns outcomes, so lower-priority quota is not spent.
func (o *Orchestrator) fetchUntilResults(ctx context.Context, tier []providers.Provider, league models.League, date string) []providers.Fetch {
	results := make([]providers.Fetch, 0, len(tier))
	for _, p := range tier {
		f := o.fetchOne(ctx, p, league, date)
		results = append(results, f)
		if f.HasResults() || ctx.Err() != nil {
			break
		}
	}
	return results
}

// fetchTier runs every provider of a tier concurrently and returns fetches in priority order
func (o *Orchestrator) fetchTier(ctx context.Context, tier []providers.Provider, league models.League, date string) []providers.Fetch {
	results := make([]providers.Fetch, len(tier))

	var wg sync.WaitGroup
	for i, p := range tier {
		wg.Add(1)
		go func(i int, p providers.Provider) {
			defer wg.Done()
			results[i] = o.fetchOne(ctx, p, league, date)
		}(i, p)
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) fetchOne(ctx context.Context, p providers.Provider, league models.League, date string) providers.Fetch {
	cacheable := o.cache != nil && p.Configured() && p.Supports(league)

	if cacheable {
		if outcomes, ok := o.cache.GetOutcomes(ctx, p.Name(), league, date); ok {
			return providers.Fetch{
				Provider: p.Name(),
				League:   league,
				Outcomes: outcomes,
				Status:   providers.StatusCached,
			}
		}
	}

	pctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	f := p.FetchResults(pctx, league, date)

	if cacheable && f.Status == providers.StatusOK && f.HasResults() {
		o.cache.SetOutcomes(context.WithoutCancel(ctx), p.Name(), league, date, f.Outcomes)
	}
	return f
}

// CollectAll collects every league concurrently with bounded parallelism
func (o *Orchestrator) CollectAll(ctx context.Context, leagues []models.League, date string) *Result {
	type leagueResult struct {
		outcomes []models.GameOutcome
		fetches  []providers.Fetch
	}
	perLeague := make([]leagueResult, len(leagues))

	var g errgroup.Group
	g.SetLimit(o.maxParallel)
	for i, league := range leagues {
		i, league := i, league
		g.Go(func() error {
			outcomes, fetches := o.Collect(ctx, league, date)
			perLeague[i] = leagueResult{outcomes: outcomes, fetches: fetches}
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{Outcomes: make(models.ResultSet, len(leagues))}
	for i, league := range leagues {
		if len(perLeague[i].outcomes) > 0 {
			res.Outcomes[league] = perLeague[i].outcomes
		}
		res.Fetches = append(res.Fetches, perLeague[i].fetches...)
	}

	log.Info().
		Str("date", date).
		Int("leagues", len(leagues)).
		Int("outcomes", res.Outcomes.Len()).
		Msg("Collection complete")
	return res
}

// Dedupe drops outcomes whose normalized matchup was already seen. First seen wins.
func Dedupe(outcomes []models.GameOutcome) []models.GameOutcome {
	if len(outcomes) == 0 {
		return nil
	}
	seen := make(map[models.MatchupKey]bool, len(outcomes))
	out := make([]models.GameOutcome, 0, len(outcomes))
	for _, g := range outcomes {
		key := g.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}
