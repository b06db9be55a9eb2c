package orchestrator

import (
	"greenbier/grader/internal/models"
	"greenbier/grader/internal/providers"
)

// Result is the merged output of a collection run
type Result struct {
	Outcomes models.ResultSet
	Fetches  []providers.Fetch
}

// ProviderDiagnostics summarizes how one provider behaved across all leagues
type ProviderDiagnostics struct {
	Calls        int  `json:"calls"`
	Returned     int  `json:"returned"`
	CacheHits    int  `json:"cache_hits"`
	Failures     int  `json:"failures"`
	RateLimited  int  `json:"rate_limited"`
	Timeouts     int  `json:"timeouts"`
	Unconfigured bool `json:"unconfigured,omitempty"`
}

// Coverage counts merged outcomes per source provider
func (r *Result) Coverage() map[string]int {
	coverage := make(map[string]int)
	for _, games := range r.Outcomes {
		for _, g := range games {
			coverage[g.SourceProvider]++
		}
	}
	return coverage
}

// Diagnostics aggregates fetch statuses per provider
func (r *Result) Diagnostics() map[string]ProviderDiagnostics {
	diag := make(map[string]ProviderDiagnostics)
	for _, f := range r.Fetches {
		d := diag[f.Provider]
		switch f.Status {
		case providers.StatusUnconfigured:
			d.Unconfigured = true
		case providers.StatusUnsupported:
		case providers.StatusCached:
			d.CacheHits++
			d.Returned += len(f.Outcomes)
		case providers.StatusFailed:
			d.Calls++
			d.Failures++
		case providers.StatusRateLimited:
			d.Calls++
			d.RateLimited++
		case providers.StatusTimeout:
			d.Calls++
			d.Timeouts++
		default:
			d.Calls++
			d.Returned += len(f.Outcomes)
		}
		diag[f.Provider] = d
	}
	return diag
}

// AllOutcomes flattens the result set
func (r *Result) AllOutcomes() []models.GameOutcome {
	return r.Outcomes.All()
}
