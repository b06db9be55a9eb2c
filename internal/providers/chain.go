package providers

import (
	"greenbier/grader/internal/client"
	"greenbier/grader/internal/config"
)

const (
	TierPrimary    = 1
	TierFree       = 2
	TierSpecialty  = 3
	TierLastResort = 4
)

// DefaultChain builds the provider fallback chain from configuration.
// Order within a tier is priority order.
func DefaultChain(cfg *config.Config) []Registration {
	loc := cfg.Location()
	newClient := func(name string) *client.Client {
		return client.New(client.Options{
			Name:          name,
			Timeout:       cfg.ProviderTimeout,
			RatePerMinute: cfg.ProviderRatePerMin,
			Burst:         cfg.ProviderBurst,
			MaxRetries:    1,
		})
	}

	return []Registration{
		{Tier: TierPrimary, Provider: NewOddsAPI(cfg.OddsAPIBaseURL, cfg.OddsAPIKey, cfg.OddsAPIDaysFrom, loc, newClient("oddsapi"))},
		{Tier: TierFree, Provider: NewESPN(cfg.ESPNBaseURL, cfg.ESPNEnabled, newClient("espn"))},
		{Tier: TierSpecialty, Provider: NewSportsDataIO(cfg.SportsDataBaseURL, cfg.SportsDataAPIKey, newClient("sportsdataio"))},
		{Tier: TierSpecialty, Provider: NewCollegeData(cfg.CFBDBaseURL, cfg.CBBDBaseURL, cfg.CFBDAPIKey, loc, newClient("collegedata"))},
		{Tier: TierLastResort, Provider: NewTheSportsDB(cfg.SportsDBBaseURL, cfg.SportsDBAPIKey, cfg.SportsDBEnabled, newClient("thesportsdb"))},
	}
}
