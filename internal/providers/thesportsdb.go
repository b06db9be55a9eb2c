package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"greenbier/grader/internal/client"
	"greenbier/grader/internal/models"
)

var sportsDBLeagues = map[models.League]string{
	models.LeagueNBA:   "NBA",
	models.LeagueNCAAB: "NCAA Division I Basketball Mens",
	models.LeagueNFL:   "NFL",
	models.LeagueNCAAF: "NCAA Division 1",
	models.LeagueNHL:   "NHL",
}

var sportsDBFinal = []string{"Match Finished", "FT", "AOT", "AET", "Final"}

// TheSportsDB is the free last-resort fallback
type TheSportsDB struct {
	baseURL string
	apiKey  string
	enabled bool
	client  *client.Client
}

// NewTheSportsDB creates the adapter. An empty key falls back to the public test key.
func NewTheSportsDB(baseURL, apiKey string, enabled bool, c *client.Client) *TheSportsDB {
	if apiKey == "" {
		apiKey = "3"
	}
	return &TheSportsDB{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		enabled: enabled,
		client:  c,
	}
}

func (t *TheSportsDB) Name() string     { return "thesportsdb" }
func (t *TheSportsDB) Configured() bool { return t.enabled }

func (t *TheSportsDB) Supports(league models.League) bool {
	_, ok := sportsDBLeagues[league]
	return ok
}

type sportsDBEvents struct {
	Events []struct {
		IDEvent      string  `json:"idEvent"`
		StrHomeTeam  string  `json:"strHomeTeam"`
		StrAwayTeam  string  `json:"strAwayTeam"`
		IntHomeScore *string `json:"intHomeScore"`
		IntAwayScore *string `json:"intAwayScore"`
		StrStatus    string  `json:"strStatus"`
		DateEvent    string  `json:"dateEvent"`
	} `json:"events"`
}

func (t *TheSportsDB) FetchResults(ctx context.Context, league models.League, date string) Fetch {
	return run(ctx, t, league, date, t.fetch)
}

func (t *TheSportsDB) fetch(ctx context.Context, league models.League, day time.Time) ([]models.GameOutcome, error) {
	url := fmt.Sprintf("%s/%s/eventsday.php", t.baseURL, t.apiKey)
	params := map[string]string{
		"d": day.Format(dateLayout),
		"l": sportsDBLeagues[league],
	}

	var resp sportsDBEvents
	if err := t.client.GetJSON(ctx, url, nil, params, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	var outcomes []models.GameOutcome
	for _, ev := range resp.Events {
		if !containsFold(sportsDBFinal, ev.StrStatus) {
			continue
		}
		if ev.IntHomeScore == nil || ev.IntAwayScore == nil {
			continue
		}
		home, okHome := parseScore(*ev.IntHomeScore)
		away, okAway := parseScore(*ev.IntAwayScore)
		if !okHome || !okAway {
			continue
		}

		outcomes = append(outcomes, models.GameOutcome{
			HomeTeam:       ev.StrHomeTeam,
			AwayTeam:       ev.StrAwayTeam,
			HomeScore:      home,
			AwayScore:      away,
			ProviderGameID: ev.IDEvent,
		})
	}

	return outcomes, nil
}
