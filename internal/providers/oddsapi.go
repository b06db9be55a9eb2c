package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"greenbier/grader/internal/client"
	"greenbier/grader/internal/models"
)

var oddsAPISportKeys = map[models.League]string{
	models.LeagueNBA:   "basketball_nba",
	models.LeagueNCAAB: "basketball_ncaab",
	models.LeagueNFL:   "americanfootball_nfl",
	models.LeagueNCAAF: "americanfootball_ncaaf",
	models.LeagueNHL:   "icehockey_nhl",
}

// OddsAPI reads completed scores from The Odds API
type OddsAPI struct {
	baseURL  string
	apiKey   string
	daysFrom int
	loc      *time.Location
	client   *client.Client
}

// NewOddsAPI creates The Odds API adapter. daysFrom is clamped to the API's 1..3 window.
func NewOddsAPI(baseURL, apiKey string, daysFrom int, loc *time.Location, c *client.Client) *OddsAPI {
	if daysFrom < 1 || daysFrom > 3 {
		daysFrom = 3
	}
	if loc == nil {
		loc = time.UTC
	}
	return &OddsAPI{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		daysFrom: daysFrom,
		loc:      loc,
		client:   c,
	}
}

func (o *OddsAPI) Name() string     { return "oddsapi" }
func (o *OddsAPI) Configured() bool { return o.apiKey != "" }

func (o *OddsAPI) Supports(league models.League) bool {
	_, ok := oddsAPISportKeys[league]
	return ok
}

// oddsAPIScore is one event in the /scores response
type oddsAPIScore struct {
	ID           string `json:"id"`
	SportKey     string `json:"sport_key"`
	CommenceTime string `json:"commence_time"`
	Completed    bool   `json:"completed"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	Scores       []struct {
		Name  string `json:"name"`
		Score string `json:"score"`
	} `json:"scores"`
}

func (o *OddsAPI) FetchResults(ctx context.Context, league models.League, date string) Fetch {
	return run(ctx, o, league, date, o.fetch)
}

func (o *OddsAPI) fetch(ctx context.Context, league models.League, day time.Time) ([]models.GameOutcome, error) {
	url := fmt.Sprintf("%s/sports/%s/scores/", o.baseURL, oddsAPISportKeys[league])
	params := map[string]string{
		"apiKey":     o.apiKey,
		"daysFrom":   strconv.Itoa(o.daysFrom),
		"dateFormat": "iso",
	}

	var events []oddsAPIScore
	if err := o.client.GetJSON(ctx, url, nil, params, &events); err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	want := day.Format(dateLayout)
	var outcomes []models.GameOutcome
	for _, ev := range events {
		if !ev.Completed {
			continue
		}
		if d, ok := localDate(ev.CommenceTime, o.loc); !ok || d != want {
			continue
		}

		home, okHome := o.teamScore(ev, ev.HomeTeam)
		away, okAway := o.teamScore(ev, ev.AwayTeam)
		if !okHome || !okAway {
			continue
		}

		outcomes = append(outcomes, models.GameOutcome{
			HomeTeam:       ev.HomeTeam,
			AwayTeam:       ev.AwayTeam,
			HomeScore:      home,
			AwayScore:      away,
			ProviderGameID: ev.ID,
		})
	}

	return outcomes, nil
}

func (o *OddsAPI) teamScore(ev oddsAPIScore, team string) (int, bool) {
	for _, s := range ev.Scores {
		if s.Name == team {
			return parseScore(s.Score)
		}
	}
	return 0, false
}
