package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"greenbier/grader/internal/client"
	"greenbier/grader/internal/models"
)

var espnSportPaths = map[models.League]string{
	models.LeagueNBA:   "basketball/nba",
	models.LeagueNCAAB: "basketball/mens-college-basketball",
	models.LeagueNFL:   "football/nfl",
	models.LeagueNCAAF: "football/college-football",
	models.LeagueNHL:   "hockey/nhl",
}

// ESPN groups: 50 is Division I basketball, 80 is FBS football
var espnGroups = map[models.League]string{
	models.LeagueNCAAB: "50",
	models.LeagueNCAAF: "80",
}

// ESPN reads the public site scoreboard. No credentials required.
type ESPN struct {
	baseURL string
	enabled bool
	client  *client.Client
}

func NewESPN(baseURL string, enabled bool, c *client.Client) *ESPN {
	return &ESPN{baseURL: strings.TrimRight(baseURL, "/"), enabled: enabled, client: c}
}

func (e *ESPN) Name() string     { return "espn" }
func (e *ESPN) Configured() bool { return e.enabled }

func (e *ESPN) Supports(league models.League) bool {
	_, ok := espnSportPaths[league]
	return ok
}

type espnStatus struct {
	Type struct {
		Completed bool   `json:"completed"`
		State     string `json:"state"`
	} `json:"type"`
}

type espnScoreboard struct {
	Events []struct {
		ID           string     `json:"id"`
		Status       espnStatus `json:"status"`
		Competitions []struct {
			Status      espnStatus `json:"status"`
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Score    string `json:"score"`
				Team     struct {
					DisplayName string `json:"displayName"`
					Location    string `json:"location"`
				} `json:"team"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

func (e *ESPN) FetchResults(ctx context.Context, league models.League, date string) Fetch {
	return run(ctx, e, league, date, e.fetch)
}

func (e *ESPN) fetch(ctx context.Context, league models.League, day time.Time) ([]models.GameOutcome, error) {
	url := fmt.Sprintf("%s/%s/scoreboard", e.baseURL, espnSportPaths[league])
	params := map[string]string{
		"dates": day.Format("20060102"),
		"limit": "500",
	}
	if g, ok := espnGroups[league]; ok {
		params["groups"] = g
	}

	var board espnScoreboard
	if err := e.client.GetJSON(ctx, url, nil, params, &board); err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	var outcomes []models.GameOutcome
	for _, ev := range board.Events {
		if len(ev.Competitions) == 0 {
			continue
		}
		comp := ev.Competitions[0]
		if !espnCompleted(ev.Status) && !espnCompleted(comp.Status) {
			continue
		}

		var game models.GameOutcome
		var haveHome, haveAway bool
		for _, c := range comp.Competitors {
			name := c.Team.DisplayName
			if name == "" {
				name = c.Team.Location
			}
			score, ok := parseScore(c.Score)
			if !ok {
				continue
			}
			switch c.HomeAway {
			case "home":
				game.HomeTeam, game.HomeScore, haveHome = name, score, true
			case "away":
				game.AwayTeam, game.AwayScore, haveAway = name, score, true
			}
		}
		if !haveHome || !haveAway {
			continue
		}

		game.ProviderGameID = ev.ID
		outcomes = append(outcomes, game)
	}

	return outcomes, nil
}

// state "post" also covers postponed games, so only the completed flag counts
func espnCompleted(s espnStatus) bool {
	return s.Type.Completed
}
