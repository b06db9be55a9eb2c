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

var sportsDataPaths = map[models.League]string{
	models.LeagueNBA:   "nba/scores/json/GamesByDate",
	models.LeagueNCAAB: "cbb/scores/json/GamesByDate",
	models.LeagueNFL:   "nfl/scores/json/ScoresByDate",
	models.LeagueNCAAF: "cfb/scores/json/GamesByDate",
	models.LeagueNHL:   "nhl/scores/json/GamesByDate",
}

var sportsDataFinal = []string{"Final", "F/OT", "F/SO"}

// SportsDataIO reads games by date from SportsDataIO
type SportsDataIO struct {
	baseURL string
	apiKey  string
	client  *client.Client
}

func NewSportsDataIO(baseURL, apiKey string, c *client.Client) *SportsDataIO {
	return &SportsDataIO{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: c}
}

func (s *SportsDataIO) Name() string     { return "sportsdataio" }
func (s *SportsDataIO) Configured() bool { return s.apiKey != "" }

func (s *SportsDataIO) Supports(league models.League) bool {
	_, ok := sportsDataPaths[league]
	return ok
}

// sportsDataGame covers the score fields of every league's game payload.
// Basketball and hockey use HomeTeamScore; football uses HomeScore.
type sportsDataGame struct {
	GameID        int    `json:"GameID"`
	GameKey       string `json:"GameKey"`
	Status        string `json:"Status"`
	HomeTeam      string `json:"HomeTeam"`
	AwayTeam      string `json:"AwayTeam"`
	HomeTeamName  string `json:"HomeTeamName"`
	AwayTeamName  string `json:"AwayTeamName"`
	HomeTeamScore *int   `json:"HomeTeamScore"`
	AwayTeamScore *int   `json:"AwayTeamScore"`
	HomeScore     *int   `json:"HomeScore"`
	AwayScore     *int   `json:"AwayScore"`
}

func (s *SportsDataIO) FetchResults(ctx context.Context, league models.League, date string) Fetch {
	return run(ctx, s, league, date, s.fetch)
}

func (s *SportsDataIO) fetch(ctx context.Context, league models.League, day time.Time) ([]models.GameOutcome, error) {
	// SportsDataIO dates look like 2025-JAN-05
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, sportsDataPaths[league], strings.ToUpper(day.Format("2006-Jan-02")))
	headers := map[string]string{"Ocp-Apim-Subscription-Key": s.apiKey}

	var games []sportsDataGame
	if err := s.client.GetJSON(ctx, url, headers, nil, &games); err != nil {
		return nil, fmt.Errorf("failed to fetch games by date: %w", err)
	}

	var outcomes []models.GameOutcome
	for _, g := range games {
		if !containsFold(sportsDataFinal, g.Status) {
			continue
		}

		home, away := firstScore(g.HomeTeamScore, g.HomeScore), firstScore(g.AwayTeamScore, g.AwayScore)
		if home == nil || away == nil {
			continue
		}

		id := g.GameKey
		if id == "" {
			id = strconv.Itoa(g.GameID)
		}

		outcomes = append(outcomes, models.GameOutcome{
			HomeTeam:       firstName(g.HomeTeamName, g.HomeTeam),
			AwayTeam:       firstName(g.AwayTeamName, g.AwayTeam),
			HomeScore:      *home,
			AwayScore:      *away,
			ProviderGameID: id,
		})
	}

	return outcomes, nil
}

func firstScore(scores ...*int) *int {
	for _, s := range scores {
		if s != nil {
			return s
		}
	}
	return nil
}

func firstName(names ...string) string {
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			return n
		}
	}
	return ""
}
