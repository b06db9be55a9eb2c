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

// CollegeData reads NCAA results from CollegeFootballData (ncaaf) and
// CollegeBasketballData (ncaab). Both share one API key and payload shape.
type CollegeData struct {
	footballURL   string
	basketballURL string
	apiKey        string
	loc           *time.Location
	client        *client.Client
}

func NewCollegeData(footballURL, basketballURL, apiKey string, loc *time.Location, c *client.Client) *CollegeData {
	if loc == nil {
		loc = time.UTC
	}
	return &CollegeData{
		footballURL:   strings.TrimRight(footballURL, "/"),
		basketballURL: strings.TrimRight(basketballURL, "/"),
		apiKey:        apiKey,
		loc:           loc,
		client:        c,
	}
}

func (c *CollegeData) Name() string     { return "collegedata" }
func (c *CollegeData) Configured() bool { return c.apiKey != "" }

func (c *CollegeData) Supports(league models.League) bool {
	return league == models.LeagueNCAAF || league == models.LeagueNCAAB
}

type collegeGame struct {
	ID         int    `json:"id"`
	StartDate  string `json:"startDate"`
	Completed  bool   `json:"completed"`
	Status     string `json:"status"`
	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomePoints *int   `json:"homePoints"`
	AwayPoints *int   `json:"awayPoints"`
	HomeScore  *int   `json:"homeScore"`
	AwayScore  *int   `json:"awayScore"`
}

func (g collegeGame) final() bool {
	return g.Completed || strings.EqualFold(g.Status, "final")
}

func (c *CollegeData) FetchResults(ctx context.Context, league models.League, date string) Fetch {
	return run(ctx, c, league, date, c.fetch)
}

func (c *CollegeData) fetch(ctx context.Context, league models.League, day time.Time) ([]models.GameOutcome, error) {
	base := c.footballURL
	if league == models.LeagueNCAAB {
		base = c.basketballURL
	}

	// Widen by a day on each side; start times are UTC and filtered locally below
	params := map[string]string{
		"startDateRange": day.AddDate(0, 0, -1).Format(dateLayout),
		"endDateRange":   day.AddDate(0, 0, 1).Format(dateLayout),
	}
	if league == models.LeagueNCAAF {
		params["year"] = strconv.Itoa(footballSeason(day))
	} else {
		params["season"] = strconv.Itoa(basketballSeason(day))
	}
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var games []collegeGame
	if err := c.client.GetJSON(ctx, base+"/games", headers, params, &games); err != nil {
		return nil, fmt.Errorf("failed to fetch college games: %w", err)
	}

	want := day.Format(dateLayout)
	var outcomes []models.GameOutcome
	for _, g := range games {
		if !g.final() {
			continue
		}
		if d, ok := localDate(g.StartDate, c.loc); !ok || d != want {
			continue
		}

		home, away := firstScore(g.HomePoints, g.HomeScore), firstScore(g.AwayPoints, g.AwayScore)
		if home == nil || away == nil {
			continue
		}

		outcomes = append(outcomes, models.GameOutcome{
			HomeTeam:       g.HomeTeam,
			AwayTeam:       g.AwayTeam,
			HomeScore:      *home,
			AwayScore:      *away,
			ProviderGameID: strconv.Itoa(g.ID),
		})
	}

	return outcomes, nil
}

// January and February bowl games belong to the previous football season
func footballSeason(day time.Time) int {
	if day.Month() <= time.February {
		return day.Year() - 1
	}
	return day.Year()
}

// Basketball seasons are named for the year they end in
func basketballSeason(day time.Time) int {
	if day.Month() >= time.August {
		return day.Year() + 1
	}
	return day.Year()
}
