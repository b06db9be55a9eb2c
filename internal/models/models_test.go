package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPick_UnmarshalShortNames(t *testing.T) {
	var p Pick
	err := json.Unmarshal([]byte(`{"home":"Duke","away":"UNC","predicted_winner":"Duke","confidence":"64%","sport":"NCAAB","game_id":401}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "Duke", p.HomeTeam)
	assert.Equal(t, "UNC", p.AwayTeam)
	assert.Equal(t, "Duke", p.PredictedWinner)
	assert.Equal(t, 64.0, p.Confidence)
	assert.Equal(t, "NCAAB", p.League)
	assert.Equal(t, "401", p.GameID)
	assert.True(t, p.Valid())
}

func TestPick_UnmarshalLongNamesWin(t *testing.T) {
	var p Pick
	err := json.Unmarshal([]byte(`{"home_team":"Kansas","home":"KU","away_team":"Baylor","pick":"Kansas","confidence":0.7}`), &p)
	require.NoError(t, err)

	assert.Equal(t, "Kansas", p.HomeTeam, "Long field name should take precedence")
	assert.Equal(t, 0.7, p.Confidence)
	assert.Empty(t, p.GameID)
}

func TestPick_InvalidConfidence(t *testing.T) {
	var p Pick
	err := json.Unmarshal([]byte(`{"home":"A","away":"B","pick":"A","confidence":"high"}`), &p)
	assert.Error(t, err)
}

func TestPick_Valid(t *testing.T) {
	assert.False(t, Pick{HomeTeam: "A", AwayTeam: " ", PredictedWinner: "A"}.Valid())
	assert.False(t, Pick{HomeTeam: "A", AwayTeam: "B"}.Valid())
}

func TestParseLeague(t *testing.T) {
	assert.Equal(t, LeagueNCAAB, ParseLeague(" NCAAM "))
	assert.Equal(t, LeagueNCAAF, ParseLeague("CFB"))
	assert.Equal(t, LeagueNHL, ParseLeague("icehockey_nhl"))
	assert.Equal(t, League(""), ParseLeague("wnba"))

	assert.Equal(t, []League{LeagueNCAAB, LeagueNBA}, ParseLeagues([]string{"ncaab", "cbb", "nba", "curling"}))
	assert.True(t, LeagueNCAAF.IsCollege())
	assert.False(t, LeagueNFL.IsCollege())
}

func TestGameOutcome_Winner(t *testing.T) {
	g := GameOutcome{HomeTeam: "Duke", AwayTeam: "UNC", HomeScore: 78, AwayScore: 70}
	assert.Equal(t, "Duke", g.Winner())
	assert.Equal(t, "Duke 78 - UNC 70", g.Score())

	g.AwayScore = 80
	assert.Equal(t, "UNC", g.Winner())

	g.HomeScore = 80
	assert.Equal(t, Tie, g.Winner())
}

func TestGameOutcome_Key(t *testing.T) {
	a := GameOutcome{HomeTeam: "St. John's", AwayTeam: "Villanova"}
	b := GameOutcome{HomeTeam: "St Johns", AwayTeam: "villanova"}
	assert.Equal(t, a.Key(), b.Key())

	set := ResultSet{LeagueNCAAB: {a, b}, LeagueNBA: {a}}
	assert.Equal(t, 3, set.Len())
	assert.Len(t, set.All(), 3)
}
