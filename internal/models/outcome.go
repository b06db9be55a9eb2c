package models

import (
	"fmt"

	"greenbier/grader/internal/teams"
)

// Tie is the winner value of a game that ended level
const Tie = "TIE"

// GameOutcome is a completed game as reported by one provider
type GameOutcome struct {
	HomeTeam       string `json:"home_team"`
	AwayTeam       string `json:"away_team"`
	HomeScore      int    `json:"home_score"`
	AwayScore      int    `json:"away_score"`
	League         League `json:"league"`
	Date           string `json:"date"` // YYYY-MM-DD
	SourceProvider string `json:"source_provider"`
	ProviderGameID string `json:"provider_game_id,omitempty"`
}

// Winner returns the winning team name, or Tie
func (g GameOutcome) Winner() string {
	switch {
	case g.HomeScore > g.AwayScore:
		return g.HomeTeam
	case g.AwayScore > g.HomeScore:
		return g.AwayTeam
	default:
		return Tie
	}
}

// Score renders the final score as "<home> <hs> - <away> <as>"
func (g GameOutcome) Score() string {
	return fmt.Sprintf("%s %d - %s %d", g.HomeTeam, g.HomeScore, g.AwayTeam, g.AwayScore)
}

// Key returns the normalized matchup identity of the game
func (g GameOutcome) Key() MatchupKey {
	return NewMatchupKey(g.HomeTeam, g.AwayTeam)
}

// MatchupKey identifies a game by its normalized home and away names
type MatchupKey struct {
	Home string
	Away string
}

// NewMatchupKey normalizes both names into a MatchupKey
func NewMatchupKey(home, away string) MatchupKey {
	return MatchupKey{Home: teams.Normalize(home), Away: teams.Normalize(away)}
}

// ResultSet holds deduplicated outcomes per league
type ResultSet map[League][]GameOutcome

// Len returns the number of outcomes across all leagues
func (rs ResultSet) Len() int {
	n := 0
	for _, games := range rs {
		n += len(games)
	}
	return n
}

// All flattens the set in AllLeagues order followed by any other leagues present
func (rs ResultSet) All() []GameOutcome {
	var out []GameOutcome
	seen := make(map[League]bool)
	for _, l := range AllLeagues {
		seen[l] = true
		out = append(out, rs[l]...)
	}
	for l, games := range rs {
		if !seen[l] {
			out = append(out, games...)
		}
	}
	return out
}
