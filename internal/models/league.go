package models

import "strings"

// League identifies a sport/league the grader collects results for
type League string

const (
	LeagueNBA   League = "nba"
	LeagueNCAAB League = "ncaab"
	LeagueNFL   League = "nfl"
	LeagueNCAAF League = "ncaaf"
	LeagueNHL   League = "nhl"
)

// AllLeagues is the fixed order used for league-agnostic matching
var AllLeagues = []League{LeagueNBA, LeagueNCAAB, LeagueNFL, LeagueNCAAF, LeagueNHL}

var leagueHints = map[string]League{
	"nba":                    LeagueNBA,
	"basketball_nba":         LeagueNBA,
	"ncaab":                  LeagueNCAAB,
	"ncaam":                  LeagueNCAAB,
	"ncaamb":                 LeagueNCAAB,
	"cbb":                    LeagueNCAAB,
	"basketball_ncaab":       LeagueNCAAB,
	"nfl":                    LeagueNFL,
	"americanfootball_nfl":   LeagueNFL,
	"ncaaf":                  LeagueNCAAF,
	"cfb":                    LeagueNCAAF,
	"college-football":       LeagueNCAAF,
	"americanfootball_ncaaf": LeagueNCAAF,
	"nhl":                    LeagueNHL,
	"icehockey_nhl":          LeagueNHL,
}

// ParseLeague maps a free-form sport hint to a League.
// Unknown hints return an empty League.
func ParseLeague(hint string) League {
	return leagueHints[strings.ToLower(strings.TrimSpace(hint))]
}

// ParseLeagues parses a comma separated list, skipping unknown entries
func ParseLeagues(list []string) []League {
	var out []League
	seen := make(map[League]bool)
	for _, s := range list {
		l := ParseLeague(s)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// IsCollege reports whether the league is an NCAA league
func (l League) IsCollege() bool {
	return l == LeagueNCAAB || l == LeagueNCAAF
}
