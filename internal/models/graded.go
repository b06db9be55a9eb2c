package models

// PickStatus is the grading result of a pick
type PickStatus string

const (
	StatusWin     PickStatus = "win"
	StatusLose    PickStatus = "lose"
	StatusPending PickStatus = "pending"
)

// Decided reports whether the status is final
func (s PickStatus) Decided() bool {
	return s == StatusWin || s == StatusLose
}

// GradedPick is a pick paired with its result
type GradedPick struct {
	Date         string     `json:"date"`
	HomeTeam     string     `json:"home_team"`
	AwayTeam     string     `json:"away_team"`
	Pick         string     `json:"pick"`
	Confidence   float64    `json:"confidence"`
	League       League     `json:"league,omitempty"`
	Status       PickStatus `json:"status"`
	ActualWinner string     `json:"actual_winner,omitempty"`
	ActualScore  string     `json:"actual_score,omitempty"`
	Source       string     `json:"source_provider,omitempty"`
}

// Key returns the normalized matchup identity of the pick
func (g GradedPick) Key() MatchupKey {
	return NewMatchupKey(g.HomeTeam, g.AwayTeam)
}

// DailySummary aggregates the graded picks for one date
type DailySummary struct {
	Date    string  `json:"date"`
	Total   int     `json:"total"`
	Correct int     `json:"correct"`
	Wrong   int     `json:"wrong"`
	Pending int     `json:"pending"`
	WinRate float64 `json:"win_rate"`
}
