package grading

import (
	"math"

	"greenbier/grader/internal/models"
	"greenbier/grader/internal/teams"
)

// Grader scores picks against a result set
type Grader struct {
	matcher  *Matcher
	resolver *teams.Resolver
}

func NewGrader(resolver *teams.Resolver, order []models.League) *Grader {
	return &Grader{
		matcher:  NewMatcher(resolver, order),
		resolver: resolver,
	}
}

// Grade scores one pick. Unmatched picks stay pending; a tie never matches a
// predicted team and therefore grades as a loss.
func (g *Grader) Grade(pick models.Pick, date string, set models.ResultSet) models.GradedPick {
	graded := models.GradedPick{
		Date:       date,
		HomeTeam:   pick.HomeTeam,
		AwayTeam:   pick.AwayTeam,
		Pick:       pick.PredictedWinner,
		Confidence: pick.Confidence,
		League:     models.ParseLeague(pick.League),
		Status:     models.StatusPending,
	}

	game, ok := g.matcher.Match(pick, set)
	if !ok {
		return graded
	}

	winner := game.Winner()
	graded.League = game.League
	graded.ActualWinner = winner
	graded.ActualScore = game.Score()
	graded.Source = game.SourceProvider

	if winner != models.Tie && g.resolver.NamesMatch(pick.PredictedWinner, winner) {
		graded.Status = models.StatusWin
	} else {
		graded.Status = models.StatusLose
	}
	return graded
}

// GradeAll grades every pick in order
func (g *Grader) GradeAll(picks []models.Pick, date string, set models.ResultSet) []models.GradedPick {
	graded := make([]models.GradedPick, 0, len(picks))
	for _, p := range picks {
		graded = append(graded, g.Grade(p, date, set))
	}
	return graded
}

// Summarize aggregates graded picks. WinRate is the percentage of decided picks
// that won, rounded to one decimal, and 0 when nothing is decided.
func Summarize(date string, graded []models.GradedPick) models.DailySummary {
	s := models.DailySummary{Date: date, Total: len(graded)}
	for _, g := range graded {
		switch g.Status {
		case models.StatusWin:
			s.Correct++
		case models.StatusLose:
			s.Wrong++
		default:
			s.Pending++
		}
	}

	if decided := s.Correct + s.Wrong; decided > 0 {
		s.WinRate = math.Round(float64(s.Correct)/float64(decided)*1000) / 10
	}
	return s
}
