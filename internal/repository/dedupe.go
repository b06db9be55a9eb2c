package repository

import (
	"greenbier/grader/internal/models"
)

type rowKey struct {
	date string
	key  models.MatchupKey
}

// dedupeOutcomes keeps the first outcome per (date, home key, away key) so a
// single upsert batch never touches the same conflict target twice.
func dedupeOutcomes(outcomes []models.GameOutcome) []models.GameOutcome {
	seen := make(map[rowKey]bool, len(outcomes))
	out := make([]models.GameOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		k := rowKey{date: o.Date, key: o.Key()}
		if k.key.Home == "" || k.key.Away == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, o)
	}
	return out
}

// decidedPicks keeps win/lose picks, first per (date, home key, away key)
func decidedPicks(graded []models.GradedPick) []models.GradedPick {
	seen := make(map[rowKey]bool, len(graded))
	out := make([]models.GradedPick, 0, len(graded))
	for _, g := range graded {
		if !g.Status.Decided() {
			continue
		}
		k := rowKey{date: g.Date, key: g.Key()}
		if k.key.Home == "" || k.key.Away == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, g)
	}
	return out
}
