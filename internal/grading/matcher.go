// Package grading pairs picks with collected outcomes and scores them.
package grading

import (
	"sort"

	"greenbier/grader/internal/models"
	"greenbier/grader/internal/teams"
)

// Matcher finds the outcome a pick refers to
type Matcher struct {
	resolver *teams.Resolver
	order    []models.League
}

// NewMatcher creates a Matcher. order is the league search order used when a
// pick has no usable league hint; nil means models.AllLeagues.
func NewMatcher(resolver *teams.Resolver, order []models.League) *Matcher {
	if len(order) == 0 {
		order = models.AllLeagues
	}
	return &Matcher{resolver: resolver, order: order}
}

// Match returns the first outcome whose home and away teams both match the pick.
// The hinted league is searched first, then every league in the configured order.
//
// The same matchup in two leagues (e.g. men's and women's programs) resolves to
// whichever league is searched first.
func (m *Matcher) Match(pick models.Pick, set models.ResultSet) (models.GameOutcome, bool) {
	for _, league := range m.searchOrder(models.ParseLeague(pick.League), set) {
		for _, game := range set[league] {
			if m.resolver.NamesMatch(game.HomeTeam, pick.HomeTeam) &&
				m.resolver.NamesMatch(game.AwayTeam, pick.AwayTeam) {
				return game, true
			}
		}
	}
	return models.GameOutcome{}, false
}

func (m *Matcher) searchOrder(hint models.League, set models.ResultSet) []models.League {
	order := make([]models.League, 0, len(m.order)+1)
	seen := make(map[models.League]bool)
	add := func(l models.League) {
		if l != "" && !seen[l] {
			seen[l] = true
			order = append(order, l)
		}
	}

	add(hint)
	for _, l := range m.order {
		add(l)
	}

	// leagues present in the set but absent from the configured order, deterministically
	var extra []models.League
	for l := range set {
		if !seen[l] {
			extra = append(extra, l)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, l := range extra {
		add(l)
	}

	return order
}
