package repository

import (
	"context"
	"fmt"
	"time"

	"greenbier/grader/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// GradedPickRepository handles graded pick database operations
type GradedPickRepository struct {
	db *Database
}

const upsertGradedPickSQL = `
	INSERT INTO graded_picks (
		pick_date, league, home_team, away_team, home_key, away_key,
		pick, confidence, status, actual_winner, actual_score, source_provider
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (pick_date, home_key, away_key) DO UPDATE SET
		league = EXCLUDED.league,
		home_team = EXCLUDED.home_team,
		away_team = EXCLUDED.away_team,
		pick = EXCLUDED.pick,
		confidence = EXCLUDED.confidence,
		status = EXCLUDED.status,
		actual_winner = EXCLUDED.actual_winner,
		actual_score = EXCLUDED.actual_score,
		source_provider = EXCLUDED.source_provider,
		updated_at = NOW()
`

// UpsertMany writes win/lose picks. Pending picks are never stored.
func (r *GradedPickRepository) UpsertMany(ctx context.Context, graded []models.GradedPick) (written int, err error) {
	rows := decidedPicks(graded)
	if len(rows) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { recordQuery("upsert", "graded_picks", start, err) }()

	batch := &pgx.Batch{}
	for _, g := range rows {
		day, err := parseDate(g.Date)
		if err != nil {
			return 0, err
		}
		key := g.Key()
		batch.Queue(upsertGradedPickSQL,
			day, string(g.League), g.HomeTeam, g.AwayTeam, key.Home, key.Away,
			g.Pick, g.Confidence, string(g.Status), g.ActualWinner, g.ActualScore, g.Source,
		)
	}

	if err := r.db.sendBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert graded picks: %w", err)
	}

	log.Info().
		Int("received", len(graded)).
		Int("written", len(rows)).
		Msg("Graded picks upserted")

	return len(rows), nil
}

// ListByDate returns the stored graded picks for a date
func (r *GradedPickRepository) ListByDate(ctx context.Context, date string) ([]models.GradedPick, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	query := `
		SELECT pick_date, league, home_team, away_team, pick, confidence,
			   status, actual_winner, actual_score, source_provider
		FROM graded_picks
		WHERE pick_date = $1
		ORDER BY league, home_key, away_key
	`

	rows, err := r.db.Pool.Query(ctx, query, day)
	if err != nil {
		recordQuery("select", "graded_picks", start, err)
		return nil, fmt.Errorf("failed to list graded picks: %w", err)
	}
	defer rows.Close()

	var graded []models.GradedPick
	for rows.Next() {
		var g models.GradedPick
		var pickDate time.Time
		var league, status string
		if err := rows.Scan(
			&pickDate, &league, &g.HomeTeam, &g.AwayTeam, &g.Pick, &g.Confidence,
			&status, &g.ActualWinner, &g.ActualScore, &g.Source,
		); err != nil {
			return nil, fmt.Errorf("failed to scan graded pick: %w", err)
		}
		g.Date = pickDate.Format(dateLayout)
		g.League = models.League(league)
		g.Status = models.PickStatus(status)
		graded = append(graded, g)
	}

	err = rows.Err()
	recordQuery("select", "graded_picks", start, err)
	return graded, err
}
