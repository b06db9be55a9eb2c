package repository

import (
	"context"
	"fmt"
	"time"

	"greenbier/grader/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// OutcomeRepository handles game outcome database operations
type OutcomeRepository struct {
	db *Database
}

const upsertOutcomeSQL = `
	INSERT INTO game_outcomes (
		game_date, league, home_team, away_team, home_key, away_key,
		home_score, away_score, winner, source_provider, provider_game_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (game_date, home_key, away_key) DO UPDATE SET
		league = EXCLUDED.league,
		home_team = EXCLUDED.home_team,
		away_team = EXCLUDED.away_team,
		home_score = EXCLUDED.home_score,
		away_score = EXCLUDED.away_score,
		winner = EXCLUDED.winner,
		source_provider = EXCLUDED.source_provider,
		provider_game_id = EXCLUDED.provider_game_id,
		updated_at = NOW()
`

// UpsertMany writes outcomes in one transaction. Rows that normalize to the
// same matchup are collapsed first, keeping the earliest.
func (r *OutcomeRepository) UpsertMany(ctx context.Context, outcomes []models.GameOutcome) (written int, err error) {
	rows := dedupeOutcomes(outcomes)
	if len(rows) == 0 {
		return 0, nil
	}

	start := time.Now()
	defer func() { recordQuery("upsert", "game_outcomes", start, err) }()

	batch := &pgx.Batch{}
	for _, o := range rows {
		day, err := parseDate(o.Date)
		if err != nil {
			return 0, err
		}
		key := o.Key()
		batch.Queue(upsertOutcomeSQL,
			day, string(o.League), o.HomeTeam, o.AwayTeam, key.Home, key.Away,
			o.HomeScore, o.AwayScore, o.Winner(), o.SourceProvider, o.ProviderGameID,
		)
	}

	if err := r.db.sendBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to upsert game outcomes: %w", err)
	}

	log.Info().
		Int("received", len(outcomes)).
		Int("written", len(rows)).
		Msg("Game outcomes upserted")

	return len(rows), nil
}

// ListByDate returns stored outcomes for a date
func (r *OutcomeRepository) ListByDate(ctx context.Context, date string) ([]models.GameOutcome, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT game_date, league, home_team, away_team, home_score, away_score,
			   source_provider, COALESCE(provider_game_id, '')
		FROM game_outcomes
		WHERE game_date = $1
		ORDER BY league, home_key, away_key
	`

	rows, err := r.db.Pool.Query(ctx, query, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list game outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.GameOutcome
	for rows.Next() {
		var o models.GameOutcome
		var gameDate time.Time
		var league string
		if err := rows.Scan(
			&gameDate, &league, &o.HomeTeam, &o.AwayTeam, &o.HomeScore, &o.AwayScore,
			&o.SourceProvider, &o.ProviderGameID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game outcome: %w", err)
		}
		o.Date = gameDate.Format(dateLayout)
		o.League = models.League(league)
		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

// sendBatch executes a batch inside a transaction
func (db *Database) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return tx.Commit(ctx)
}
