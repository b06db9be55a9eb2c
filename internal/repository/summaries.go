package repository

import (
	"context"
	"fmt"
	"time"

	"greenbier/grader/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// SummaryRepository handles daily summary database operations
type SummaryRepository struct {
	db *Database
}

// Upsert overwrites the summary row for its date
func (r *SummaryRepository) Upsert(ctx context.Context, s models.DailySummary) (err error) {
	day, err := parseDate(s.Date)
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() { recordQuery("upsert", "daily_summaries", start, err) }()

	query := `
		INSERT INTO daily_summaries (summary_date, total, correct, wrong, pending, win_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (summary_date) DO UPDATE SET
			total = EXCLUDED.total,
			correct = EXCLUDED.correct,
			wrong = EXCLUDED.wrong,
			pending = EXCLUDED.pending,
			win_rate = EXCLUDED.win_rate,
			updated_at = NOW()
	`

	if _, err = r.db.Pool.Exec(ctx, query, day, s.Total, s.Correct, s.Wrong, s.Pending, s.WinRate); err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}

	log.Info().
		Str("date", s.Date).
		Int("total", s.Total).
		Float64("win_rate", s.WinRate).
		Msg("Daily summary upserted")

	return nil
}

// GetByDate returns the summary for a date or ErrNotFound
func (r *SummaryRepository) GetByDate(ctx context.Context, date string) (*models.DailySummary, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT summary_date, total, correct, wrong, pending, win_rate::float8
		FROM daily_summaries
		WHERE summary_date = $1
	`

	start := time.Now()
	var s models.DailySummary
	var summaryDate time.Time
	err = r.db.Pool.QueryRow(ctx, query, day).Scan(
		&summaryDate, &s.Total, &s.Correct, &s.Wrong, &s.Pending, &s.WinRate,
	)
	if err == pgx.ErrNoRows {
		recordQuery("select", "daily_summaries", start, nil)
		return nil, ErrNotFound
	}
	recordQuery("select", "daily_summaries", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily summary: %w", err)
	}

	s.Date = summaryDate.Format(dateLayout)
	return &s, nil
}
