package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"greenbier/grader/internal/metrics"
	"greenbier/grader/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

const dateLayout = "2006-01-02"

// Database holds the database connection pool and provides access to repositories
type Database struct {
	Pool *pgxpool.Pool

	// Repositories
	Outcomes    *OutcomeRepository
	GradedPicks *GradedPickRepository
	Summaries   *SummaryRepository
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewDatabase creates a new database connection pool and initializes repositories
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// One grading run at a time; a small pool is plenty
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Successfully connected to database")

	db := &Database{
		Pool: pool,
	}

	db.Outcomes = &OutcomeRepository{db: db}
	db.GradedPicks = &GradedPickRepository{db: db}
	db.Summaries = &SummaryRepository{db: db}

	return db, nil
}

// Migrate applies the embedded schema
func (db *Database) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Info().Msg("Database schema applied")
	return nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Info().Msg("Database connection pool closed")
	}
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	return nil
}

// PoolStats returns database pool statistics
func (db *Database) PoolStats() map[string]interface{} {
	stat := db.Pool.Stat()
	return map[string]interface{}{
		"total_conns":    stat.TotalConns(),
		"acquired_conns": stat.AcquiredConns(),
		"idle_conns":     stat.IdleConns(),
		"max_conns":      stat.MaxConns(),
	}
}

// StoreOutcomes upserts collected outcomes and returns the number written
func (db *Database) StoreOutcomes(ctx context.Context, outcomes []models.GameOutcome) (int, error) {
	return db.Outcomes.UpsertMany(ctx, outcomes)
}

// StoreGradedPicks upserts decided picks and returns the number written
func (db *Database) StoreGradedPicks(ctx context.Context, graded []models.GradedPick) (int, error) {
	return db.GradedPicks.UpsertMany(ctx, graded)
}

// StoreSummary overwrites the summary for its date
func (db *Database) StoreSummary(ctx context.Context, summary models.DailySummary) error {
	return db.Summaries.Upsert(ctx, summary)
}

// GetSummary returns the stored summary for date
func (db *Database) GetSummary(ctx context.Context, date string) (*models.DailySummary, error) {
	return db.Summaries.GetByDate(ctx, date)
}

// ListGradedPicks returns the stored graded picks for date
func (db *Database) ListGradedPicks(ctx context.Context, date string) ([]models.GradedPick, error) {
	return db.GradedPicks.ListByDate(ctx, date)
}

func parseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

func recordQuery(operation, table string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		metrics.RecordError("repository", operation+"_"+table)
	}
	metrics.RecordDBQuery(operation, table, status, time.Since(start).Seconds())
}
