// Package cache stores provider fetches in Redis so repeated runs for the same
// date do not spend provider quota.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"greenbier/grader/internal/metrics"
	"greenbier/grader/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "grader:outcomes"

// Config holds Redis connection settings
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisCache caches completed outcomes per provider, league and date
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Dur("ttl", ttl).
		Msg("Successfully connected to redis")

	return &RedisCache{client: client, ttl: ttl}, nil
}

func outcomeKey(provider string, league models.League, date string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, provider, league, date)
}

// GetOutcomes returns cached outcomes. Errors and misses both report false.
func (c *RedisCache) GetOutcomes(ctx context.Context, provider string, league models.League, date string) ([]models.GameOutcome, bool) {
	data, err := c.client.Get(ctx, outcomeKey(provider, league, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("provider", provider).Msg("Cache read failed")
			metrics.RecordError("cache", "read")
		}
		metrics.RecordCacheMiss()
		return nil, false
	}

	var outcomes []models.GameOutcome
	if err := json.Unmarshal(data, &outcomes); err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("Discarding corrupt cache entry")
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return outcomes, true
}

// SetOutcomes stores outcomes. Empty slices are not cached.
func (c *RedisCache) SetOutcomes(ctx context.Context, provider string, league models.League, date string, outcomes []models.GameOutcome) {
	if len(outcomes) == 0 {
		return
	}

	data, err := json.Marshal(outcomes)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode outcomes for cache")
		return
	}

	if err := c.client.Set(ctx, outcomeKey(provider, league, date), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("Cache write failed")
		metrics.RecordError("cache", "write")
	}
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
