// Package app wires configuration into a ready-to-run grading job.
package app

import (
	"context"
	"fmt"
	"strconv"

	"greenbier/grader/internal/cache"
	"greenbier/grader/internal/client"
	"greenbier/grader/internal/config"
	"greenbier/grader/internal/grading"
	"greenbier/grader/internal/job"
	"greenbier/grader/internal/models"
	"greenbier/grader/internal/orchestrator"
	"greenbier/grader/internal/picks"
	"greenbier/grader/internal/providers"
	"greenbier/grader/internal/repository"
	"greenbier/grader/internal/teams"

	"github.com/rs/zerolog/log"
)

// App holds the long-lived components shared by the binaries
type App struct {
	DB     *repository.Database
	Cache  *cache.RedisCache
	Runner *job.Runner
}

// New connects to the database (and Redis when enabled) and builds the runner
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	leagues := models.ParseLeagues(cfg.Leagues)
	if len(leagues) == 0 {
		return nil, fmt.Errorf("%w: LEAGUES names no known league", job.ErrConfiguration)
	}

	resolver, err := buildResolver(cfg.AliasesFile)
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
	}

	a := &App{DB: db}

	orchOpts := orchestrator.Options{
		AlwaysSupplement: models.ParseLeagues(cfg.AlwaysSupplement),
		ProviderTimeout:  cfg.ProviderTimeout,
		MaxParallel:      cfg.MaxParallelLeagues,
	}
	if cfg.RedisEnabled {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			a.Cache = redisCache
			orchOpts.Cache = redisCache
		}
	}

	orch := orchestrator.New(providers.DefaultChain(cfg), orchOpts)
	grader := grading.NewGrader(resolver, leagues)

	a.Runner = job.NewRunner(picksSource(cfg), orch, grader, db, job.Options{
		PrimaryCredential: cfg.OddsAPIKey,
		Leagues:           leagues,
		JobTimeout:        cfg.JobTimeout,
		PersistTimeout:    cfg.PersistTimeout,
	})

	log.Info().
		Int("leagues", len(leagues)).
		Int("aliases", resolver.Size()).
		Bool("cache", a.Cache != nil).
		Msg("Grading job initialized")

	return a, nil
}

// Close releases connections
func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
	a.DB.Close()
}

func buildResolver(path string) (*teams.Resolver, error) {
	if path == "" {
		return teams.NewDefaultResolver(), nil
	}
	extra, err := teams.LoadAliasFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", job.ErrConfiguration, err)
	}
	log.Info().Str("file", path).Int("groups", len(extra)).Msg("Alias file loaded")
	return teams.NewDefaultResolver(extra...), nil
}

func picksSource(cfg *config.Config) picks.Source {
	if cfg.PicksBaseURL != "" {
		c := client.New(client.Options{
			Name:       "picks",
			Timeout:    cfg.ProviderTimeout,
			MaxRetries: 2,
		})
		log.Info().Msg("Loading picks from object store")
		return picks.NewBlobSource(cfg.PicksBaseURL, cfg.PicksToken, c)
	}
	log.Info().Str("dir", cfg.PicksDir).Msg("Loading picks from local directory")
	return picks.NewDirSource(cfg.PicksDir)
}
