// Command gradeonce runs a single grading pass from the command line and
// prints the report as JSON. It uses the same configuration as the service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenbier/grader/internal/app"
	"greenbier/grader/internal/config"
	"greenbier/grader/internal/job"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	date := flag.String("date", "", "date to grade (YYYY-MM-DD), default yesterday in REFERENCE_TZ")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.MustLoad()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *date == "" {
		*date = job.Yesterday(time.Now(), cfg.Location())
	}

	grader, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize grading job")
	}
	defer grader.Close()

	// 1. Validate database connectivity
	log.Info().Msg("Validating service health...")
	if err := grader.DB.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	// 2. Grade
	report, err := grader.Runner.Run(ctx, *date)
	if err != nil {
		log.Fatal().Err(err).Str("date", *date).Msg("Grading run failed")
	}

	// 3. Print
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}

	if !report.Persistence.OK() {
		log.Warn().Interface("persistence", report.Persistence).Msg("Some writes failed")
		os.Exit(2)
	}
}
