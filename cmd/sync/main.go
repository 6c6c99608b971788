package main

import (
	"context"
	"time"

	"gsefl-backend/internal/config"
	"gsefl-backend/internal/database"
	"gsefl-backend/internal/marketdata"

	"github.com/rs/zerolog/log"
)

// Runs one market-data sync batch and exits. Scheduled externally
// (cron / GitHub Actions) once per trading day.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if cfg.FeedBaseURL == "" {
		log.Fatal().Msg("FEED_BASE_URL is required")
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database open failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info().Msg("Starting Guyana Stock Exchange market sync")
	svc := &marketdata.Service{
		DB:   db,
		Feed: &marketdata.HTTPFeed{BaseURL: cfg.FeedBaseURL},
	}
	report, err := svc.SyncMarketData(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("sync failed")
	}

	log.Info().Int("synced", report.Synced).Int("failed", report.Failed).Msg("Sync complete")
	for ticker, reason := range report.Failures {
		log.Warn().Str("ticker", ticker).Str("reason", reason).Msg("Ticker skipped")
	}
}
