// Command resetdb drops and recreates the schema. Every stored row is lost.
package main

import (
	"context"
	"flag"
	"os"

	"sharpshooter/ingestion/internal/config"
	"sharpshooter/ingestion/internal/logging"
	"sharpshooter/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	confirm := flag.Bool("confirm", false, "required: acknowledge that all data will be deleted")
	flag.Parse()

	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	if !*confirm {
		log.Error().Msg("Refusing to reset without -confirm")
		os.Exit(2)
	}
	if cfg.IsProduction() {
		log.Error().Str("env", cfg.AppEnv).Msg("Refusing to reset a production database")
		os.Exit(2)
	}

	log.Warn().
		Str("host", cfg.DatabaseHost).
		Str("database", cfg.DatabaseName).
		Msg("Resetting database schema")

	if err := repository.Reset(context.Background(), cfg.DatabaseDSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to reset database")
	}
	log.Info().Msg("Database reset complete")
}
