// Command ingest runs one ingestion pass and exits. The exit status reflects
// the outcome: 0 completed, 2 completed with skipped players, 1 aborted.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/config"
	"sharpshooter/ingestion/internal/ingest"
	"sharpshooter/ingestion/internal/logging"
	"sharpshooter/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	exitOK         = 0
	exitAborted    = 1
	exitWithErrors = 2
)

func main() {
	auditOnly := flag.Bool("audit-only", false, "skip ingestion and only audit stored rows")
	lookback := flag.Int("lookback", 0, "override LOOKBACK_SEASONS for this run")
	flag.Parse()

	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)
	if *lookback > 0 {
		cfg.LookbackSeasons = *lookback
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, *auditOnly))
}

func run(ctx context.Context, cfg *config.Config, auditOnly bool) int {
	// 1. Schema and connectivity
	if err := repository.Migrate(ctx, cfg.DatabaseDSN()); err != nil {
		log.Error().Err(err).Msg("Failed to apply migrations")
		return exitAborted
	}

	db, err := repository.NewDatabase(ctx, repository.Config{DSN: cfg.DatabaseDSN()})
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return exitAborted
	}
	defer db.Close()

	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Error().Err(err).Msg("Database health check failed")
		return exitAborted
	}

	// 2. Ingest
	code := exitOK
	if !auditOnly {
		statsClient := client.NewClient(cfg.StatsBaseURL, cfg.StatsTimeout, cfg.StatsRequestInterval)
		report, err := ingest.NewRunnerFromConfig(statsClient, db, cfg).Run(ctx)
		switch {
		case err != nil:
			return exitAborted
		case report.State == ingest.StateCompletedWithErrors:
			log.Warn().Ints("player_ids", report.FailedPlayerIDs()).Msg("Re-run these players once the provider recovers")
			code = exitWithErrors
		}
	}

	// 3. Audit
	audit(ctx, db, cfg.SeasonGameLimit)
	return code
}

// audit logs stored rows that would indicate duplicate or runaway ingestion.
// Findings are warnings; they never change the exit status.
func audit(ctx context.Context, db *repository.Database, seasonLimit int) {
	dupes, err := db.PlayerStats.DuplicateCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count duplicate stat rows")
	} else if dupes > 0 {
		log.Warn().Int("duplicates", dupes).Msg("Duplicate (game_id, player_id) rows found")
	}

	over, err := db.PlayerStats.SeasonsOverGameLimit(ctx, seasonLimit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to audit season game counts")
		return
	}
	for _, s := range over {
		log.Warn().
			Int("player_id", s.PlayerID).
			Str("season", s.Season).
			Int("games", s.Games).
			Int("limit", seasonLimit).
			Msg("Player season exceeds game limit")
	}

	players, _ := db.Players.Count(ctx)
	stats, _ := db.PlayerStats.Count(ctx)
	log.Info().
		Int("players", players).
		Int("stat_rows", stats).
		Int("duplicates", dupes).
		Int("seasons_over_limit", len(over)).
		Msg("Audit complete")
}
