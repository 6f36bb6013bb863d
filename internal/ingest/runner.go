package ingest

import (
	"context"
	"errors"
	"time"

	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/config"
	"sharpshooter/ingestion/internal/metrics"
	"sharpshooter/ingestion/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store persists ingested rows. Both upserts are idempotent on their
// identifying key and report whether a new row was created.
type Store interface {
	UpsertPlayer(ctx context.Context, player *models.Player) (bool, error)
	UpsertPlayerStat(ctx context.Context, stat *models.PlayerStat) (bool, error)
}

// Runner drives one ingestion run: catalog, then each player in turn.
type Runner struct {
	catalog       *Catalog
	history       *History
	store         Store
	progressEvery int
	now           func() time.Time
}

// NewRunner wires a runner from its parts.
func NewRunner(catalog *Catalog, history *History, store Store, progressEvery int) *Runner {
	if progressEvery < 1 {
		progressEvery = 25
	}
	return &Runner{
		catalog:       catalog,
		history:       history,
		store:         store,
		progressEvery: progressEvery,
		now:           time.Now,
	}
}

// NewRunnerFromConfig builds the catalog and history fetchers over one shared
// fetcher, so every request in the run goes through the same rate limiter.
func NewRunnerFromConfig(fetcher Fetcher, store Store, cfg *config.Config) *Runner {
	retry := RetryPolicy{
		Attempts:        cfg.RetryAttempts,
		InitialInterval: cfg.RetryInitialInterval,
	}
	return NewRunner(
		NewCatalog(fetcher, retry, cfg.CatalogActiveOnly),
		NewHistory(fetcher, retry, cfg.LookbackSeasons),
		store,
		cfg.ProgressEvery,
	)
}

// Run executes the run sequentially. The returned report is never nil.
//
// Provider failures for a player are recorded and the run moves on. A catalog
// failure or a store failure aborts the run and is returned; so is context
// cancellation. Rows written before an abort stay, and re-running is safe.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := newReport()
	report.StartedAt = r.now()

	report.advance(StateLoadingCatalog)
	log.Info().Msg("Loading player catalog")

	players, err := r.catalog.ListPlayers(ctx)
	if err != nil {
		return r.abort(report, err)
	}

	report.PlayersTotal = len(players)
	report.advance(StateIngestingPlayers)
	log.Info().
		Int("players", len(players)).
		Strs("seasons", r.history.Seasons()).
		Msg("Ingesting players")

	for _, p := range players {
		if err := ctx.Err(); err != nil {
			return r.abort(report, err)
		}

		err := r.ingestPlayer(ctx, report, p)

		switch {
		case err == nil:
			report.PlayersProcessed++
			metrics.RecordPlayerProcessed()
		case IsPersistence(err):
			return r.abort(report, err)
		case ctx.Err() != nil:
			return r.abort(report, ctx.Err())
		default:
			kind := client.ErrorKind(err)
			report.PlayersProcessed++
			report.recordFailure(PlayerFailure{
				PlayerID: p.PlayerID,
				FullName: p.FullName,
				Kind:     kind,
				Message:  err.Error(),
			})
			metrics.RecordPlayerFailure(kind)
			log.Warn().
				Err(err).
				Int("player_id", p.PlayerID).
				Str("player", p.FullName).
				Str("kind", kind).
				Msg("Skipping player")
		}

		if report.PlayersProcessed%r.progressEvery == 0 {
			report.logProgress()
		}
	}

	report.finish(r.now())
	if report.PlayersProcessed%r.progressEvery != 0 {
		report.logProgress()
	}
	report.Log()
	metrics.RecordRun(string(report.State), report.Duration().Seconds())

	return report, nil
}

func (r *Runner) ingestPlayer(ctx context.Context, report *Report, p models.PlayerInput) error {
	created, err := r.store.UpsertPlayer(ctx, p.ToPlayer())
	if err != nil {
		return &PersistenceError{Op: "player", PlayerID: p.PlayerID, Err: err}
	}
	if created {
		report.PlayersCreated++
	}
	if !r.catalog.FetchesHistory(p) {
		report.HistorySkipped++
		return nil
	}

	return r.history.Each(ctx, p.PlayerID, func(stat *models.PlayerStat) error {
		created, err := r.store.UpsertPlayerStat(ctx, stat)
		if err != nil {
			return &PersistenceError{Op: "game " + stat.GameID, PlayerID: p.PlayerID, Err: err}
		}
		if created {
			report.StatsWritten++
			metrics.RecordStatRowWritten()
		} else {
			report.StatsExisting++
		}
		return nil
	})
}

func (r *Runner) abort(report *Report, err error) (*Report, error) {
	report.FinishedAt = r.now()

	level := zerolog.ErrorLevel
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		level = zerolog.WarnLevel
	}
	log.WithLevel(level).
		Err(err).
		Str("run_id", report.RunID).
		Str("state", string(report.State)).
		Str("progress", report.Progress()).
		Msg("Ingestion run aborted")

	metrics.RecordAbortedRun(string(report.State), report.Duration().Seconds())
	return report, err
}
