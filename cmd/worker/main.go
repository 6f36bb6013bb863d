package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"sharpshooter/ingestion/internal/cache"
	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/config"
	"sharpshooter/ingestion/internal/ingest"
	"sharpshooter/ingestion/internal/logging"
	"sharpshooter/ingestion/internal/metrics"
	"sharpshooter/ingestion/internal/picks"
	"sharpshooter/ingestion/internal/repository"
	"sharpshooter/ingestion/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting NBA player stats ingestion worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("cron", cfg.IngestCron).
		Int("lookback_seasons", cfg.LookbackSeasons).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	statsClient := client.NewClient(cfg.StatsBaseURL, cfg.StatsTimeout, cfg.StatsRequestInterval)
	log.Info().
		Str("base_url", cfg.StatsBaseURL).
		Dur("request_interval", cfg.StatsRequestInterval).
		Msg("Stats client initialized")

	if err := repository.Migrate(ctx, cfg.DatabaseDSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	db, err := repository.NewDatabase(ctx, repository.Config{DSN: cfg.DatabaseDSN()})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Redis only holds derived pick lists, so the worker runs without it
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis cache connected")
	}

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort, db)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	runner := &invalidatingRunner{
		runner: ingest.NewRunnerFromConfig(statsClient, db, cfg),
		cache:  redisCache,
	}
	sched := scheduler.NewScheduler(cfg.IngestCron, runner)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial sync if enabled
	if cfg.InitialSyncEnabled {
		log.Info().Msg("Running initial ingestion...")
		if _, err := sched.RunNow(ctx); err != nil {
			log.Error().Err(err).Msg("Initial ingestion failed, continuing anyway...")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// invalidatingRunner drops cached pick lists once a run has written rows.
type invalidatingRunner struct {
	runner *ingest.Runner
	cache  *cache.RedisCache
}

func (r *invalidatingRunner) Run(ctx context.Context) (*ingest.Report, error) {
	report, err := r.runner.Run(ctx)
	if r.cache == nil || report == nil || report.StatsWritten == 0 {
		return report, err
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if cerr := r.cache.Delete(cctx, picks.CacheKeyGames, picks.CacheKeyProps); cerr != nil {
		log.Warn().Err(cerr).Msg("Failed to invalidate picks cache")
	} else {
		log.Debug().Msg("Picks cache invalidated")
	}
	return report, err
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
