package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"sharpshooter/ingestion/internal/api"
	"sharpshooter/ingestion/internal/cache"
	"sharpshooter/ingestion/internal/config"
	"sharpshooter/ingestion/internal/logging"
	"sharpshooter/ingestion/internal/picks"
	"sharpshooter/ingestion/internal/predict"
	"sharpshooter/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting NBA picks API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDatabase(ctx, repository.Config{DSN: cfg.DatabaseDSN()})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	var picksCache picks.Cache
	redisCache, err := cache.NewRedisCache(cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - serving picks uncached")
	} else {
		defer redisCache.Close()
		picksCache = redisCache
		log.Info().Msg("Redis cache connected")
	}

	svc := picks.NewService(db.PlayerStats, predict.Unavailable{}, picksCache, picks.Options{
		PropsLimit: cfg.PropsLimit,
		CacheTTL:   cfg.CachePicksTTL(),
	})

	srv := api.NewServer(api.Options{CORSOrigins: cfg.CORSOrigins}, svc, db.PlayerStats, db)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			log.Error().Err(err).Msg("API server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down API server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}
	log.Info().Msg("API shutdown complete")
}
