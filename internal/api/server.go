package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sharpshooter/ingestion/internal/models"
	"sharpshooter/ingestion/internal/picks"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// PicksProvider assembles pick lists. *picks.Service satisfies it.
type PicksProvider interface {
	GamePicks(ctx context.Context) ([]picks.GamePick, error)
	PropPicks(ctx context.Context) ([]picks.PropPick, error)
}

// StatsReader reads persisted stat rows. *repository.PlayerStatsRepository satisfies it.
type StatsReader interface {
	ListByPlayer(ctx context.Context, playerID, limit int) ([]*models.PlayerStat, error)
}

// HealthChecker reports backing store health. *repository.Database satisfies it.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Options configures the HTTP server.
type Options struct {
	CORSOrigins  []string
	DefaultLimit int
	MaxLimit     int
}

// Server is the read-only picks API.
type Server struct {
	echo   *echo.Echo
	picks  PicksProvider
	stats  StatsReader
	health HealthChecker
	opts   Options
}

// NewServer wires routes and middleware.
func NewServer(opts Options, picks PicksProvider, stats StatsReader, health HealthChecker) *Server {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 20
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: opts.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		MaxAge:       3600,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("HTTP request")
			return nil
		},
	}))

	s := &Server{echo: e, picks: picks, stats: stats, health: health, opts: opts}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.handleHome)
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.GET("/picks", s.handleGamePicks)
	api.GET("/props", s.handlePropPicks)
	api.GET("/players/:id/stats", s.handlePlayerStats)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("Starting API server")
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
