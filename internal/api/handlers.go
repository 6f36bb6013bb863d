package api

import (
	"net/http"
	"strconv"
	"time"

	"sharpshooter/ingestion/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleHome(c echo.Context) error {
	return c.String(http.StatusOK, "Welcome to NBA Betting Generator")
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.health.Health(c.Request().Context()); err != nil {
		log.Warn().Err(err).Msg("Health check failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleGamePicks(c echo.Context) error {
	out, err := s.picks.GamePicks(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble game picks")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load picks"})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handlePropPicks(c echo.Context) error {
	out, err := s.picks.PropPicks(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to assemble prop picks")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load props"})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handlePlayerStats(c echo.Context) error {
	playerID, err := strconv.Atoi(c.Param("id"))
	if err != nil || playerID <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid player id"})
	}

	limit := s.opts.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		}
		limit = min(n, s.opts.MaxLimit)
	}

	rows, err := s.stats.ListByPlayer(c.Request().Context(), playerID, limit)
	if err != nil {
		log.Error().Err(err).Int("player_id", playerID).Msg("Failed to load player stats")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
	}

	out := make([]statResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, newStatResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// statResponse is the wire form of a stat row; NULL stats encode as null.
type statResponse struct {
	GameID        string  `json:"game_id"`
	PlayerID      int     `json:"player_id"`
	GameDate      string  `json:"game_date"`
	Season        string  `json:"season"`
	IsHomeGame    bool    `json:"is_home_game"`
	Matchup       *string `json:"matchup"`
	MinutesPlayed *string `json:"minutes_played"`
	Points        *int32  `json:"points"`
	Assists       *int32  `json:"assists"`
	Rebounds      *int32  `json:"rebounds"`
	Steals        *int32  `json:"steals"`
	Blocks        *int32  `json:"blocks"`
	Turnovers     *int32  `json:"turnovers"`
	PlusMinus     *int32  `json:"plus_minus"`
	FGMade        *int32  `json:"fg_made"`
	FGAttempted   *int32  `json:"fg_attempted"`
	FG3Made       *int32  `json:"fg3_made"`
	FG3Attempted  *int32  `json:"fg3_attempted"`
	FTMade        *int32  `json:"ft_made"`
	FTAttempted   *int32  `json:"ft_attempted"`
}

func newStatResponse(s *models.PlayerStat) statResponse {
	r := statResponse{
		GameID:     s.GameID,
		PlayerID:   s.PlayerID,
		GameDate:   s.GameDate.Format(time.DateOnly),
		Season:     s.Season,
		IsHomeGame: s.IsHomeGame,
	}
	if s.Matchup.Valid {
		r.Matchup = &s.Matchup.String
	}
	if s.MinutesPlayed.Valid {
		r.MinutesPlayed = &s.MinutesPlayed.String
	}
	r.Points = nullable(s.Points.Int32, s.Points.Valid)
	r.Assists = nullable(s.Assists.Int32, s.Assists.Valid)
	r.Rebounds = nullable(s.Rebounds.Int32, s.Rebounds.Valid)
	r.Steals = nullable(s.Steals.Int32, s.Steals.Valid)
	r.Blocks = nullable(s.Blocks.Int32, s.Blocks.Valid)
	r.Turnovers = nullable(s.Turnovers.Int32, s.Turnovers.Valid)
	r.PlusMinus = nullable(s.PlusMinus.Int32, s.PlusMinus.Valid)
	r.FGMade = nullable(s.FGMade.Int32, s.FGMade.Valid)
	r.FGAttempted = nullable(s.FGAttempted.Int32, s.FGAttempted.Valid)
	r.FG3Made = nullable(s.FG3Made.Int32, s.FG3Made.Valid)
	r.FG3Attempted = nullable(s.FG3Attempted.Int32, s.FG3Attempted.Valid)
	r.FTMade = nullable(s.FTMade.Int32, s.FTMade.Valid)
	r.FTAttempted = nullable(s.FTAttempted.Int32, s.FTAttempted.Valid)
	return r
}

func nullable(v int32, valid bool) *int32 {
	if !valid {
		return nil
	}
	return &v
}
