package models

import (
	"database/sql"
	"strings"
	"time"
)

// PlayerStat is one player's box score line for one game.
// (GameID, PlayerID) is unique; rows are never updated after insert.
type PlayerStat struct {
	ID         int            `db:"id"`
	GameID     string         `db:"game_id"`
	PlayerID   int            `db:"player_id"`
	GameDate   time.Time      `db:"game_date"`
	Season     string         `db:"season"`
	IsHomeGame bool           `db:"is_home_game"`
	Matchup    sql.NullString `db:"matchup"`

	// Minutes stay free text: the provider reports partial minutes in several shapes.
	MinutesPlayed sql.NullString `db:"minutes_played"`

	Points    sql.NullInt32 `db:"points"`
	Assists   sql.NullInt32 `db:"assists"`
	Rebounds  sql.NullInt32 `db:"rebounds"`
	Steals    sql.NullInt32 `db:"steals"`
	Blocks    sql.NullInt32 `db:"blocks"`
	Turnovers sql.NullInt32 `db:"turnovers"`
	PlusMinus sql.NullInt32 `db:"plus_minus"`

	// Shooting
	FGMade       sql.NullInt32 `db:"fg_made"`
	FGAttempted  sql.NullInt32 `db:"fg_attempted"`
	FG3Made      sql.NullInt32 `db:"fg3_made"`
	FG3Attempted sql.NullInt32 `db:"fg3_attempted"`
	FTMade       sql.NullInt32 `db:"ft_made"`
	FTAttempted  sql.NullInt32 `db:"ft_attempted"`

	CreatedAt time.Time `db:"created_at"`
}

// PlayerStatInput is a decoded game log row from the provider
type PlayerStatInput struct {
	GameID   string    `json:"Game_ID"`
	PlayerID int       `json:"Player_ID"`
	GameDate time.Time `json:"GAME_DATE"`
	Season   string    `json:"SEASON"`
	Matchup  string    `json:"MATCHUP"`
	Minutes  string    `json:"MIN"`

	Points    *int `json:"PTS,omitempty"`
	Assists   *int `json:"AST,omitempty"`
	Rebounds  *int `json:"REB,omitempty"`
	Steals    *int `json:"STL,omitempty"`
	Blocks    *int `json:"BLK,omitempty"`
	Turnovers *int `json:"TOV,omitempty"`
	PlusMinus *int `json:"PLUS_MINUS,omitempty"`

	FGMade       *int `json:"FGM,omitempty"`
	FGAttempted  *int `json:"FGA,omitempty"`
	FG3Made      *int `json:"FG3M,omitempty"`
	FG3Attempted *int `json:"FG3A,omitempty"`
	FTMade       *int `json:"FTM,omitempty"`
	FTAttempted  *int `json:"FTA,omitempty"`
}

// IsHomeGame reports whether the matchup is a home game ("LAL vs. DEN" rather than "LAL @ DEN")
func (psi *PlayerStatInput) IsHomeGame() bool {
	return strings.Contains(psi.Matchup, "vs.")
}

// ToPlayerStat converts PlayerStatInput (from API) to PlayerStat model
func (psi *PlayerStatInput) ToPlayerStat() *PlayerStat {
	stat := &PlayerStat{
		GameID:     psi.GameID,
		PlayerID:   psi.PlayerID,
		GameDate:   psi.GameDate,
		Season:     psi.Season,
		IsHomeGame: psi.IsHomeGame(),
	}

	if psi.Matchup != "" {
		stat.Matchup = sql.NullString{String: psi.Matchup, Valid: true}
	}
	if psi.Minutes != "" {
		stat.MinutesPlayed = sql.NullString{String: psi.Minutes, Valid: true}
	}

	stat.Points = nullInt(psi.Points)
	stat.Assists = nullInt(psi.Assists)
	stat.Rebounds = nullInt(psi.Rebounds)
	stat.Steals = nullInt(psi.Steals)
	stat.Blocks = nullInt(psi.Blocks)
	stat.Turnovers = nullInt(psi.Turnovers)
	stat.PlusMinus = nullInt(psi.PlusMinus)

	stat.FGMade = nullInt(psi.FGMade)
	stat.FGAttempted = nullInt(psi.FGAttempted)
	stat.FG3Made = nullInt(psi.FG3Made)
	stat.FG3Attempted = nullInt(psi.FG3Attempted)
	stat.FTMade = nullInt(psi.FTMade)
	stat.FTAttempted = nullInt(psi.FTAttempted)

	return stat
}

func nullInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}
