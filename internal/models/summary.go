package models

import (
	"strings"
	"time"
)

// GameSummary is one game reconstructed from home-side stat rows
type GameSummary struct {
	GameID   string    `json:"game_id"`
	GameDate time.Time `json:"game_date"`
	Season   string    `json:"season"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
}

// ParseHomeMatchup splits a home matchup ("LAL vs. DEN") into home and away
// team abbreviations. ok is false for away matchups ("LAL @ DEN").
func ParseHomeMatchup(matchup string) (home, away string, ok bool) {
	home, away, ok = strings.Cut(matchup, " vs. ")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(home), strings.TrimSpace(away), true
}

// PlayerForm aggregates a player's most recent games
type PlayerForm struct {
	PlayerID     int       `json:"player_id"`
	FullName     string    `json:"full_name"`
	Games        int       `json:"games"`
	AvgPoints    float64   `json:"avg_points"`
	AvgRebounds  float64   `json:"avg_rebounds"`
	AvgAssists   float64   `json:"avg_assists"`
	LastGameID   string    `json:"last_game_id"`
	LastGameDate time.Time `json:"last_game_date"`
	LastMatchup  string    `json:"last_matchup"`
}

// SeasonGameCount is the number of stored games for one player-season
type SeasonGameCount struct {
	PlayerID int    `json:"player_id"`
	Season   string `json:"season"`
	Games    int    `json:"games"`
}
