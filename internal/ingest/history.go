package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/models"
)

// SeasonTypeRegular restricts game logs to regular season games.
const SeasonTypeRegular = "Regular Season"

var gameDateLayouts = []string{
	"Jan 02, 2006",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// History fetches per-player game logs over a trailing window of seasons.
type History struct {
	fetcher  Fetcher
	retry    RetryPolicy
	lookback int
	now      func() time.Time
}

// NewHistory creates a game history fetcher covering lookback seasons.
func NewHistory(fetcher Fetcher, retry RetryPolicy, lookback int) *History {
	return &History{
		fetcher:  fetcher,
		retry:    retry,
		lookback: lookback,
		now:      time.Now,
	}
}

// Seasons returns the season labels Each walks, oldest first.
func (h *History) Seasons() []string {
	return SeasonWindow(h.now(), h.lookback)
}

// Each streams the player's regular season games to visit, requesting one
// season at a time. Nothing is buffered across seasons, so calling Each again
// restarts from the oldest season. A visit error stops the walk and is
// returned as is.
func (h *History) Each(ctx context.Context, playerID int, visit func(*models.PlayerStat) error) error {
	for _, season := range h.Seasons() {
		stats, err := h.fetchSeason(ctx, playerID, season)
		if err != nil {
			return err
		}
		for _, stat := range stats {
			if err := visit(stat); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *History) fetchSeason(ctx context.Context, playerID int, season string) ([]*models.PlayerStat, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.Itoa(playerID))
	params.Set("Season", season)
	params.Set("SeasonType", SeasonTypeRegular)
	params.Set("LeagueID", "00")
	params.Set("DateFrom", "")
	params.Set("DateTo", "")

	body, err := h.retry.Fetch(ctx, h.fetcher, client.EndpointPlayerGameLog, params)
	if err != nil {
		return nil, err
	}
	return decodeGameLog(body, playerID, season)
}

func decodeGameLog(body []byte, playerID int, season string) ([]*models.PlayerStat, error) {
	const endpoint = client.EndpointPlayerGameLog

	rs, err := client.DecodeResultSet(endpoint, body)
	if err != nil {
		return nil, err
	}
	if len(rs.RowSet) == 0 {
		return nil, nil
	}
	if err := rs.Require(endpoint, "Game_ID", "GAME_DATE"); err != nil {
		return nil, err
	}

	rows := rs.Rows()
	stats := make([]*models.PlayerStat, 0, len(rows))
	for i, row := range rows {
		in, err := decodeGameRow(row, playerID, season)
		if err != nil {
			return nil, &client.DecodeError{Endpoint: endpoint, Err: fmt.Errorf("row %d: %w", i, err)}
		}
		stats = append(stats, in.ToPlayerStat())
	}
	return stats, nil
}

func decodeGameRow(row client.Row, playerID int, season string) (*models.PlayerStatInput, error) {
	gameID := strings.TrimSpace(row.String("Game_ID"))
	if gameID == "" {
		return nil, fmt.Errorf("missing Game_ID")
	}

	gameDate, err := parseGameDate(row.String("GAME_DATE"))
	if err != nil {
		return nil, err
	}

	// Older payloads omit the column; a present id must match the request.
	if id, ok := row.Int("Player_ID"); ok && id != playerID {
		return nil, fmt.Errorf("Player_ID %d does not match requested player %d", id, playerID)
	}
	if s := row.String("SEASON_ID"); len(s) == 5 {
		// SEASON_ID is "2" + start year for regular season rows, e.g. 22023.
		if y, err := strconv.Atoi(s[1:]); err == nil {
			season = SeasonLabel(y)
		}
	}

	return &models.PlayerStatInput{
		GameID:   gameID,
		PlayerID: playerID,
		GameDate: gameDate,
		Season:   season,
		Matchup:  strings.TrimSpace(row.String("MATCHUP")),
		Minutes:  strings.TrimSpace(row.String("MIN")),

		Points:    intCell(row, "PTS"),
		Assists:   intCell(row, "AST"),
		Rebounds:  intCell(row, "REB"),
		Steals:    intCell(row, "STL"),
		Blocks:    intCell(row, "BLK"),
		Turnovers: intCell(row, "TOV"),
		PlusMinus: intCell(row, "PLUS_MINUS"),

		FGMade:       intCell(row, "FGM"),
		FGAttempted:  intCell(row, "FGA"),
		FG3Made:      intCell(row, "FG3M"),
		FG3Attempted: intCell(row, "FG3A"),
		FTMade:       intCell(row, "FTM"),
		FTAttempted:  intCell(row, "FTA"),
	}, nil
}

func parseGameDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range gameDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised GAME_DATE %q", s)
}

func intCell(row client.Row, column string) *int {
	n, ok := row.Int(column)
	if !ok {
		return nil
	}
	return &n
}
