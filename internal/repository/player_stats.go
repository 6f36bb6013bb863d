package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sharpshooter/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
)

// PlayerStatsRepository handles per-game player stat rows. Rows are append-only.
type PlayerStatsRepository struct {
	db *Database
}

const playerStatColumns = `
	id, game_id, player_id, game_date, season, is_home_game, matchup, minutes_played,
	points, assists, rebounds, steals, blocks, turnovers, plus_minus,
	fg_made, fg_attempted, fg3_made, fg3_attempted, ft_made, ft_attempted,
	created_at`

// Upsert inserts the row unless (game_id, player_id) already exists, in which
// case the stored row is left untouched. Returns true when a new row was created.
func (r *PlayerStatsRepository) Upsert(ctx context.Context, stat *models.PlayerStat) (bool, error) {
	query := `
		INSERT INTO player_stats (
			game_id, player_id, game_date, season, is_home_game, matchup, minutes_played,
			points, assists, rebounds, steals, blocks, turnovers, plus_minus,
			fg_made, fg_attempted, fg3_made, fg3_attempted, ft_made, ft_attempted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (game_id, player_id) DO NOTHING
		RETURNING id, created_at
	`

	start := time.Now()
	err := r.db.Pool.QueryRow(
		ctx, query,
		stat.GameID, stat.PlayerID, stat.GameDate, stat.Season, stat.IsHomeGame, stat.Matchup, stat.MinutesPlayed,
		stat.Points, stat.Assists, stat.Rebounds, stat.Steals, stat.Blocks, stat.Turnovers, stat.PlusMinus,
		stat.FGMade, stat.FGAttempted, stat.FG3Made, stat.FG3Attempted, stat.FTMade, stat.FTAttempted,
	).Scan(&stat.ID, &stat.CreatedAt)
	observe("upsert", "player_stats", start, err)

	// DO NOTHING returns no row when the game is already stored.
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to upsert stats for game %s player %d: %w", stat.GameID, stat.PlayerID, err)
	}

	return true, nil
}

// Get retrieves one stat row
func (r *PlayerStatsRepository) Get(ctx context.Context, gameID string, playerID int) (*models.PlayerStat, error) {
	query := `SELECT ` + playerStatColumns + ` FROM player_stats WHERE game_id = $1 AND player_id = $2`

	start := time.Now()
	stat, err := scanPlayerStat(r.db.Pool.QueryRow(ctx, query, gameID, playerID))
	observe("select", "player_stats", start, err)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("stats game=%s player=%d: %w", gameID, playerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return stat, nil
}

// ListByPlayer returns a player's most recent games, newest first
func (r *PlayerStatsRepository) ListByPlayer(ctx context.Context, playerID, limit int) ([]*models.PlayerStat, error) {
	query := `
		SELECT ` + playerStatColumns + `
		FROM player_stats
		WHERE player_id = $1
		ORDER BY game_date DESC, game_id DESC
		LIMIT $2
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, playerID, limit)
	observe("select", "player_stats", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list player stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.PlayerStat
	for rows.Next() {
		stat, err := scanPlayerStat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player stats: %w", err)
	}

	return stats, nil
}

// Count returns the number of stored stat rows
func (r *PlayerStatsRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM player_stats`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count player stats: %w", err)
	}
	return n, nil
}

// DuplicateCount returns how many (game_id, player_id) pairs appear more than once.
// Always zero while the unique constraint is in place.
func (r *PlayerStatsRepository) DuplicateCount(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT game_id, player_id
			FROM player_stats
			GROUP BY game_id, player_id
			HAVING COUNT(*) > 1
		) d
	`
	var n int
	if err := r.db.Pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count duplicate stats: %w", err)
	}
	return n, nil
}

// SeasonsOverGameLimit lists player-seasons with more stored games than a
// regular season has.
func (r *PlayerStatsRepository) SeasonsOverGameLimit(ctx context.Context, limit int) ([]models.SeasonGameCount, error) {
	query := `
		SELECT player_id, season, COUNT(*) AS games
		FROM player_stats
		GROUP BY player_id, season
		HAVING COUNT(*) > $1
		ORDER BY games DESC, player_id, season
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, limit)
	observe("select", "player_stats", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to audit season game counts: %w", err)
	}
	defer rows.Close()

	var out []models.SeasonGameCount
	for rows.Next() {
		var c models.SeasonGameCount
		if err := rows.Scan(&c.PlayerID, &c.Season, &c.Games); err != nil {
			return nil, fmt.Errorf("failed to scan season game count: %w", err)
		}
		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating season game counts: %w", err)
	}

	return out, nil
}

// RecentForm averages each active player's last `window` games and returns
// the top `limit` players by scoring.
func (r *PlayerStatsRepository) RecentForm(ctx context.Context, window, limit int) ([]models.PlayerForm, error) {
	query := `
		WITH ranked AS (
			SELECT ps.*,
			       ROW_NUMBER() OVER (PARTITION BY ps.player_id ORDER BY ps.game_date DESC, ps.game_id DESC) AS rn
			FROM player_stats ps
		)
		SELECT p.player_id, p.full_name, COUNT(*) AS games,
		       COALESCE(AVG(r.points), 0)::float8,
		       COALESCE(AVG(r.rebounds), 0)::float8,
		       COALESCE(AVG(r.assists), 0)::float8,
		       MAX(r.game_id) FILTER (WHERE r.rn = 1),
		       MAX(r.game_date),
		       COALESCE(MAX(r.matchup) FILTER (WHERE r.rn = 1), '')
		FROM ranked r
		JOIN players p ON p.player_id = r.player_id
		WHERE r.rn <= $1 AND p.is_active
		GROUP BY p.player_id, p.full_name
		ORDER BY 4 DESC, p.player_id
		LIMIT $2
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, window, limit)
	observe("select", "player_stats", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent form: %w", err)
	}
	defer rows.Close()

	var out []models.PlayerForm
	for rows.Next() {
		var f models.PlayerForm
		if err := rows.Scan(
			&f.PlayerID, &f.FullName, &f.Games,
			&f.AvgPoints, &f.AvgRebounds, &f.AvgAssists,
			&f.LastGameID, &f.LastGameDate, &f.LastMatchup,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recent form: %w", err)
		}
		out = append(out, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent form: %w", err)
	}

	return out, nil
}

// LatestGames returns the most recent distinct games seen from the home side
func (r *PlayerStatsRepository) LatestGames(ctx context.Context, limit int) ([]models.GameSummary, error) {
	query := `
		SELECT game_id, game_date, season, matchup
		FROM (
			SELECT DISTINCT ON (game_id) game_id, game_date, season, matchup
			FROM player_stats
			WHERE is_home_game AND matchup IS NOT NULL
			ORDER BY game_id
		) g
		ORDER BY game_date DESC, game_id DESC
		LIMIT $1
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, limit)
	observe("select", "player_stats", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest games: %w", err)
	}
	defer rows.Close()

	var out []models.GameSummary
	for rows.Next() {
		var (
			g       models.GameSummary
			matchup string
		)
		if err := rows.Scan(&g.GameID, &g.GameDate, &g.Season, &matchup); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		home, away, ok := models.ParseHomeMatchup(matchup)
		if !ok {
			continue
		}
		g.HomeTeam, g.AwayTeam = home, away
		out = append(out, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayerStat(row rowScanner) (*models.PlayerStat, error) {
	var s models.PlayerStat
	err := row.Scan(
		&s.ID, &s.GameID, &s.PlayerID, &s.GameDate, &s.Season, &s.IsHomeGame, &s.Matchup, &s.MinutesPlayed,
		&s.Points, &s.Assists, &s.Rebounds, &s.Steals, &s.Blocks, &s.Turnovers, &s.PlusMinus,
		&s.FGMade, &s.FGAttempted, &s.FG3Made, &s.FG3Attempted, &s.FTMade, &s.FTAttempted,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
