package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sharpshooter/ingestion/internal/metrics"
	"sharpshooter/ingestion/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// PlayerRepository handles player database operations
type PlayerRepository struct {
	db *Database
}

// Upsert inserts a player or refreshes its active flag. The full name is
// kept as first written. Returns true when a new row was created.
func (r *PlayerRepository) Upsert(ctx context.Context, player *models.Player) (bool, error) {
	query := `
		INSERT INTO players (player_id, full_name, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, full_name, created_at, updated_at, (xmax = 0) AS inserted
	`

	start := time.Now()
	var inserted bool
	err := r.db.Pool.QueryRow(
		ctx, query,
		player.PlayerID, player.FullName, player.IsActive,
	).Scan(&player.ID, &player.FullName, &player.CreatedAt, &player.UpdatedAt, &inserted)
	observe("upsert", "players", start, err)

	if err != nil {
		return false, fmt.Errorf("failed to upsert player %d: %w", player.PlayerID, err)
	}

	if inserted {
		log.Debug().
			Int("player_id", player.PlayerID).
			Str("name", player.FullName).
			Msg("Player created")
	}

	return inserted, nil
}

// GetByPlayerID retrieves a player by external id
func (r *PlayerRepository) GetByPlayerID(ctx context.Context, playerID int) (*models.Player, error) {
	query := `
		SELECT id, player_id, full_name, is_active, created_at, updated_at
		FROM players
		WHERE player_id = $1
	`

	start := time.Now()
	var p models.Player
	err := r.db.Pool.QueryRow(ctx, query, playerID).Scan(
		&p.ID, &p.PlayerID, &p.FullName, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	observe("select", "players", start, err)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &p, nil
}

// List returns players ordered by name, optionally active only
func (r *PlayerRepository) List(ctx context.Context, activeOnly bool) ([]*models.Player, error) {
	query := `
		SELECT id, player_id, full_name, is_active, created_at, updated_at
		FROM players
		WHERE ($1 = FALSE OR is_active)
		ORDER BY full_name
	`

	start := time.Now()
	rows, err := r.db.Pool.Query(ctx, query, activeOnly)
	observe("select", "players", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.PlayerID, &p.FullName, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// Count returns the number of stored players
func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

func observe(operation, table string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	metrics.RecordDBQuery(operation, table, status, time.Since(start).Seconds())
}
