package testutil

import (
	"context"
	"sort"
	"sync"

	"sharpshooter/ingestion/internal/models"
)

type statKey struct {
	gameID   string
	playerID int
}

// MemoryStore is an in-memory store with the same upsert semantics as the
// postgres repositories.
type MemoryStore struct {
	mu      sync.Mutex
	players map[int]*models.Player
	stats   map[statKey]*models.PlayerStat

	// Err, when set, fails every write.
	Err error
	// FailStatAfter fails stat writes once this many rows exist (zero disables).
	FailStatAfter int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players: make(map[int]*models.Player),
		stats:   make(map[statKey]*models.PlayerStat),
	}
}

// UpsertPlayer inserts the player or refreshes its active flag.
func (s *MemoryStore) UpsertPlayer(ctx context.Context, player *models.Player) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}

	if existing, ok := s.players[player.PlayerID]; ok {
		existing.IsActive = player.IsActive
		return false, nil
	}
	p := *player
	p.ID = len(s.players) + 1
	s.players[player.PlayerID] = &p
	return true, nil
}

// UpsertPlayerStat inserts the row unless (game, player) already exists.
func (s *MemoryStore) UpsertPlayerStat(ctx context.Context, stat *models.PlayerStat) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if s.FailStatAfter > 0 && len(s.stats) >= s.FailStatAfter {
		return false, errFull
	}

	key := statKey{gameID: stat.GameID, playerID: stat.PlayerID}
	if _, ok := s.stats[key]; ok {
		return false, nil
	}
	st := *stat
	st.ID = len(s.stats) + 1
	s.stats[key] = &st
	return true, nil
}

// PlayerCount is the number of stored players.
func (s *MemoryStore) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// StatCount is the number of stored stat rows.
func (s *MemoryStore) StatCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stats)
}

// Player returns a stored player by external id.
func (s *MemoryStore) Player(playerID int) (*models.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return nil, false
	}
	cp := *p
	return &cp, true
}

// Stat returns a stored stat row.
func (s *MemoryStore) Stat(gameID string, playerID int) (*models.PlayerStat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[statKey{gameID: gameID, playerID: playerID}]
	if !ok {
		return nil, false
	}
	cp := *st
	return &cp, true
}

// StatsFor returns a player's rows ordered by game id.
func (s *MemoryStore) StatsFor(playerID int) []models.PlayerStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.PlayerStat
	for k, st := range s.stats {
		if k.playerID == playerID {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errFull = storeError("store: disk full")
