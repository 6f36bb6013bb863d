//go:build integration

package repository

import (
	"testing"

	"sharpshooter/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPlayer(t *testing.T, db *Database, id int, name string) *models.Player {
	t.Helper()
	p := &models.Player{PlayerID: id, FullName: name, IsActive: true}
	_, err := db.Players.Upsert(t.Context(), p)
	require.NoError(t, err)
	return p
}

func TestPlayerRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	player := &models.Player{PlayerID: 2544, FullName: "LeBron James", IsActive: true}

	created, err := db.Players.Upsert(ctx, player)
	require.NoError(t, err, "Should insert player")
	assert.True(t, created)
	assert.NotZero(t, player.ID)

	// Second run flips the active flag; the name is immutable.
	again := &models.Player{PlayerID: 2544, FullName: "L. James", IsActive: false}
	created, err = db.Players.Upsert(ctx, again)
	require.NoError(t, err, "Should update player")
	assert.False(t, created)
	assert.Equal(t, player.ID, again.ID)
	assert.Equal(t, "LeBron James", again.FullName)

	retrieved, err := db.Players.GetByPlayerID(ctx, 2544)
	require.NoError(t, err)
	assert.Equal(t, "LeBron James", retrieved.FullName)
	assert.False(t, retrieved.IsActive)

	n, err := db.Players.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestPlayerRepository_GetByPlayerID_NotFound(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	_, err := db.Players.GetByPlayerID(ctx, 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayerRepository_List(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	seedPlayer(t, db, 201939, "Stephen Curry")
	seedPlayer(t, db, 2544, "LeBron James")
	_, err := db.Players.Upsert(ctx, &models.Player{PlayerID: 977, FullName: "Kobe Bryant", IsActive: false})
	require.NoError(t, err)

	all, err := db.Players.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Kobe Bryant", all[0].FullName)

	active, err := db.Players.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
