package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestPlayerInput_ToPlayer(t *testing.T) {
	in := PlayerInput{PlayerID: 2544, FullName: "LeBron James", IsActive: true}

	p := in.ToPlayer()
	assert.Equal(t, 2544, p.PlayerID)
	assert.Equal(t, "LeBron James", p.FullName)
	assert.True(t, p.IsActive)
	assert.Zero(t, p.ID)
}

func TestPlayerStatInput_ToPlayerStat(t *testing.T) {
	date := time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC)
	in := PlayerStatInput{
		GameID:    "0022300061",
		PlayerID:  2544,
		GameDate:  date,
		Season:    "2023-24",
		Matchup:   "LAL @ DEN",
		Minutes:   "29:04",
		Points:    intPtr(21),
		PlusMinus: intPtr(-5),
	}

	s := in.ToPlayerStat()
	assert.Equal(t, "0022300061", s.GameID)
	assert.Equal(t, date, s.GameDate)
	assert.False(t, s.IsHomeGame)
	assert.Equal(t, "LAL @ DEN", s.Matchup.String)
	assert.Equal(t, "29:04", s.MinutesPlayed.String)
	assert.Equal(t, int32(21), s.Points.Int32)
	assert.Equal(t, int32(-5), s.PlusMinus.Int32)
	assert.True(t, s.PlusMinus.Valid)
	assert.False(t, s.Assists.Valid)
	assert.False(t, s.FTMade.Valid)
}

func TestPlayerStatInput_EmptyTextIsNull(t *testing.T) {
	s := (&PlayerStatInput{GameID: "G1", PlayerID: 1}).ToPlayerStat()
	assert.False(t, s.Matchup.Valid)
	assert.False(t, s.MinutesPlayed.Valid)
}

func TestPlayerStatInput_IsHomeGame(t *testing.T) {
	assert.True(t, (&PlayerStatInput{Matchup: "LAL vs. DEN"}).IsHomeGame())
	assert.False(t, (&PlayerStatInput{Matchup: "LAL @ DEN"}).IsHomeGame())
	assert.False(t, (&PlayerStatInput{}).IsHomeGame())
}

func TestParseHomeMatchup(t *testing.T) {
	home, away, ok := ParseHomeMatchup("DEN vs. LAL")
	assert.True(t, ok)
	assert.Equal(t, "DEN", home)
	assert.Equal(t, "LAL", away)

	_, _, ok = ParseHomeMatchup("LAL @ DEN")
	assert.False(t, ok)
}
