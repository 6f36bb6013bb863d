package models

import (
	"time"
)

// Player represents an NBA player known to the stats provider
type Player struct {
	ID        int       `db:"id"`
	PlayerID  int       `db:"player_id"`
	FullName  string    `db:"full_name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PlayerInput is one roster entry from the catalog endpoint
type PlayerInput struct {
	PlayerID int    `json:"PERSON_ID"`
	FullName string `json:"DISPLAY_FIRST_LAST"`
	IsActive bool   `json:"ROSTERSTATUS"`
}

// ToPlayer converts PlayerInput (from API) to Player model
func (pi *PlayerInput) ToPlayer() *Player {
	return &Player{
		PlayerID: pi.PlayerID,
		FullName: pi.FullName,
		IsActive: pi.IsActive,
	}
}
