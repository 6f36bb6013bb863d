package picks

import (
	"fmt"
	"math"
	"time"
)

// Odds holds the fair American odds for each side of a game.
type Odds struct {
	Home string `json:"home"`
	Away string `json:"away"`
}

// GamePick is a game-level recommendation.
type GamePick struct {
	ID         int       `json:"id"`
	Team       string    `json:"team"`
	Opponent   string    `json:"opponent"`
	StartTime  time.Time `json:"start_time"`
	Confidence float64   `json:"confidence"`
	Prediction string    `json:"prediction"`
	Odds       Odds      `json:"odds"`
}

// PropPick is a player proposition recommendation.
type PropPick struct {
	ID         int       `json:"id"`
	Player     string    `json:"player"`
	Game       string    `json:"game"`
	StartTime  time.Time `json:"start_time"`
	Confidence float64   `json:"confidence"`
	Name       string    `json:"name"`
	Market     string    `json:"market"`
	Line       float64   `json:"line"`
	Odds       string    `json:"odds"`
}

// Prop markets offered for each player.
const (
	MarketPoints   = "points"
	MarketRebounds = "rebounds"
	MarketAssists  = "assists"
)

// Markets lists the prop markets in display order.
var Markets = []string{MarketPoints, MarketRebounds, MarketAssists}

// PropLine is the half-point line nearest the average, so pushes are impossible
// (24.0 -> 24.5, 24.9 -> 24.5).
func PropLine(avg float64) float64 {
	if avg < 0 {
		avg = 0
	}
	return math.Floor(avg) + 0.5
}

// FairOdds renders a win probability as American odds with no margin.
// Probabilities are clamped to [0.01, 0.99].
func FairOdds(p float64) string {
	p = math.Min(math.Max(p, 0.01), 0.99)
	if p >= 0.5 {
		return fmt.Sprintf("%d", -int(math.Round(100*p/(1-p))))
	}
	return fmt.Sprintf("+%d", int(math.Round(100*(1-p)/p)))
}
