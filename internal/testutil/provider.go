// Package testutil holds fixtures shared by package tests: canned
// stats.nba.com payloads, a scriptable provider and an in-memory store.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"sharpshooter/ingestion/internal/client"
)

// RosterEntry is one commonallplayers row.
type RosterEntry struct {
	PlayerID int
	FullName string
	Active   bool
}

// GameLine is one playergamelog row. Nil counting stats are sent as JSON null.
type GameLine struct {
	GameID   string
	Season   string // label the row belongs to, e.g. "2023-24"
	GameDate string // provider format, e.g. "OCT 24, 2023"
	Matchup  string
	Minutes  any
	Points   *int
	Assists  *int
	Rebounds *int
}

// Int returns a pointer for GameLine literals.
func Int(n int) *int { return &n }

var rosterHeaders = []string{
	"PERSON_ID", "DISPLAY_LAST_COMMA_FIRST", "DISPLAY_FIRST_LAST", "ROSTERSTATUS",
	"FROM_YEAR", "TO_YEAR", "TEAM_ABBREVIATION",
}

var gameLogHeaders = []string{
	"SEASON_ID", "Player_ID", "Game_ID", "GAME_DATE", "MATCHUP", "WL", "MIN",
	"FGM", "FGA", "FG_PCT", "FG3M", "FG3A", "FG3_PCT", "FTM", "FTA", "FT_PCT",
	"OREB", "DREB", "REB", "AST", "STL", "BLK", "TOV", "PF", "PTS", "PLUS_MINUS",
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

type payload struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

// RosterPayload renders a commonallplayers response.
func RosterPayload(entries ...RosterEntry) []byte {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		status := 0
		if e.Active {
			status = 1
		}
		rows = append(rows, []any{e.PlayerID, e.FullName, e.FullName, status, "2003", "2024", "LAL"})
	}
	return mustJSON(payload{
		Resource:   client.EndpointCommonAllPlayers,
		ResultSets: []resultSet{{Name: "CommonAllPlayers", Headers: rosterHeaders, RowSet: rows}},
	})
}

// GameLogPayload renders a playergamelog response for one player.
func GameLogPayload(playerID int, lines ...GameLine) []byte {
	rows := make([][]any, 0, len(lines))
	for _, g := range lines {
		rows = append(rows, []any{
			seasonID(g.Season), playerID, g.GameID, g.GameDate, g.Matchup, "W", g.Minutes,
			10, 20, 0.5, 2, 6, 0.333, 4, 5, 0.8,
			1, orNull(g.Rebounds), orNull(g.Rebounds), orNull(g.Assists), 1, 0, 3, 2, orNull(g.Points), 7,
		})
	}
	return mustJSON(payload{
		Resource:   client.EndpointPlayerGameLog,
		ResultSets: []resultSet{{Name: "PlayerGameLog", Headers: gameLogHeaders, RowSet: rows}},
	})
}

// seasonID renders "2023-24" as the provider's regular season id "22023".
func seasonID(label string) string {
	if len(label) < 4 {
		return ""
	}
	return "2" + label[:4]
}

func orNull(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Call is one request seen by the fake provider.
type Call struct {
	Endpoint string
	Params   url.Values
}

// Provider is a scriptable stand-in for the stats client.
type Provider struct {
	mu sync.Mutex

	Roster []RosterEntry
	Games  map[int][]GameLine

	// CatalogErr fails every roster request.
	CatalogErr error
	// PlayerErr fails every game log request for a player.
	PlayerErr map[int]error
	// FailTimes fails the first n game log requests for a player with a transient error.
	FailTimes map[int]int

	calls []Call
}

// NewProvider creates a provider serving the given roster with no games.
func NewProvider(roster ...RosterEntry) *Provider {
	return &Provider{
		Roster:    roster,
		Games:     make(map[int][]GameLine),
		PlayerErr: make(map[int]error),
		FailTimes: make(map[int]int),
	}
}

// Fetch implements the client surface the ingestion layer uses.
func (p *Provider) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Endpoint: endpoint, Params: params})

	switch endpoint {
	case client.EndpointCommonAllPlayers:
		if p.CatalogErr != nil {
			return nil, p.CatalogErr
		}
		return RosterPayload(p.Roster...), nil

	case client.EndpointPlayerGameLog:
		id, err := strconv.Atoi(params.Get("PlayerID"))
		if err != nil {
			return nil, &client.PermanentError{Endpoint: endpoint, StatusCode: 400, Err: err}
		}
		if err := p.PlayerErr[id]; err != nil {
			return nil, err
		}
		if p.FailTimes[id] > 0 {
			p.FailTimes[id]--
			return nil, Transient(endpoint)
		}

		season := params.Get("Season")
		var lines []GameLine
		for _, g := range p.Games[id] {
			if g.Season == season {
				lines = append(lines, g)
			}
		}
		return GameLogPayload(id, lines...), nil
	}

	return nil, &client.PermanentError{Endpoint: endpoint, StatusCode: 404, Err: errors.New("unknown endpoint")}
}

// Calls returns the requests seen so far.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// CallsTo counts requests to one endpoint.
func (p *Provider) CallsTo(endpoint string) int {
	n := 0
	for _, c := range p.Calls() {
		if c.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// Transient builds a 503 provider error.
func Transient(endpoint string) error {
	return &client.TransientError{Endpoint: endpoint, StatusCode: 503, Err: errors.New("service unavailable")}
}

// Permanent builds a 400 provider error.
func Permanent(endpoint string) error {
	return &client.PermanentError{Endpoint: endpoint, StatusCode: 400, Err: errors.New("bad request")}
}
