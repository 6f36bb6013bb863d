package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/models"

	"github.com/rs/zerolog/log"
)

// Catalog loads the player roster from the commonallplayers endpoint.
type Catalog struct {
	fetcher    Fetcher
	retry      RetryPolicy
	activeOnly bool
	now        func() time.Time
}

// NewCatalog creates a catalog loader. activeOnly limits game history fetches
// to players whose ROSTERSTATUS is active; the roster itself is never filtered.
func NewCatalog(fetcher Fetcher, retry RetryPolicy, activeOnly bool) *Catalog {
	return &Catalog{
		fetcher:    fetcher,
		retry:      retry,
		activeOnly: activeOnly,
		now:        time.Now,
	}
}

// ListPlayers returns the full roster snapshot as of the call. Any failure,
// including a single unreadable row, is a *CatalogLoadError: a partial roster
// is never returned.
func (c *Catalog) ListPlayers(ctx context.Context) ([]models.PlayerInput, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", CurrentSeason(c.now()))
	params.Set("IsOnlyCurrentSeason", "0")

	body, err := c.retry.Fetch(ctx, c.fetcher, client.EndpointCommonAllPlayers, params)
	if err != nil {
		return nil, &CatalogLoadError{Err: err}
	}

	players, err := decodeCatalog(body)
	if err != nil {
		return nil, &CatalogLoadError{Err: err}
	}

	selected := 0
	for _, p := range players {
		if c.FetchesHistory(p) {
			selected++
		}
	}

	log.Info().
		Int("roster", len(players)).
		Int("selected", selected).
		Bool("active_only", c.activeOnly).
		Msg("Loaded player catalog")

	return players, nil
}

// FetchesHistory reports whether the player's game logs should be fetched.
// Every roster player is upserted regardless, so is_active stays current.
func (c *Catalog) FetchesHistory(p models.PlayerInput) bool {
	return !c.activeOnly || p.IsActive
}

func decodeCatalog(body []byte) ([]models.PlayerInput, error) {
	const endpoint = client.EndpointCommonAllPlayers

	rs, err := client.DecodeResultSet(endpoint, body)
	if err != nil {
		return nil, err
	}
	if err := rs.Require(endpoint, "PERSON_ID", "DISPLAY_FIRST_LAST", "ROSTERSTATUS"); err != nil {
		return nil, err
	}

	rows := rs.Rows()
	players := make([]models.PlayerInput, 0, len(rows))
	for i, row := range rows {
		id, ok := row.Int("PERSON_ID")
		if !ok || id <= 0 {
			return nil, &client.DecodeError{
				Endpoint: endpoint,
				Err:      fmt.Errorf("row %d: invalid PERSON_ID %v", i, row.Value("PERSON_ID")),
			}
		}
		players = append(players, models.PlayerInput{
			PlayerID: id,
			FullName: strings.TrimSpace(row.String("DISPLAY_FIRST_LAST")),
			IsActive: rosterActive(row),
		})
	}
	return players, nil
}

// rosterActive reads ROSTERSTATUS, which is 1/0 on current payloads and
// "Active"/"Inactive" on some older ones.
func rosterActive(row client.Row) bool {
	if n, ok := row.Int("ROSTERSTATUS"); ok {
		return n == 1
	}
	return strings.EqualFold(row.String("ROSTERSTATUS"), "active")
}
