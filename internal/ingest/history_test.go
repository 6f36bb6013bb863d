package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"sharpshooter/ingestion/internal/client"
	"sharpshooter/ingestion/internal/models"
	"sharpshooter/ingestion/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(f Fetcher, lookback int) *History {
	h := NewHistory(f, fastRetry, lookback)
	h.now = fixedNow
	return h
}

func collect(t *testing.T, h *History, playerID int) []*models.PlayerStat {
	t.Helper()
	var out []*models.PlayerStat
	err := h.Each(context.Background(), playerID, func(s *models.PlayerStat) error {
		out = append(out, s)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestHistory_EachWalksSeasonsOldestFirst(t *testing.T) {
	provider := testutil.NewProvider()
	provider.Games[2544] = []testutil.GameLine{
		{GameID: "0022400061", Season: "2024-25", GameDate: "OCT 22, 2024", Matchup: "LAL vs. MIN", Minutes: 35, Points: testutil.Int(16)},
		{GameID: "0022300061", Season: "2023-24", GameDate: "OCT 24, 2023", Matchup: "LAL @ DEN", Minutes: "29:04", Points: testutil.Int(21)},
		{GameID: "0022100001", Season: "2021-22", GameDate: "OCT 19, 2021", Matchup: "LAL vs. GSW", Points: testutil.Int(34)},
	}

	stats := collect(t, newTestHistory(provider, 2), 2544)
	require.Len(t, stats, 2, "2021-22 is outside a two season window")

	first := stats[0]
	assert.Equal(t, "0022300061", first.GameID)
	assert.Equal(t, 2544, first.PlayerID)
	assert.Equal(t, "2023-24", first.Season)
	assert.Equal(t, time.Date(2023, 10, 24, 0, 0, 0, 0, time.UTC), first.GameDate)
	assert.False(t, first.IsHomeGame)
	assert.Equal(t, "29:04", first.MinutesPlayed.String)
	assert.Equal(t, int32(21), first.Points.Int32)

	second := stats[1]
	assert.Equal(t, "2024-25", second.Season)
	assert.True(t, second.IsHomeGame)
	assert.Equal(t, "35", second.MinutesPlayed.String)

	calls := provider.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "2023-24", calls[0].Params.Get("Season"))
	assert.Equal(t, "2024-25", calls[1].Params.Get("Season"))
	for _, c := range calls {
		assert.Equal(t, client.EndpointPlayerGameLog, c.Endpoint)
		assert.Equal(t, SeasonTypeRegular, c.Params.Get("SeasonType"))
		assert.Equal(t, "2544", c.Params.Get("PlayerID"))
	}
}

func TestHistory_EachIsRestartable(t *testing.T) {
	provider := testutil.NewProvider()
	provider.Games[7] = []testutil.GameLine{
		{GameID: "G1", Season: "2024-25", GameDate: "NOV 01, 2024", Points: testutil.Int(30)},
	}
	h := newTestHistory(provider, 1)

	first := collect(t, h, 7)
	second := collect(t, h, 7)

	require.Len(t, first, 1)
	assert.Equal(t, first, second)
}

func TestHistory_NullStatsStayNull(t *testing.T) {
	provider := testutil.NewProvider()
	provider.Games[7] = []testutil.GameLine{
		{GameID: "G1", Season: "2024-25", GameDate: "2024-11-01T00:00:00", Minutes: nil},
	}

	stats := collect(t, newTestHistory(provider, 1), 7)
	require.Len(t, stats, 1)
	assert.False(t, stats[0].Points.Valid)
	assert.False(t, stats[0].Assists.Valid)
	assert.False(t, stats[0].MinutesPlayed.Valid)
	assert.True(t, stats[0].FGMade.Valid)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), stats[0].GameDate)
}

func TestHistory_VisitErrorStopsWalk(t *testing.T) {
	provider := testutil.NewProvider()
	provider.Games[7] = []testutil.GameLine{
		{GameID: "G1", Season: "2023-24", GameDate: "OCT 30, 2023"},
		{GameID: "G2", Season: "2024-25", GameDate: "OCT 30, 2024"},
	}
	stop := errors.New("stop")

	visited := 0
	err := newTestHistory(provider, 2).Each(context.Background(), 7, func(*models.PlayerStat) error {
		visited++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, visited)
	assert.Equal(t, 1, provider.CallsTo(client.EndpointPlayerGameLog), "next season is not requested")
}

func TestHistory_TransientRetriedThenSucceeds(t *testing.T) {
	provider := testutil.NewProvider()
	provider.Games[7] = []testutil.GameLine{{GameID: "G1", Season: "2024-25", GameDate: "NOV 01, 2024"}}
	provider.FailTimes[7] = 1

	stats := collect(t, newTestHistory(provider, 1), 7)
	assert.Len(t, stats, 1)
	assert.Equal(t, 2, provider.CallsTo(client.EndpointPlayerGameLog))
}

func TestHistory_PermanentNotRetried(t *testing.T) {
	provider := testutil.NewProvider()
	provider.PlayerErr[7] = testutil.Permanent(client.EndpointPlayerGameLog)

	err := newTestHistory(provider, 3).Each(context.Background(), 7, func(*models.PlayerStat) error { return nil })
	require.Error(t, err)
	assert.True(t, client.IsPermanent(err))
	assert.Equal(t, 1, provider.CallsTo(client.EndpointPlayerGameLog))
}

func TestHistory_BadGameDate(t *testing.T) {
	provider := testutil.NewProvider()
	provider.Games[7] = []testutil.GameLine{{GameID: "G1", Season: "2024-25", GameDate: "yesterday"}}

	err := newTestHistory(provider, 1).Each(context.Background(), 7, func(*models.PlayerStat) error { return nil })
	require.Error(t, err)
	assert.Equal(t, client.KindDecode, client.ErrorKind(err))
}

func TestHistory_MismatchedPlayerIDIsDecodeError(t *testing.T) {
	body := []byte(`{"resultSets":[{"headers":["SEASON_ID","Player_ID","Game_ID","GAME_DATE","MATCHUP"],
		"rowSet":[["22024",201939,"0022400061","OCT 22, 2024","GSW vs. POR"]]}]}`)

	_, err := decodeGameLog(body, 2544, "2024-25")
	require.Error(t, err)
	assert.Equal(t, client.KindDecode, client.ErrorKind(err))
	assert.Contains(t, err.Error(), "201939")
}

func TestHistory_MissingPlayerIDUsesRequested(t *testing.T) {
	body := []byte(`{"resultSets":[{"headers":["Game_ID","GAME_DATE","MATCHUP"],
		"rowSet":[["0022400061","OCT 22, 2024","LAL vs. MIN"]]}]}`)

	stats, err := decodeGameLog(body, 2544, "2024-25")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2544, stats[0].PlayerID)
}
