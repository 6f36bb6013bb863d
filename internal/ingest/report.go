package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the lifecycle stage of one ingestion run.
type State string

const (
	StateNotStarted          State = "not_started"
	StateLoadingCatalog      State = "loading_catalog"
	StateIngestingPlayers    State = "ingesting_players"
	StateCompleted           State = "completed"
	StateCompletedWithErrors State = "completed_with_errors"
)

var stateOrder = map[State]int{
	StateNotStarted:          0,
	StateLoadingCatalog:      1,
	StateIngestingPlayers:    2,
	StateCompleted:           3,
	StateCompletedWithErrors: 3,
}

// Terminal reports whether the run finished.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCompletedWithErrors
}

// PlayerFailure records a skipped player with enough context for a targeted re-run.
type PlayerFailure struct {
	PlayerID int    `json:"player_id"`
	FullName string `json:"full_name"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// Report is the running and final summary of one ingestion run.
type Report struct {
	RunID      string    `json:"run_id"`
	State      State     `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`

	PlayersTotal     int `json:"players_total"`
	PlayersProcessed int `json:"players_processed"` // attempted, including failures
	PlayersFailed    int `json:"players_failed"`
	PlayersCreated   int `json:"players_created"`
	HistorySkipped   int `json:"history_skipped"` // upserted only, no game log fetch
	StatsWritten     int `json:"stats_written"`
	StatsExisting    int `json:"stats_existing"`

	Failures []PlayerFailure `json:"failures"`
}

func newReport() *Report {
	return &Report{RunID: uuid.NewString(), State: StateNotStarted}
}

// advance moves the report forward; backward moves are ignored.
func (r *Report) advance(s State) {
	if stateOrder[s] > stateOrder[r.State] {
		r.State = s
	}
}

func (r *Report) recordFailure(f PlayerFailure) {
	r.PlayersFailed++
	r.Failures = append(r.Failures, f)
}

func (r *Report) finish(at time.Time) {
	r.FinishedAt = at
	if r.PlayersFailed > 0 {
		r.advance(StateCompletedWithErrors)
	} else {
		r.advance(StateCompleted)
	}
}

// Duration is the wall time from start to finish, or zero if the run never started.
func (r *Report) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedPlayerIDs lists the players to re-run, in failure order.
func (r *Report) FailedPlayerIDs() []int {
	ids := make([]int, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.PlayerID)
	}
	return ids
}

// Progress is the operator-facing "N/M players processed" line.
func (r *Report) Progress() string {
	return fmt.Sprintf("%d/%d players processed", r.PlayersProcessed, r.PlayersTotal)
}

func (r *Report) logProgress() {
	log.Info().
		Str("run_id", r.RunID).
		Int("processed", r.PlayersProcessed).
		Int("total", r.PlayersTotal).
		Int("failed", r.PlayersFailed).
		Int("stats_written", r.StatsWritten).
		Msg(r.Progress())
}

// Log emits the final summary and one line per failed player.
func (r *Report) Log() {
	level := zerolog.InfoLevel
	if r.State != StateCompleted {
		level = zerolog.WarnLevel
	}
	log.WithLevel(level).
		Str("run_id", r.RunID).
		Str("state", string(r.State)).
		Int("players_total", r.PlayersTotal).
		Int("players_processed", r.PlayersProcessed).
		Int("players_failed", r.PlayersFailed).
		Int("players_created", r.PlayersCreated).
		Int("history_skipped", r.HistorySkipped).
		Int("stats_written", r.StatsWritten).
		Int("stats_existing", r.StatsExisting).
		Dur("duration", r.Duration()).
		Msg("Ingestion run summary")

	for _, f := range r.Failures {
		log.Warn().
			Str("run_id", r.RunID).
			Int("player_id", f.PlayerID).
			Str("player", f.FullName).
			Str("kind", f.Kind).
			Str("error", f.Message).
			Msg("Player failed")
	}
}
