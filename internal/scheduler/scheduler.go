package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"sharpshooter/ingestion/internal/ingest"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ErrRunInProgress is returned by RunNow while another run is active.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// Runner executes one ingestion run.
type Runner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// Scheduler re-runs ingestion on a cron schedule. Runs never overlap: a tick
// that fires while a run is active is skipped.
type Scheduler struct {
	spec   string
	runner Runner
	cron   *cron.Cron

	runMu sync.Mutex

	mu         sync.Mutex
	lastReport *ingest.Report
	lastErr    error
	lastRunAt  time.Time
}

// NewScheduler creates a new scheduler instance
func NewScheduler(spec string, runner Runner) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		spec:   spec,
		runner: runner,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// Start registers the ingestion job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	if _, err := s.cron.AddFunc(s.spec, func() {
		log.Info().Msg("Running scheduled ingestion...")
		if _, err := s.RunNow(ctx); err != nil {
			log.Error().Err(err).Msg("Scheduled ingestion failed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule ingestion: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.spec).
		Msg("Ingestion scheduled")

	return nil
}

// Stop stops the cron loop and waits for a running job to return
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("Scheduler stopped")
}

// RunNow runs ingestion immediately unless a run is already active.
func (s *Scheduler) RunNow(ctx context.Context) (*ingest.Report, error) {
	if !s.runMu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	report, err := s.runner.Run(ctx)

	s.mu.Lock()
	s.lastReport = report
	s.lastErr = err
	s.lastRunAt = time.Now()
	s.mu.Unlock()

	return report, err
}

// LastRun returns the outcome of the most recent run, if any.
func (s *Scheduler) LastRun() (*ingest.Report, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport, s.lastRunAt, s.lastErr
}

// NextRun is the next scheduled tick, zero before Start.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// cronLogger routes robfig/cron's logging through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
