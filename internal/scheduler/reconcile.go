// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/database/relations"
)

// scheduleParser accepts standard five-field cron expressions.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule reports whether schedule is a valid five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := scheduleParser.Parse(schedule)
	return err
}

// Reconciler repairs relation consistency.
type Reconciler interface {
	Reconcile(dryRun bool) (relations.Report, error)
}

// ReconcileScheduler periodically reconciles favourite and read relations,
// picking up edits made to the data files while the server runs.
type ReconcileScheduler struct {
	reconciler Reconciler
	schedule   string
	log        zerolog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewReconcileScheduler creates a scheduler. An empty schedule disables it.
func NewReconcileScheduler(reconciler Reconciler, schedule string, log zerolog.Logger) *ReconcileScheduler {
	return &ReconcileScheduler{
		reconciler: reconciler,
		schedule:   schedule,
		log:        log.With().Str("component", "reconcile_scheduler").Logger(),
		cron:       cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start begins the scheduler. It stops again when ctx is cancelled.
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		s.log.Info().Msg("disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		return fmt.Errorf("failed to schedule reconcile job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	s.log.Info().Str("schedule", s.schedule).Time("next_run", s.cron.Entry(entryID).Next).Msg("started")

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job and stops the scheduler.
func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.log.Info().Msg("stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *ReconcileScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next reconciliation will occur.
func (s *ReconcileScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}

// RunOnce reconciles immediately and logs the outcome.
func (s *ReconcileScheduler) RunOnce() {
	start := time.Now()
	report, err := s.reconciler.Reconcile(false)
	if err != nil {
		s.log.Error().Err(err).Msg("reconcile failed")
		return
	}

	event := s.log.Debug()
	if report.Changed() {
		event = s.log.Warn().
			Interface("favorites", report.Favorites).
			Interface("reads", report.Reads)
	}
	event.Dur("duration", time.Since(start)).Msg("reconcile finished")
}
