// Package scheduler runs periodic matchup cache refreshes.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher reloads cached matchup data
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StatsReporter is implemented by refreshers that count cache hits and misses
type StatsReporter interface {
	Stats() (hits, misses uint64, ratio float64)
}

// Scheduler manages scheduled cache refresh jobs
type Scheduler struct {
	cron           *cron.Cron
	refresher      Refresher
	logger         *logrus.Entry
	mu             sync.RWMutex
	isRunning      bool
	jobIDs         []cron.EntryID
	refreshTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(refresher Refresher, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:           cron.New(cron.WithLocation(time.UTC)),
		refresher:      refresher,
		logger:         logger.WithField("component", "scheduler"),
		jobIDs:         make([]cron.EntryID, 0),
		refreshTimeout: 30 * time.Second,
	}
}

// ScheduleCacheRefresh schedules a cache refresh with a standard cron expression
func (s *Scheduler) ScheduleCacheRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, s.RunRefresh)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled cache refresh job")

	return nil
}

// RunRefresh performs a single refresh. Failures are logged and the
// previously cached table stays in place.
func (s *Scheduler) RunRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.WithError(err).Warn("Scheduled cache refresh failed")
		return
	}

	entry := s.logger.WithField("duration_ms", time.Since(start).Milliseconds())
	if reporter, ok := s.refresher.(StatsReporter); ok {
		hits, misses, ratio := reporter.Stats()
		entry = entry.WithFields(logrus.Fields{
			"cache_hits":   hits,
			"cache_misses": misses,
			"hit_ratio":    ratio,
		})
	}
	entry.Info("Scheduled cache refresh completed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
