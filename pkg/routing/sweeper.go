package routing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper runs periodic health sweeps over a balancer's provider pool
// using cron syntax. Each sweep probes every provider concurrently and
// refreshes its health flag.
type Sweeper struct {
	balancer Balancer
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewSweeper creates a health sweeper for the given balancer.
//
// Common schedules:
//   - "@every 30s"  - Every 30 seconds
//   - "@every 5m"   - Every 5 minutes
//   - "0 * * * *"   - Hourly on the hour
//
// An empty schedule disables the sweeper.
func NewSweeper(balancer Balancer, schedule string) *Sweeper {
	return &Sweeper{
		balancer: balancer,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "routing.sweeper"),
	}
}

// Start begins scheduled sweeping. It returns immediately; sweeps run on
// the cron's own goroutine until ctx is cancelled or Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("health sweep schedule not configured, skipping sweeper")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid health sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("health sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes one health sweep and logs the outcome.
func (s *Sweeper) runSweep(ctx context.Context) {
	s.logger.Debug("starting health sweep")

	results := s.balancer.HealthCheck(ctx)

	healthy := 0
	for _, ok := range results {
		if ok {
			healthy++
		}
	}

	if healthy < len(results) {
		s.logger.Warn("health sweep completed",
			"healthy", healthy,
			"total", len(results),
		)
	} else {
		s.logger.Debug("health sweep completed",
			"healthy", healthy,
			"total", len(results),
		)
	}
}

// Stop stops the sweeper and waits for a running sweep to complete.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("health sweeper stopped")
	}
}

// IsRunning returns true if the sweeper is running.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep time.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
