// Package scheduler triggers prediction runs on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-edge/internal/service"
)

// Runner executes one prediction pass.
type Runner interface {
	Run(ctx context.Context) (*service.RunReport, error)
}

// Scheduler fires the prediction pipeline every interval. Runs never overlap:
// if a trigger fires while the previous run is still in flight, the trigger
// is skipped, not queued.
type Scheduler struct {
	cron       *cron.Cron
	runner     Runner
	interval   time.Duration
	runTimeout time.Duration
	logger     *logrus.Logger

	// immediate tracks the first run, which fires outside the cron loop.
	immediate sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// New creates a scheduler around the prediction service. All schedules are
// evaluated in UTC.
func New(runner Runner, interval, runTimeout time.Duration, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		runner:     runner,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     log,
	}
}

// Start registers the interval job and starts the cron loop. The first run
// fires immediately rather than waiting a full interval.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.trigger(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule prediction runs: %w", err)
	}

	s.logger.WithField("interval", s.interval.String()).Info("Starting prediction scheduler")
	s.cron.Start()

	s.immediate.Add(1)
	go func() {
		defer s.immediate.Done()
		s.trigger(ctx)
	}()
	return nil
}

// Stop halts the cron loop and waits for any in-flight run to finish,
// including the immediate first run launched by Start.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.immediate.Wait()
	s.logger.Info("Prediction scheduler stopped")
}

// trigger runs the pipeline once, unless a run is already in flight.
func (s *Scheduler) trigger(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("Previous prediction run still in flight, skipping trigger")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	report, err := s.runner.Run(runCtx)
	if err != nil {
		s.logger.WithError(err).Error("Prediction run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"run_id":       report.RunID,
		"picks_stored": report.PicksStored,
		"failed":       report.Failed,
	}).Debug("Scheduled prediction run finished")
}
