package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Job is one refresh run. It receives a context bounded by the job timeout.
type Job func(ctx context.Context) error

// Scheduler runs a job once at startup and then on a fixed interval.
// Overlapping runs are skipped.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	interval  time.Duration
	timeout   time.Duration
	logger    zerolog.Logger
}

// New creates a new Scheduler. Intervals under a minute are rounded up to one
// minute.
func New(interval, timeout time.Duration, job Job) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		job:       job,
		interval:  interval,
		timeout:   timeout,
		logger:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the job and starts the underlying scheduler. Cancelling
// ctx cancels a run in progress; call Stop to prevent further runs.
func (s *Scheduler) Start(ctx context.Context) error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling refresh job: %w", err)
	}

	s.logger.Info().Int("intervalMinutes", minutes).Msg("Starting refresh scheduler")
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	s.logger.Debug().Msg("Running refresh job")
	if err := s.job(runCtx); err != nil {
		s.logger.Error().Err(err).Dur("elapsed", time.Since(started)).Msg("Refresh job failed")
		return
	}
	s.logger.Debug().Dur("elapsed", time.Since(started)).Msg("Completed refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
