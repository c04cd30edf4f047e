// Package jobs runs periodic maintenance in the background.
package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/service"
)

const DefaultInterval = 5 * time.Minute

// Sweeper is the periodic task.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (service.SweepResult, error)
}

// Locker guarantees a single runner across instances. TryLock returns
// ok=false when another instance holds the lease.
type Locker interface {
	TryLock(ctx context.Context) (token string, ok bool, err error)
	Unlock(ctx context.Context, token string) error
}

// Scheduler runs a Sweeper on a fixed interval. Runs never overlap within
// one process; with a Locker they never overlap across processes either.
type Scheduler struct {
	sweeper  Sweeper
	locker   Locker
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
	observe  func(res service.SweepResult, outcome string)
}

// Run outcomes passed to the observer.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// NewScheduler creates a Scheduler. locker may be nil when a single instance
// runs. If interval <= 0, DefaultInterval is used.
func NewScheduler(sweeper Sweeper, locker Locker, interval time.Duration, log zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		sweeper:  sweeper,
		locker:   locker,
		interval: interval,
		log:      log,
		now:      time.Now,
		observe:  func(service.SweepResult, string) {},
	}
}

// OnRun registers fn to be called after every RunOnce with the result and
// one of the Outcome constants.
func (s *Scheduler) OnRun(fn func(res service.SweepResult, outcome string)) {
	s.observe = fn
}

// Start launches the loop. It stops when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("sweep scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("sweep scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep, skipping it when another instance holds
// the lock. Errors are logged; the next tick retries.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx)
		if err != nil {
			s.log.Error().Err(err).Msg("sweep lock unavailable")
			s.observe(service.SweepResult{}, OutcomeError)
			return false
		}
		if !ok {
			s.log.Debug().Msg("sweep already running elsewhere")
			s.observe(service.SweepResult{}, OutcomeSkipped)
			return false
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), token); err != nil {
				s.log.Warn().Err(err).Msg("sweep lock release failed")
			}
		}()
	}

	res, err := s.sweeper.Sweep(ctx, s.now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("sweep failed")
		s.observe(res, OutcomeError)
		return false
	}
	s.observe(res, OutcomeOK)
	return true
}
