package gating

import (
	"context"
	"log/slog"
	"time"
)

// Ticker is what the scheduler drives. *Engine implements it.
type Ticker interface {
	RunOnce(ctx context.Context)
}

// Lease serializes ticks across replicas. *redis.TickLease implements it.
type Lease interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
	Release(ctx context.Context) error
}

// Scheduler invokes the engine on a fixed interval. Invocations never
// overlap: the next timer is armed only after the previous tick returns.
// With a Lease configured, at most one replica runs a tick at a time; a
// replica that loses the lease skips its tick entirely.
type Scheduler struct {
	engine      Ticker
	interval    time.Duration
	tickTimeout time.Duration
	lease       Lease
	logger      *slog.Logger
}

// NewScheduler builds a scheduler. lease may be nil for single-instance
// deployments.
func NewScheduler(engine Ticker, interval, tickTimeout time.Duration, lease Lease, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		engine:      engine,
		interval:    interval,
		tickTimeout: tickTimeout,
		lease:       lease,
		logger:      logger,
	}
}

// Run ticks until ctx is cancelled. The first tick fires immediately so a
// fresh deployment enforces policies without waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "scheduler started", "interval", s.interval.String())

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			s.tick(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.lease != nil {
		// Lease TTL outlives the tick deadline so a slow tick cannot lose
		// its lease mid-flight.
		held, err := s.lease.Acquire(ctx, s.tickTimeout+time.Minute)
		if err != nil {
			s.logger.WarnContext(ctx, "tick skipped, lease acquisition failed", "error", err)
			return
		}
		if !held {
			s.logger.DebugContext(ctx, "tick skipped, lease held elsewhere")
			return
		}
		defer func() {
			if err := s.lease.Release(ctx); err != nil {
				s.logger.WarnContext(ctx, "lease release failed", "error", err)
			}
		}()
	}

	tickCtx, cancel := context.WithTimeout(ctx, s.tickTimeout)
	defer cancel()
	s.engine.RunOnce(tickCtx)
}
