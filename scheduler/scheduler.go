// Package scheduler drives a callback at a fixed wall-clock period.
//
// Ticks run one at a time on a single goroutine. When a tick overruns the
// period the underlying time.Ticker drops the missed fires, so ticks are
// skipped rather than queued and never overlap.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TFMV/driftgraph/logging"
)

// DefaultPeriod is roughly one frame at 60 Hz.
const DefaultPeriod = 16 * time.Millisecond

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// Loop states. A tick may only begin by moving idle to ticking, and Stop
// forces stopped, so no tick begins once Stop has returned.
const (
	stateIdle int32 = iota
	stateTicking
	stateStopped
)

// Scheduler fires fn every period until stopped.
type Scheduler struct {
	period time.Duration
	fn     func(context.Context)
	logger *slog.Logger

	ticks   atomic.Uint64
	skipped atomic.Uint64
	paused  atomic.Bool
	state   atomic.Int32

	mu       sync.Mutex
	started  bool
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a scheduler. A non-positive period selects DefaultPeriod.
func New(period time.Duration, fn func(context.Context), opts ...Option) *Scheduler {
	if period <= 0 {
		period = DefaultPeriod
	}
	s := &Scheduler{
		period: period,
		fn:     fn,
		logger: logging.Discard(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Period returns the tick period.
func (s *Scheduler) Period() time.Duration {
	return s.period
}

// Start launches the tick loop. It returns immediately; calling it again, or
// after Stop, does nothing. Cancelling ctx stops the loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.state.Load() == stateStopped {
		return
	}
	s.started = true

	s.logger.Debug("scheduler started", "period", s.period)
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.state.Store(stateStopped)
			s.logger.Debug("scheduler context done", "ticks", s.ticks.Load())
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if s.paused.Load() {
				s.skipped.Add(1)
				continue
			}
			// Stop may have raced the ticker in this select.
			if !s.state.CompareAndSwap(stateIdle, stateTicking) {
				return
			}
			s.fn(ctx)
			s.ticks.Add(1)
			if !s.state.CompareAndSwap(stateTicking, stateIdle) {
				return
			}
		}
	}
}

// Stop ends the loop. It never blocks, so it is safe from any goroutine,
// including the tick callback. No tick begins after Stop returns; a tick
// already running finishes normally. Use Wait to block until the loop has
// exited. Repeated calls do nothing.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.state.Store(stateStopped)
		close(s.stopCh)

		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if !started {
			close(s.done)
		}
		s.logger.Debug("scheduler stopped", "ticks", s.ticks.Load(), "skipped", s.skipped.Load())
	})
}

// Wait blocks until the loop has exited or ctx is done. Called from the tick
// callback it can only return through ctx, since the loop is still running.
func (s *Scheduler) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause makes the loop skip ticks until Resume.
func (s *Scheduler) Pause() {
	s.paused.Store(true)
}

// Resume undoes Pause.
func (s *Scheduler) Resume() {
	s.paused.Store(false)
}

// Paused reports whether ticks are being skipped.
func (s *Scheduler) Paused() bool {
	return s.paused.Load()
}

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Skipped returns the number of ticks skipped while paused.
func (s *Scheduler) Skipped() uint64 {
	return s.skipped.Load()
}

// Done is closed once the loop has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}
