/*
scheduler.go - Background invite expiry sweep

PURPOSE:
  Periodically removes invitations that have passed their expiry so the
  admin's invite list only shows links that still work.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Sweeps once immediately on Start, then on every tick
  - Acts as leave.System, so the sweep passes the admin check
  - Records the time and outcome of the last sweep for the API

CONFIGURATION:
  - Interval: How often to sweep (invites.sweep_interval, default 1 hour)
  - A zero interval disables the sweeper

USAGE:
  sweeper := NewInviteSweeper(svc, logger)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: PruneInvites endpoint (manual sweep)
  - leave/service.go: Service.PruneInvites
*/
package api

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/leavetrack/leave"
)

// InviteSweeper deletes expired invites on a fixed interval.
type InviteSweeper struct {
	Service  *leave.Service
	Logger   *slog.Logger
	Interval time.Duration

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	lastRun     time.Time
	lastRemoved int
	lastErr     error
}

// SweepStatus describes the most recent sweep.
type SweepStatus struct {
	LastRun time.Time
	Removed int
	Err     error
}

func NewInviteSweeper(svc *leave.Service, logger *slog.Logger) *InviteSweeper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InviteSweeper{
		Service:  svc,
		Logger:   logger,
		Interval: time.Hour,
	}
}

// Start begins sweeping. It is a no-op when Interval is not positive or
// the sweeper is already running.
func (s *InviteSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Interval <= 0 {
		s.Logger.Info("invite sweeper disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.ticker, s.stop)

	s.Logger.Info("invite sweeper started", "interval", s.Interval)
}

// Stop halts the sweeper and waits for an in-flight sweep to finish.
func (s *InviteSweeper) Stop() {
	s.mu.Lock()
	ticker, stop := s.ticker, s.stop
	s.ticker, s.stop = nil, nil
	s.mu.Unlock()

	if ticker == nil {
		return
	}
	ticker.Stop()
	close(stop)
	s.wg.Wait()
	s.Logger.Info("invite sweeper stopped")
}

func (s *InviteSweeper) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	s.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow performs one sweep and records its outcome.
func (s *InviteSweeper) RunNow(ctx context.Context) (int, error) {
	removed, err := s.Service.PruneInvites(ctx, leave.System)
	if err != nil {
		s.Logger.ErrorContext(ctx, "invite sweep failed", "error", err)
	}

	s.mu.Lock()
	s.lastRun = s.Service.Now()
	s.lastRemoved = removed
	s.lastErr = err
	s.mu.Unlock()

	return removed, err
}

// Status returns the outcome of the last sweep; LastRun is zero before
// the first one.
func (s *InviteSweeper) Status() SweepStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SweepStatus{LastRun: s.lastRun, Removed: s.lastRemoved, Err: s.lastErr}
}

// NextRun is when the next scheduled sweep will occur, or zero when the
// sweeper is not running.
func (s *InviteSweeper) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticker == nil || s.lastRun.IsZero() {
		return time.Time{}
	}
	return s.lastRun.Add(s.Interval)
}
