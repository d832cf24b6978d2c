// Package sessions expires idle conversations on a cron schedule.
package sessions

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m3rciful/giftbot/app/metrics"
	"github.com/m3rciful/giftbot/core/logger"
)

// Expirer drops sessions untouched since cutoff.
type Expirer interface {
	Expire(cutoff time.Time) []int64
	Len() int
}

// Options configures a Sweeper.
type Options struct {
	Sessions Expirer
	// Lock serializes sweeps with update handling.
	Lock     sync.Locker
	TTL      time.Duration
	Schedule string
	Now      func() time.Time
}

// Sweeper runs Sweep on a cron schedule.
type Sweeper struct {
	sessions Expirer
	lock     sync.Locker
	ttl      time.Duration
	schedule string
	now      func() time.Time
	cron     *cron.Cron
}

// New validates opts and registers the sweep job. The schedule accepts
// standard cron specs and descriptors such as "@every 10m".
func New(opts Options) (*Sweeper, error) {
	if opts.Sessions == nil {
		return nil, fmt.Errorf("sessions: nil session store")
	}
	if opts.TTL <= 0 {
		return nil, fmt.Errorf("sessions: ttl must be > 0")
	}
	lock := opts.Lock
	if lock == nil {
		lock = &sync.Mutex{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Sweeper{
		sessions: opts.Sessions,
		lock:     lock,
		ttl:      opts.TTL,
		schedule: opts.Schedule,
		now:      now,
		cron:     cron.New(),
	}
	if _, err := s.cron.AddFunc(opts.Schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return nil, fmt.Errorf("sessions: invalid schedule %q: %w", opts.Schedule, err)
	}
	return s, nil
}

// Start launches the scheduler in its own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
	logger.Info(context.Background(), logger.ComponentSessions, "sweeper.start",
		slog.String("status", "ok"),
		slog.String("schedule", s.schedule),
		slog.Duration("ttl", s.ttl),
	)
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Sweep expires sessions idle for longer than the TTL and returns their user IDs.
func (s *Sweeper) Sweep(ctx context.Context) []int64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	expired := s.sessions.Expire(s.now().Add(-s.ttl))
	active := s.sessions.Len()
	metrics.RecordSessionsExpired(len(expired))
	metrics.SetActiveSessions(active)
	if len(expired) > 0 {
		logger.Info(ctx, logger.ComponentSessions, "sessions.expire",
			slog.String("status", "ok"),
			slog.Int("count", len(expired)),
			slog.Int("active", active),
		)
	}
	return expired
}
