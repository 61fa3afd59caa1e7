package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepableStore is the eviction surface of the session store.
type SweepableStore interface {
	Sweep(olderThan time.Time) int
}

// SessionSweeper evicts quiz sessions idle past the configured TTL.
// Sessions carry no durability guarantee, so eviction only costs the user
// a restart of an abandoned quiz.
type SessionSweeper struct {
	sessions SweepableStore
	logger   *zap.Logger
	ttl      time.Duration
}

func NewSessionSweeper(sessions SweepableStore, logger *zap.Logger, ttl time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		logger:   logger,
		ttl:      ttl,
	}
}

// Start runs the sweeping loop until the context is cancelled. A zero TTL
// disables sweeping entirely.
func (s *SessionSweeper) Start(ctx context.Context) {
	if s.ttl <= 0 {
		s.logger.Info("session sweeper disabled")
		return
	}

	s.logger.Info("session sweeper started", zap.Duration("ttl", s.ttl))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("@every 10m", func() {
		evicted := s.sessions.Sweep(time.Now().Add(-s.ttl))
		if evicted > 0 {
			s.logger.Info("evicted idle quiz sessions", zap.Int("count", evicted))
		}
	})
	if err != nil {
		s.logger.Error("failed to schedule session sweep", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	s.logger.Info("session sweeper stopped")
}
