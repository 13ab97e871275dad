package core

// sweeper.go drops idle sessions in the background.
//
// CreateSession already prunes before adding, but a server that stops
// getting new sessions would otherwise hold idle ones forever.

import (
	"context"
	"log/slog"
	"time"
)

// StartSessionSweeper prunes idle sessions every interval until ctx is
// cancelled. It blocks, so run it in its own goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("session sweeper started",
		"interval", interval,
		"idle_timeout", s.cfg.Session.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := s.PruneSessions(); n > 0 {
				slog.Info("idle sessions dropped", "count", n, "active", s.SessionCount())
			}
		}
	}
}

// PruneSessions drops sessions idle for longer than the configured timeout
// and returns how many were dropped.
func (s *Service) PruneSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked()
}
