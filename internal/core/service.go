package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/ratings/internal/config"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Service holds the editing sessions and the settings shared by all of
// them. It is the entry point for every operation.
type Service struct {
	cfg  *config.Config
	seed *Store

	// sessions is ordered by last use, oldest first, and guarded by mu.
	mu       sync.Mutex
	sessions *simplelru.LRU[string, *Session]
	now      func() time.Time

	loads *LoadLimiter
}

// NewService creates a service, loading the seed store named by the
// configuration and creating the output directory if requested.
func NewService(cfg *config.Config) (*Service, error) {
	seed, err := loadSeed(cfg.Session)
	if err != nil {
		return nil, err
	}

	if cfg.Output.CreateDir {
		if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	sessions, err := simplelru.NewLRU[string, *Session](cfg.Session.MaxSessions, nil)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}

	return &Service{
		cfg:      cfg,
		seed:     seed,
		sessions: sessions,
		now:      time.Now,
		loads:    NewLoadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWait),
	}, nil
}

func loadSeed(cfg config.SessionConfig) (*Store, error) {
	if cfg.SeedFile != "" {
		return LoadSeedFile(cfg.SeedFile)
	}
	switch strings.ToLower(cfg.Seed) {
	case "none":
		return nil, nil
	default:
		return DefaultSeed(), nil
	}
}

// Loads returns the limiter that bounds concurrent file loads.
func (s *Service) Loads() *LoadLimiter {
	return s.loads
}

// OutputPath returns the path saved files are written to.
func (s *Service) OutputPath() string {
	return s.cfg.Output.Path()
}

// CreateSession starts a new session seeded from the configured seed.
// Idle sessions are dropped first; when the limit is still reached the
// least recently used session is evicted.
func (s *Service) CreateSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	if s.sessions.Len() >= s.cfg.Session.MaxSessions {
		if id, _, ok := s.sessions.RemoveOldest(); ok {
			slog.Info("session evicted", "session_id", id)
		}
	}

	sess := NewSession(uuid.NewString(), s.seed)
	sess.lastSeen = s.now()
	s.sessions.Add(sess.ID, sess)
	slog.Info("session created", "session_id", sess.ID, "items", sess.Store.Len(), "active", s.sessions.Len())
	return sess
}

// Session returns the session with the given ID.
func (s *Service) Session(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// DeleteSession drops a session. Unknown IDs are an error.
func (s *Service) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sessions.Remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	slog.Info("session deleted", "session_id", id, "active", s.sessions.Len())
	return nil
}

// SessionCount returns the number of live sessions.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len()
}

// Execute looks up a session and applies cmd to it under the session lock.
func (s *Service) Execute(ctx context.Context, id string, cmd Command) (Directive, error) {
	sess, err := s.Session(id)
	if err != nil {
		return Directive{}, err
	}

	sess.Lock()
	defer sess.Unlock()

	return s.Handle(ctx, sess, cmd)
}

// WithSession runs fn with the session locked.
func (s *Service) WithSession(id string, fn func(*Session) error) error {
	sess, err := s.Session(id)
	if err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()

	return fn(sess)
}

// pruneLocked drops sessions idle for longer than the configured timeout.
// Every lookup refreshes lastSeen and moves the session to the newest end,
// so the idle sessions are exactly the oldest run of the list.
func (s *Service) pruneLocked() int {
	cutoff := s.now().Add(-s.cfg.Session.IdleTimeout)
	n := 0
	for {
		id, sess, ok := s.sessions.GetOldest()
		if !ok || !sess.lastSeen.Before(cutoff) {
			return n
		}
		s.sessions.Remove(id)
		slog.Debug("session expired", "session_id", id)
		n++
	}
}
