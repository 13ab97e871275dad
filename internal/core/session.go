package core

import (
	"sync"
	"time"
)

// Session is the per-user editing context: the store plus the bookkeeping
// that decides when an uploaded file has to be reconciled again.
//
// Store, NeedsRebuild and Source change together. Reset clears all three at
// once so a new upload never reuses the store built from the previous one.
type Session struct {
	ID string

	// Store is the single source of truth for the session's ratings.
	Store *Store

	// NeedsRebuild is true until the current source has been reconciled
	// into Store.
	NeedsRebuild bool

	// Source identifies the loaded file (its upload name). Empty when no
	// file has been loaded since the last reset.
	Source string

	// Selected is the category the presentation layer is showing.
	Selected string

	CreatedAt time.Time
	UpdatedAt time.Time

	// mu serialises commands from one client.
	mu sync.Mutex

	// lastSeen is guarded by the owning Service's mutex.
	lastSeen time.Time
}

// NewSession returns a session holding a copy of seed. A nil seed starts the
// session empty, waiting for a file.
func NewSession(id string, seed *Store) *Session {
	now := time.Now()
	s := &Session{
		ID:           id,
		Store:        NewStore(),
		NeedsRebuild: true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if seed != nil {
		s.Store = seed.Clone()
		s.NeedsRebuild = false
	}
	s.selectDefault()
	return s
}

// Reset discards the store and forgets the loaded source. Calling it twice
// leaves the same state as calling it once.
func (s *Session) Reset() {
	s.Store = NewStore()
	s.NeedsRebuild = true
	s.Source = ""
	s.Selected = ""
	s.UpdatedAt = time.Now()
}

// Load reconciles t into the store when it comes from a new source or when
// the current source has not been built yet. Loading the same source again
// keeps the edits made since the first load. It reports whether the store
// was rebuilt.
func (s *Session) Load(source string, t *Table, reconcile ReconcileFunc) (bool, error) {
	if s.Source != source {
		s.Reset()
		s.Source = source
	}
	if !s.NeedsRebuild {
		return false, nil
	}

	store, err := reconcile(t)
	if err != nil {
		return false, err
	}
	s.Store = store
	s.NeedsRebuild = false
	s.selectDefault()
	s.UpdatedAt = time.Now()
	return true, nil
}

// Lock serialises access to the session for one command.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the lock taken by Lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// selectDefault points Selected at the first category when the current
// selection no longer exists.
func (s *Session) selectDefault() {
	if s.Selected != "" && s.Store.HasCategory(s.Selected) {
		return
	}
	s.Selected = ""
	if cats := s.Store.Categories(); len(cats) > 0 {
		s.Selected = cats[0]
	}
}
