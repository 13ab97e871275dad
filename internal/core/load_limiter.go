package core

// load_limiter.go bounds how many uploaded files are parsed at once.
//
// Each load holds a slot while its CSV is parsed. When every
// slot is taken a new load waits up to maxWait and then fails with
// ErrTooManyLoads. Shutdown uses WaitForDrain to let running loads finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyLoads is returned when no load slot frees up in time.
var ErrTooManyLoads = errors.New("too many concurrent uploads")

// LoadLimiter is a counting semaphore for file loads.
type LoadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewLoadLimiter allows at most maxConcurrent loads, each waiting at most
// maxWait for a slot. Non-positive arguments fall back to 1 slot and 10s.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}
	return &LoadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must call Release once it is done.
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyLoads
	}
}

// Release frees a slot taken by Acquire.
func (l *LoadLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of loads holding a slot.
func (l *LoadLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// WaitForDrain blocks until no load holds a slot or ctx is done.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
