package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoadLimiter_AcquireRelease(t *testing.T) {
	l := NewLoadLimiter(2, time.Second)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire #%d error = %v", i+1, err)
		}
	}
	if got := l.Active(); got != 2 {
		t.Errorf("Active() = %d, want 2", got)
	}

	l.Release()
	l.Release()
	if got := l.Active(); got != 0 {
		t.Errorf("Active() after release = %d, want 0", got)
	}
}

func TestLoadLimiter_TimesOutWhenFull(t *testing.T) {
	l := NewLoadLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	start := time.Now()
	err := l.Acquire(ctx)
	if !errors.Is(err, ErrTooManyLoads) {
		t.Fatalf("Acquire() error = %v, want ErrTooManyLoads", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Acquire() returned after %v, expected to wait", elapsed)
	}
}

func TestLoadLimiter_ContextCancelled(t *testing.T) {
	l := NewLoadLimiter(1, time.Minute)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() error = %v, want context.Canceled", err)
	}
}

func TestLoadLimiter_Defaults(t *testing.T) {
	l := NewLoadLimiter(0, 0)
	if cap(l.slots) != 1 || l.maxWait != 10*time.Second {
		t.Errorf("defaults = %d slots, %v wait; want 1, 10s", cap(l.slots), l.maxWait)
	}
}

func TestLoadLimiter_WaitForDrain(t *testing.T) {
	l := NewLoadLimiter(1, time.Second)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain() error = %v", err)
	}

	if err := l.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer l.Release()
	short, cancelShort := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelShort()
	if err := l.WaitForDrain(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain() error = %v, want deadline exceeded", err)
	}
}
