package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	t.Parallel()

	l := NewLocalLocker(time.Second)
	var inside int32
	var maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), ClubKey("club-1"))
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most 1 holder, saw %d", maxInside)
	}
	if len(l.entries) != 0 {
		t.Fatalf("expected entries to be cleaned up, got %d", len(l.entries))
	}
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	l := NewLocalLocker(time.Second)
	releaseA, err := l.Acquire(context.Background(), ClubKey("a"))
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	releaseB, err := l.Acquire(ctx, ClubKey("b"))
	if err != nil {
		t.Fatalf("acquire b: %v", err)
	}
	releaseB()
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	t.Parallel()

	l := NewLocalLocker(time.Second)
	release, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx, "k"); err != ErrNotAcquired {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}

	release()
	release() // second call is a no-op

	again, err := l.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	again()
}

func TestLocalLocker_WaitBudgetExhausted(t *testing.T) {
	t.Parallel()

	l := NewLocalLocker(30 * time.Millisecond)
	release, err := l.Acquire(context.Background(), ClubKey("club-1"))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	start := time.Now()
	if _, err := l.Acquire(context.Background(), ClubKey("club-1")); err != ErrNotAcquired {
		t.Fatalf("expected ErrNotAcquired, got %v", err)
	}
	if waited := time.Since(start); waited > time.Second {
		t.Fatalf("waited %v, budget is 30ms", waited)
	}
}
