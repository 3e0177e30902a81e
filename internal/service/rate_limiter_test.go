package service

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(window time.Duration, max int) (*WindowRateLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	return NewWindowRateLimiterWithClock(window, max, clock.Now), clock
}

func TestWindowRateLimiterRejectsSixthInWindow(t *testing.T) {
	l, _ := newTestLimiter(60*time.Second, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if res := l.Admit(ctx, "user-1"); !res.Allowed {
			t.Fatalf("admission %d should be allowed", i+1)
		}
	}
	res := l.Admit(ctx, "user-1")
	if res.Allowed {
		t.Fatalf("6th admission within the window should be rejected")
	}
	if res.Remaining != 0 {
		t.Fatalf("expected remaining 0 on rejection, got %d", res.Remaining)
	}
}

func TestWindowRateLimiterResetsAfterWindow(t *testing.T) {
	l, clock := newTestLimiter(60*time.Second, 5)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		l.Admit(ctx, "user-1")
	}
	clock.Advance(61 * time.Second)

	res := l.Admit(ctx, "user-1")
	if !res.Allowed {
		t.Fatalf("expected new window after expiry")
	}
	// Ventana nueva: el contador arranca en 1.
	if res.Remaining != 4 {
		t.Fatalf("expected remaining 4 in fresh window, got %d", res.Remaining)
	}
	if want := clock.Now().Add(60 * time.Second); !res.Reset.Equal(want) {
		t.Fatalf("expected reset %v, got %v", want, res.Reset)
	}
}

func TestWindowRateLimiterKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(60*time.Second, 2)
	ctx := context.Background()

	l.Admit(ctx, "user-1")
	l.Admit(ctx, "user-1")
	if res := l.Admit(ctx, "user-1"); res.Allowed {
		t.Fatalf("user-1 should be exhausted")
	}
	if res := l.Admit(ctx, "user-2"); !res.Allowed {
		t.Fatalf("user-2 has its own counter and should be allowed")
	}
}

func TestWindowRateLimiterMetadata(t *testing.T) {
	l, clock := newTestLimiter(15*time.Minute, 10)
	ctx := context.Background()

	res := l.Admit(ctx, "1.2.3.4")
	if res.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", res.Limit)
	}
	if res.Remaining != 9 {
		t.Fatalf("expected remaining 9, got %d", res.Remaining)
	}
	if want := clock.Now().Add(15 * time.Minute); !res.Reset.Equal(want) {
		t.Fatalf("expected reset %v, got %v", want, res.Reset)
	}

	res = l.Admit(ctx, "1.2.3.4")
	if res.Remaining != 8 {
		t.Fatalf("expected remaining to decrement, got %d", res.Remaining)
	}
}

func TestWindowRateLimiterBoundaryNotYetElapsed(t *testing.T) {
	l, clock := newTestLimiter(60*time.Second, 1)
	ctx := context.Background()

	l.Admit(ctx, "k")
	clock.Advance(59 * time.Second)
	if res := l.Admit(ctx, "k"); res.Allowed {
		t.Fatalf("window has not elapsed yet, should reject")
	}
	clock.Advance(1 * time.Second)
	if res := l.Admit(ctx, "k"); !res.Allowed {
		t.Fatalf("window elapsed exactly, should start a new one")
	}
}
