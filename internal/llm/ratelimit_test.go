package llm

import (
	"context"
	"testing"
	"time"
)

func TestRPSLimiter_NilIsDisabled(t *testing.T) {
	var l *rpsLimiter
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("nil limiter must not block: %v", err)
	}
	l.Stop()

	if got := newRPSLimiter(0, 5); got != nil {
		t.Fatal("rps <= 0 should disable the limiter")
	}
}

func TestRPSLimiter_BurstThenBlock(t *testing.T) {
	l := newRPSLimiter(0.1, 2) // refill far slower than the test runs
	defer l.Stop()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("burst acquire %d: %v", i, err)
		}
	}

	// Bucket drained: the next acquire must respect context cancellation.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRPSLimiter_Refills(t *testing.T) {
	l := newRPSLimiter(100, 1)
	defer l.Stop()

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("refill acquire: %v", err)
	}
}
