package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestBudgetUnderThresholdNoDelay(t *testing.T) {
	b := NewBudget(2, time.Second)
	b.Record()
	b.Record()

	start := time.Now()
	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatalf("expected no throttle below threshold")
	}
}

func TestBudgetOverThresholdDelays(t *testing.T) {
	b := NewBudget(1, 50*time.Millisecond)
	b.Record()
	b.Record()

	start := time.Now()
	if err := b.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Fatalf("expected throttle delay")
	}
	if b.Calls() != 2 {
		t.Fatalf("unexpected call count %d", b.Calls())
	}
}

func TestBudgetWaitRespectsContext(t *testing.T) {
	b := NewBudget(0, time.Minute)
	b.Record()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Wait(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestBudgetContextRoundTrip(t *testing.T) {
	b := NewBudget(1, 0)
	ctx := NewContext(context.Background(), b)
	if got := FromContext(ctx); got != b {
		t.Fatalf("expected budget from context")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatalf("expected nil for bare context")
	}
}
