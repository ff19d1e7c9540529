package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Budget counts upstream calls within one conversation turn. Once the count
// passes the threshold, every further call waits a fixed delay first, which
// smooths bursts under the upstream requests-per-minute ceiling. A Budget is
// created per turn and discarded afterwards; it is safe for the concurrent
// category fetches of a single turn.
type Budget struct {
	mu        sync.Mutex
	calls     int
	threshold int
	delay     time.Duration
}

// NewBudget creates a turn budget.
func NewBudget(threshold int, delay time.Duration) *Budget {
	return &Budget{threshold: threshold, delay: delay}
}

// Wait blocks for the throttle delay when the turn is over budget. It must be
// called before each upstream request.
func (b *Budget) Wait(ctx context.Context) error {
	b.mu.Lock()
	over := b.calls > b.threshold
	b.mu.Unlock()

	if !over || b.delay <= 0 {
		return nil
	}

	t := time.NewTimer(b.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Record counts one successful upstream call.
func (b *Budget) Record() {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
}

// Calls returns the number of calls recorded so far.
func (b *Budget) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}
