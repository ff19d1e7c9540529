package ratelimit

import "context"

type ctxKey struct{}

// NewContext attaches the turn budget to ctx. The fetch client picks it up so
// every category fetch of the turn shares one counter.
func NewContext(ctx context.Context, b *Budget) context.Context {
	return context.WithValue(ctx, ctxKey{}, b)
}

// FromContext returns the turn budget, or nil when the call is not part of a
// budgeted turn (catalog warm-up, quote stream refresh).
func FromContext(ctx context.Context) *Budget {
	b, _ := ctx.Value(ctxKey{}).(*Budget)
	return b
}
