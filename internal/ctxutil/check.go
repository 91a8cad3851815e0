// Package ctxutil holds the small context helpers shared by the engine,
// the stores, and the provider clients.
package ctxutil

import (
	"context"
	"time"
)

// Canceled returns the context error once ctx is done, nil otherwise.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// WithTimeout bounds ctx by d. A non-positive d leaves ctx unbounded and
// returns a no-op cancel, so callers can always defer the cancel func.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
