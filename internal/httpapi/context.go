package httpapi

import (
	"context"
	"time"
)

// joinContexts returns a context that is canceled when either a or b is done,
// bounded by timeout when positive. The returned cancel func must be called to
// release the goroutine when the handler ends.
func joinContexts(a, b context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	if timeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, timeout)
		inner := cancel
		cancel = func() { tcancel(); inner() }
	}
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
