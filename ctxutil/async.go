package ctxutil

import (
	"context"
	"time"
)

// DefaultDetachTimeout bounds work started with Detach when no timeout is given.
const DefaultDetachTimeout = 5 * time.Second

// Detach returns a context that keeps the values of parent, such as the
// trace id and tenant, but is not cancelled with it. Work on it stops after
// timeout instead.
func Detach(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		timeout = DefaultDetachTimeout
	}
	return context.WithTimeout(context.WithoutCancel(parent), timeout)
}
