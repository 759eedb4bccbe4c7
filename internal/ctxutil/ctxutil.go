package ctxutil

import (
	"context"
	"time"
)

// private keys to avoid collisions
type key int

const (
	keyCourseID key = iota
)

// WithCourseID tags the context with the course being worked on.
func WithCourseID(ctx context.Context, courseID int64) context.Context {
	return context.WithValue(ctx, keyCourseID, courseID)
}

func CourseID(ctx context.Context) (int64, bool) {
	v := ctx.Value(keyCourseID)
	if v == nil {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// DefaultAPITimeout bounds a single remote-store call.
var DefaultAPITimeout = 10 * time.Second

// WithTimeout wraps context.WithTimeout, degrading to WithCancel for d<=0.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithAPITimeout applies the standard remote-call timeout, keeping the
// parent's deadline when it is already tighter.
func WithAPITimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		remain := time.Until(dl)
		if remain < DefaultAPITimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultAPITimeout)
}
