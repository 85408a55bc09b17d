package settings

import (
	"context"
)

type contextKey string

const (
	settingsContextKey contextKey = "settings"
)

// IntoContext returns a context carrying the run settings for one CLI
// invocation.
func IntoContext(ctx context.Context, s *Run) context.Context {
	return context.WithValue(ctx, settingsContextKey, s)
}

// FromContext returns the run settings stored by IntoContext. ok is false
// when ctx carries none, in which case callers fall back to NewCliParams.
func FromContext(ctx context.Context) (*Run, bool) {
	val := ctx.Value(settingsContextKey)
	s, ok := val.(*Run)
	return s, ok
}
