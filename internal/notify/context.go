package notify

import (
	"context"
	"errors"
)

// ErrNotInitialized is returned when no registry is attached to a context.
var ErrNotInitialized = errors.New("notification registry not attached to context")

type ctxKey struct{}

// WithRegistry returns a copy of ctx carrying r.
func WithRegistry(ctx context.Context, r *Registry) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext returns the registry attached by WithRegistry.
func FromContext(ctx context.Context) (*Registry, error) {
	r, ok := ctx.Value(ctxKey{}).(*Registry)
	if !ok || r == nil {
		return nil, ErrNotInitialized
	}
	return r, nil
}

// MustFromContext is FromContext for code paths where a missing registry is
// a programming error. It panics with ErrNotInitialized.
func MustFromContext(ctx context.Context) *Registry {
	r, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return r
}
