package auth

import (
	"context"

	"autorent/internal/db"
)

// Caller is the authenticated identity attached to every request. The
// services trust it as-is; verifying the token is the middleware's job.
type Caller struct {
	ID    string
	Email string
	Role  string
}

func (c Caller) IsAdmin() bool {
	return c.Role == db.RoleAdmin
}

func (c Caller) IsCustomer() bool {
	return c.Role == db.RoleCustomer
}

type contextKey struct{}

// WithCaller returns a context carrying the caller identity.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, caller)
}

// CallerFromContext returns the caller stored by the auth middleware.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(contextKey{}).(Caller)
	return caller, ok
}
