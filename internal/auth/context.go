package auth

import (
	"context"
	"fmt"
)

type contextKey string

const scopeKey contextKey = "scope"

// ContextWithScope returns a new context that carries the resolved
// data-visibility scope. Middleware sets it once per request; it is read-only
// afterwards.
func ContextWithScope(ctx context.Context, scope Scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext retrieves the resolved scope, if any.
func ScopeFromContext(ctx context.Context) (Scope, bool) {
	if ctx == nil {
		return Scope{}, false
	}
	scope, ok := ctx.Value(scopeKey).(Scope)
	if !ok || scope.IsZero() {
		return Scope{}, false
	}
	return scope, true
}

// RequireScope retrieves the resolved scope or fails. An unresolved scope is
// an error, never silent cross-tenant visibility.
func RequireScope(ctx context.Context) (Scope, error) {
	scope, ok := ScopeFromContext(ctx)
	if !ok {
		return Scope{}, fmt.Errorf("no tenant scope resolved for request")
	}
	return scope, nil
}
