package interceptors

import (
	"context"

	"transfer-gate/internal/address"
)

type contextKey struct{ name string }

var callerKey = contextKey{"caller"}

// WithCaller returns a context carrying the authenticated caller's address.
// Handlers read it via GetCaller.
func WithCaller(ctx context.Context, caller address.Address) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// GetCaller returns the caller address from context and true if set; otherwise the zero address, false.
func GetCaller(ctx context.Context) (address.Address, bool) {
	v, ok := ctx.Value(callerKey).(address.Address)
	return v, ok
}
