package rbac

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/address"
	"transfer-gate/internal/server/interceptors"
)

// RequireCaller ensures the call carries an authenticated caller address.
// Returns a gRPC Unauthenticated error otherwise.
func RequireCaller(ctx context.Context) (address.Address, error) {
	caller, ok := interceptors.GetCaller(ctx)
	if !ok || caller.IsZero() {
		return address.Address{}, status.Error(codes.Unauthenticated, "caller context required")
	}
	return caller, nil
}

// RequireRole ensures the caller is holder, the single key allowed to act in a
// role such as settlement authority. A zero holder leaves the role open to any
// authenticated caller.
func RequireRole(ctx context.Context, holder address.Address, role string) (address.Address, error) {
	caller, err := RequireCaller(ctx)
	if err != nil {
		return address.Address{}, err
	}
	if !holder.IsZero() && caller != holder {
		return address.Address{}, status.Errorf(codes.PermissionDenied, "%s required", role)
	}
	return caller, nil
}
