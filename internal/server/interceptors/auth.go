package interceptors

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/address"
	"transfer-gate/internal/security"
)

const bearerPrefix = "bearer "

var (
	errMissingBearer = status.Error(codes.Unauthenticated, "missing bearer token")
	errInvalidBearer = status.Error(codes.Unauthenticated, "invalid bearer token")
)

// AuthUnary authenticates the caller from the "authorization: Bearer <jwt>"
// metadata and stores the caller address in the context. Methods in
// publicMethods run without a caller when the token is absent or invalid.
// The caller is also recorded on the active span as tgate.caller.
func AuthUnary(tokens *security.TokenProvider, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		caller, err := authenticate(ctx, tokens)
		if err != nil {
			if publicMethods[info.FullMethod] {
				return handler(ctx, req)
			}
			return nil, err
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("tgate.caller", caller.String()))
		return handler(WithCaller(ctx, caller), req)
	}
}

func authenticate(ctx context.Context, tokens *security.TokenProvider) (address.Address, error) {
	token := extractBearer(ctx)
	if token == "" {
		return address.Zero, errMissingBearer
	}
	caller, err := tokens.ValidateAccess(token)
	if err != nil {
		return address.Zero, errInvalidBearer
	}
	return caller, nil
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) || !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
