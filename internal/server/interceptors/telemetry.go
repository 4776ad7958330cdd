package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/platform/rpcerr"
	"transfer-gate/internal/telemetry"
	"transfer-gate/internal/telemetry/domain"
)

// TelemetryUnary returns a unary server interceptor that emits an rpc.completed event after each RPC.
// Best-effort: failures are logged and do not fail the RPC. If emitter is nil, the interceptor no-ops.
// skipMethods is the set of full method names to not emit (e.g. HealthCheck).
func TelemetryUnary(emitter telemetry.EventEmitter, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if emitter == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		event := domain.NewEvent(domain.EventRPCCompleted, "grpc_interceptor", start)
		event.Method = info.FullMethod
		event.DurationMs = time.Since(start).Milliseconds()
		if caller, ok := GetCaller(ctx); ok {
			event.Owner = caller.String()
		}
		if err != nil {
			event.Code = rpcerr.Reason(err)
			if event.Code == "" {
				event.Code = status.Code(err).String()
			}
		}
		telemetry.EmitAsync(emitter, ctx, event)
		return resp, err
	}
}
