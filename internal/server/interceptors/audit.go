package interceptors

import (
	"context"
	"encoding/json"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/audit"
	"transfer-gate/internal/audit/domain"
	"transfer-gate/internal/platform/rpcerr"
)

type auditMetadata struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// AuditUnary returns a unary server interceptor that records an audit log entry after each RPC.
// skipMethods is the set of full method names to not audit (e.g. HealthCheck, ListAuditLogs).
// Logging is best-effort and never fails the RPC. Calls without an authenticated caller are
// recorded under domain.SystemActor.
func AuditUnary(logger audit.Recorder, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if logger == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		actor := ""
		if c, ok := GetCaller(ctx); ok {
			actor = c.String()
		}
		ar := audit.ParseFullMethod(info.FullMethod)
		code := status.Code(err)
		meta, _ := json.Marshal(auditMetadata{Status: code.String(), Reason: rpcerr.Reason(err)})
		logger.Record(ctx, audit.Event{
			Actor:    actor,
			Action:   ar.Action,
			Resource: ar.Resource,
			Outcome:  outcome(code),
			Metadata: string(meta),
		})
		return resp, err
	}
}

func outcome(code codes.Code) string {
	switch code {
	case codes.OK:
		return domain.OutcomeOK
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.Unimplemented:
		return domain.OutcomeError
	default:
		return domain.OutcomeRejected
	}
}

// ClientIP returns the client IP from gRPC metadata (x-forwarded-for, x-real-ip) or peer, or "unknown".
func ClientIP(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get("x-forwarded-for"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				if i := strings.Index(s, ","); i > 0 {
					s = strings.TrimSpace(s[:i])
				}
				return s
			}
		}
		if vals := md.Get("x-real-ip"); len(vals) > 0 {
			if s := strings.TrimSpace(vals[0]); s != "" {
				return s
			}
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		if host, _, err := net.SplitHostPort(p.Addr.String()); err == nil {
			return host
		}
		return p.Addr.String()
	}
	return "unknown"
}
