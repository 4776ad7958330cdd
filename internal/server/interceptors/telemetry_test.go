package interceptors

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"transfer-gate/internal/address"
	"transfer-gate/internal/platform/rpcerr"
	recoverydomain "transfer-gate/internal/recovery/domain"
	"transfer-gate/internal/telemetry/domain"
)

type chanEmitter struct {
	events chan *domain.Event
}

func (c *chanEmitter) Emit(_ context.Context, e *domain.Event) error {
	c.events <- e
	return nil
}

func (c *chanEmitter) next(t *testing.T) *domain.Event {
	t.Helper()
	select {
	case e := <-c.events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no telemetry event emitted")
		return nil
	}
}

func TestTelemetryUnary(t *testing.T) {
	owner := address.Address{0x0a}
	testCases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"ok", nil, ""},
		{"rejection", rpcerr.FromError("recover", recoverydomain.ErrNotEnoughSignatures), "NotEnoughSignatures"},
		{"plain status", status.Error(codes.Unauthenticated, "no"), "Unauthenticated"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			em := &chanEmitter{events: make(chan *domain.Event, 1)}
			interceptor := TelemetryUnary(em, nil)
			_, _ = interceptor(WithCaller(context.Background(), owner), "req", &grpc.UnaryServerInfo{
				FullMethod: "/tgate.v1.RecoveryService/RecoverAccount",
			}, func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, tc.err
			})
			ev := em.next(t)
			if ev.EventType != domain.EventRPCCompleted || ev.Method != "/tgate.v1.RecoveryService/RecoverAccount" {
				t.Errorf("event = %+v", ev)
			}
			if ev.Owner != owner.String() || ev.Code != tc.wantCode {
				t.Errorf("owner/code = %s/%q, want %s/%q", ev.Owner, ev.Code, owner, tc.wantCode)
			}
		})
	}
}

func TestTelemetryUnary_SkipAndNil(t *testing.T) {
	em := &chanEmitter{events: make(chan *domain.Event, 1)}
	info := &grpc.UnaryServerInfo{FullMethod: "/tgate.v1.HealthService/HealthCheck"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }
	if _, err := TelemetryUnary(em, map[string]bool{info.FullMethod: true})(context.Background(), nil, info, handler); err != nil {
		t.Fatal(err)
	}
	if resp, err := TelemetryUnary(nil, nil)(context.Background(), nil, info, handler); err != nil || resp != "ok" {
		t.Fatalf("nil emitter = %v, %v", resp, err)
	}
	select {
	case e := <-em.events:
		t.Errorf("skipped method emitted %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
}
