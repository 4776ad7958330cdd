package telemetry

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"transfer-gate/internal/telemetry/domain"
)

// emitTimeout bounds one background emit.
const emitTimeout = 5 * time.Second

const drainPoll = 10 * time.Millisecond

// inflight counts background emits so shutdown can wait for them.
var inflight atomic.Int64

// EmitAsync sends event in the background, detached from ctx cancellation and
// bounded by emitTimeout, so decisions never wait on a broker. Failures are logged.
// A nil emitter or event is a no-op.
func EmitAsync(emitter EventEmitter, ctx context.Context, event *domain.Event) {
	if emitter == nil || event == nil {
		return
	}
	emitCtx := context.WithoutCancel(ctx)
	inflight.Add(1)
	go func() {
		defer inflight.Add(-1)
		emitCtx, cancel := context.WithTimeout(emitCtx, emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			log.Printf("telemetry: async emit of %s failed: %v", event.EventType, err)
		}
	}()
}

// Drain waits for background emits started by EmitAsync, or until ctx is done.
// Call it after the gRPC server stops and before the emitters are closed.
func Drain(ctx context.Context) error {
	for inflight.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPoll):
		}
	}
	return nil
}
