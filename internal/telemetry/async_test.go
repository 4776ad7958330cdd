package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"transfer-gate/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	done    chan struct{}
}

func newMockEmitter(buffer int) *mockEventEmitter {
	return &mockEventEmitter{done: make(chan struct{}, buffer)}
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func (m *mockEventEmitter) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d emits", i, n)
		}
	}
}

func testEvent() *domain.Event {
	return domain.NewEvent(domain.EventTransferAuthorized, "test", time.Now())
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Should not panic
	EmitAsync(nil, context.Background(), testEvent())
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := newMockEmitter(1)
	EmitAsync(emitter, context.Background(), nil)
	select {
	case <-emitter.done:
		t.Fatal("nil event should not be emitted")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := newMockEmitter(1)
	event := testEvent()
	event.Account = "a1"
	EmitAsync(emitter, context.Background(), event)
	emitter.wait(t, 1)

	events := emitter.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Account != "a1" || events[0].EventType != domain.EventTransferAuthorized {
		t.Errorf("event = %+v", events[0])
	}
}

func TestEmitAsync_CanceledRequestContext(t *testing.T) {
	emitter := newMockEmitter(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	EmitAsync(emitter, ctx, testEvent())
	emitter.wait(t, 1)
}

func TestEmitAsync_ErrorIsSwallowed(t *testing.T) {
	emitter := newMockEmitter(1)
	emitter.emitErr = errors.New("broker down")
	EmitAsync(emitter, context.Background(), testEvent())
	emitter.wait(t, 1)
}

func TestEmitAsync_ConcurrentAccess(t *testing.T) {
	emitter := newMockEmitter(10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(emitter, context.Background(), testEvent())
		}()
	}
	wg.Wait()
	emitter.wait(t, 10)
	if got := len(emitter.getEvents()); got != 10 {
		t.Errorf("expected 10 events, got %d", got)
	}
}

type blockingEmitter struct {
	release chan struct{}
}

func (b blockingEmitter) Emit(ctx context.Context, _ *domain.Event) error {
	<-b.release
	return nil
}

func TestDrain(t *testing.T) {
	b := blockingEmitter{release: make(chan struct{})}
	EmitAsync(b, context.Background(), testEvent())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := Drain(ctx); err != context.DeadlineExceeded {
		t.Fatalf("Drain with a pending emit = %v, want DeadlineExceeded", err)
	}

	close(b.release)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if err := Drain(ctx2); err != nil {
		t.Errorf("Drain after release = %v", err)
	}
}

func TestMulti(t *testing.T) {
	ok := newMockEmitter(1)
	failing := newMockEmitter(1)
	failing.emitErr = errors.New("boom")
	m := Multi(ok, nil, failing)
	if err := m.Emit(context.Background(), testEvent()); err == nil || err.Error() != "boom" {
		t.Errorf("Multi.Emit = %v, want boom", err)
	}
	if len(ok.getEvents()) != 1 || len(failing.getEvents()) != 1 {
		t.Error("every emitter should receive the event")
	}
	if err := Multi().Emit(context.Background(), testEvent()); err != nil {
		t.Errorf("empty Multi.Emit = %v", err)
	}
}
