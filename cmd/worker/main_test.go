package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
)

type fakeSource struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (f *fakeSource) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.msgs) == 0 {
		f.cancel()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeSource) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

type fakeSink struct {
	failures int
	pushed   []string
}

func (s *fakeSink) PushEventJSON(_ context.Context, raw []byte) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("loki unavailable")
	}
	s.pushed = append(s.pushed, string(raw))
	return nil
}

func TestConsume_CommitsAfterPush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &fakeSource{
		msgs:   []kafka.Message{{Offset: 1, Value: []byte(`{"a":1}`)}, {Offset: 2, Value: []byte(`{"a":2}`)}},
		cancel: cancel,
	}
	sink := &fakeSink{}
	consume(ctx, src, sink)

	if len(sink.pushed) != 2 || sink.pushed[1] != `{"a":2}` {
		t.Errorf("pushed = %v", sink.pushed)
	}
	if len(src.committed) != 2 || src.committed[0] != 1 || src.committed[1] != 2 {
		t.Errorf("committed = %v, want [1 2]", src.committed)
	}
}

func TestConsume_StopsWhileRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{msgs: []kafka.Message{{Offset: 7, Value: []byte(`{}`)}}, cancel: cancel}
	sink := &fakeSink{failures: 1}
	cancel()
	consume(ctx, src, sink)
	if len(src.committed) != 0 {
		t.Errorf("committed = %v, want none after a failed push", src.committed)
	}
}
