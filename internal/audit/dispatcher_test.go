package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) { s.count.Add(1) }

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink { return &gateSink{gate: make(chan struct{})} }

func (s *gateSink) Emit(context.Context, Event) { <-s.gate }

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when disabled")
	}
	d.Emit(context.Background(), Event{Type: TypeLogin})
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("nil dispatcher must report zero counters")
	}
}

func TestEmitStampsIDAndTimestamp(t *testing.T) {
	sink := NewChannelSink(2)
	d := NewDispatcher(Config{Enabled: true, BufferSize: 2}, sink)
	defer d.Close()

	d.Emit(context.Background(), Event{Type: TypeLogout, Success: true})

	select {
	case ev := <-sink.Events():
		if ev.ID == "" {
			t.Fatal("expected generated event id")
		}
		if ev.Timestamp.IsZero() {
			t.Fatal("expected timestamp")
		}
		if ev.Type != TypeLogout {
			t.Fatalf("unexpected type %q", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDropIfFullDoesNotBlock(t *testing.T) {
	sink := newGateSink()
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	d.Emit(context.Background(), Event{Type: "e1"})
	d.Emit(context.Background(), Event{Type: "e2"})

	start := time.Now()
	d.Emit(context.Background(), Event{Type: "e3"})
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("expected non-blocking emit")
	}
	if d.Dropped() == 0 {
		t.Fatal("expected dropped counter to increment")
	}
}

func TestBlockingEmitWaitsForSpace(t *testing.T) {
	sink := newGateSink()
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1}, sink)
	defer func() {
		close(sink.gate)
		d.Close()
	}()

	d.Emit(context.Background(), Event{Type: "e1"})
	d.Emit(context.Background(), Event{Type: "e2"})

	done := make(chan struct{})
	go func() {
		d.Emit(context.Background(), Event{Type: "e3"})
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("expected emit to block while buffer is full")
	case <-time.After(150 * time.Millisecond):
	}

	sink.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected blocked emit to proceed")
	}
}

func TestCloseFlushesAndIsIdempotent(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), Event{Type: TypeSetUser})
	}
	d.Close()
	d.Close()
	d.Emit(context.Background(), Event{Type: "after-close"})

	if got := sink.count.Load(); got != 5 {
		t.Fatalf("expected 5 delivered events, got %d", got)
	}
	if d.Delivered() != 5 {
		t.Fatalf("expected delivered counter 5, got %d", d.Delivered())
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf lockedBuffer
	sink := NewJSONWriterSink(&buf)
	sink.Emit(context.Background(), Event{ID: "x", Type: TypeAccessDenied, Path: "/yukyu-reports", Role: "EMPLOYEE"})

	var got Event
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Path != "/yukyu-reports" || got.Role != "EMPLOYEE" {
		t.Fatalf("unexpected event %+v", got)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		t.Fatal("expected trailing newline")
	}
}

func TestZapSinkLogsFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewZapSink(zap.New(core))
	sink.Emit(context.Background(), Event{ID: "1", Type: TypeLogin, UserID: 9, Username: "alice", Success: true})

	entries := logs.FilterMessage(TypeLogin).All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["username"] != "alice" || fields["user_id"] != "9" {
		t.Fatalf("unexpected fields %v", fields)
	}
}
