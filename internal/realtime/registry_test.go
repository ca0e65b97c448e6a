package realtime

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeWriter struct {
	mu       sync.Mutex
	events   []Event
	closed   bool
	failNext bool
}

func (w *fakeWriter) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failNext {
		return errors.New("write failed")
	}
	w.events = append(w.events, v.(Event))
	return nil
}

func (w *fakeWriter) SetWriteDeadline(t time.Time) error { return nil }

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) received() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Event(nil), w.events...)
}

func TestPushDeliversToRegisteredConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	w := &fakeWriter{}
	r.Register(7, w)

	if err := r.Push(7, Event{Event: "notification", Data: "hello"}); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	events := w.received()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Event != "notification" {
		t.Errorf("expected event type %q, got %q", "notification", events[0].Event)
	}
}

func TestPushToAbsentUserIsNoOp(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	if err := r.Push(42, Event{Event: "notification"}); err != nil {
		t.Fatalf("Push to absent user should be a silent no-op, got %v", err)
	}
}

func TestPushReportsWriteFailure(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	w := &fakeWriter{failNext: true}
	r.Register(7, w)

	if err := r.Push(7, Event{Event: "notification"}); err == nil {
		t.Fatal("expected write failure to surface")
	}
}

func TestRegisterReplacesExistingConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	old := &fakeWriter{}
	replacement := &fakeWriter{}
	r.Register(7, old)
	r.Register(7, replacement)

	if err := r.Push(7, Event{Event: "notification"}); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	if len(old.received()) != 0 {
		t.Error("replaced connection should stop receiving pushes")
	}
	if len(replacement.received()) != 1 {
		t.Errorf("expected replacement to receive 1 event, got %d", len(replacement.received()))
	}
	if old.closed {
		t.Error("replaced connection must not be closed by the registry")
	}
}

func TestUnregisterIgnoresStaleConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	stale := r.Register(7, &fakeWriter{})
	current := &fakeWriter{}
	r.Register(7, current)

	// A delayed close from the replaced connection must not clobber the
	// newer registration.
	r.Unregister(7, stale)

	if !r.Connected(7) {
		t.Fatal("stale unregister removed the current connection")
	}
	if err := r.Push(7, Event{Event: "notification"}); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if len(current.received()) != 1 {
		t.Errorf("expected current connection to receive 1 event, got %d", len(current.received()))
	}
}

func TestUnregisterRemovesCurrentConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := r.Register(7, &fakeWriter{})

	r.Unregister(7, c)

	if r.Connected(7) {
		t.Fatal("expected user to be disconnected")
	}
}

func TestUnregisterAllDropsAnyRegistration(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Register(7, &fakeWriter{})
	r.Register(7, &fakeWriter{})

	r.UnregisterAll(7)

	if r.Connected(7) {
		t.Fatal("expected user to be disconnected")
	}
}

func TestCloseClosesAllConnections(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	w1 := &fakeWriter{}
	w2 := &fakeWriter{}
	r.Register(1, w1)
	r.Register(2, w2)

	r.Close()

	if !w1.closed || !w2.closed {
		t.Error("expected all connections to be closed")
	}
	if r.Connected(1) || r.Connected(2) {
		t.Error("expected registry to be empty after Close")
	}
}
