package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"dealership_crm_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32
	for range 3 {
		bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
			calls.Add(1)
			return nil
		}))
	}
	bus.Subscribe("test.other", HandlerFunc(func(context.Context, Event) error {
		t.Error("unrelated handler invoked")
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	done := make(chan error, 1)
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
		done <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("handler saw cancelled context: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler not invoked")
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	boom := errors.New("boom")
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return boom }))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error { return nil }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

type pongEvent struct {
	BaseEvent
	Seq int
}

func (pongEvent) EventName() string { return "test.pong" }

func TestSubscribeDeliversTypedEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var got []int
	Subscribe(bus, func(_ context.Context, e pongEvent) error {
		got = append(got, e.Seq)
		return nil
	})

	if err := bus.PublishSync(context.Background(), pongEvent{BaseEvent: NewBaseEvent(), Seq: 7}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("unexpected deliveries %v", got)
	}
}

func TestOnIgnoresOtherEventTypes(t *testing.T) {
	called := false
	h := On(func(context.Context, pongEvent) error {
		called = true
		return nil
	})

	if err := h.Handle(context.Background(), pingEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("handler ran for the wrong event type")
	}
}

func TestNewBaseEventHasUniqueID(t *testing.T) {
	a, b := NewBaseEvent(), NewBaseEvent()

	if a.EventID() == "" || a.EventID() == b.EventID() {
		t.Fatalf("expected distinct ids, got %q and %q", a.EventID(), b.EventID())
	}
	if a.OccurredAt().IsZero() {
		t.Fatal("expected a timestamp")
	}
}
