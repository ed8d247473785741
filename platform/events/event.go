// Package events is the in-process publish/subscribe bus shared by all
// modules. Event payloads live with the domain in internal/events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is anything published on the bus. EventName is the subscription key.
type Event interface {
	EventName() string
	EventID() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by every event to carry its identity and time.
type BaseEvent struct {
	ID        string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps an event with a fresh ID and the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{ID: uuid.NewString(), Timestamp: time.Now()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// On adapts a handler for one concrete event type. Events of any other
// type are ignored, so a handler subscribed under the wrong name is a no-op.
func On[T Event](fn func(ctx context.Context, event T) error) Handler {
	return HandlerFunc(func(ctx context.Context, event Event) error {
		typed, ok := event.(T)
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	})
}

// Subscribe registers fn under the name of T, so callers never spell
// event names by hand.
func Subscribe[T Event](bus Subscriber, fn func(ctx context.Context, event T) error) {
	var zero T
	bus.Subscribe(zero.EventName(), On(fn))
}

// Subscriber is the subscribing half of Bus.
type Subscriber interface {
	Subscribe(eventName string, handler Handler)
}

// Bus publishes events to the handlers subscribed under their name.
type Bus interface {
	Subscriber
	// Publish delivers event to its handlers asynchronously.
	Publish(ctx context.Context, event Event)
	// PublishSync delivers event and waits, returning the first handler error.
	PublishSync(ctx context.Context, event Event) error
}
