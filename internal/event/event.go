package event

import (
	"context"
	"time"
)

// Name identifies an event kind. The set of names is closed: each concrete
// event type declares exactly one, and dispatch keys on it without any
// reflection.
type Name string

// Event is an immutable record that something happened in the domain,
// carrying a snapshot of the state relevant to it.
type Event interface {
	EventName() Name
	OccurredAt() time.Time
}

// Handler reacts to a single event delivery. Implementations must treat the
// event as read-only; returning an error reports the failure to the
// dispatcher but does not stop delivery to other handlers.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}
