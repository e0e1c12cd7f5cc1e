package events

import "time"

// Kind identifies an event type, namespaced by the concern that emits it
// (see the package documentation for the full enumeration).
type Kind string

// Event is the contract every session event satisfies. Events are value
// types; the timestamp is fixed at construction.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation time shared by all events. Embed it
// and construct through NewBase.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

// Timestamp is the event's creation time, not its delivery time.
func (b Base) Timestamp() time.Time {
	return b.timestamp
}
