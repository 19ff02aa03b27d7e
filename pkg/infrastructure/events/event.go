package events

import (
	"time"
)

// Event is one recorded step of a planning run
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// Handler receives events of the types it was subscribed to. A returned error
// is logged by the store and never fails the append.
type Handler func(event Event) error

// EventStore records planning events per stream (one stream per plan)
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	// Subscribe registers handler for eventTypes and returns a function that
	// removes the subscription again
	Subscribe(eventTypes []string, handler Handler) (unsubscribe func())
}

type record struct {
	eventType string
	stream    string
	data      any
	at        time.Time
	version   int
}

func (r record) Type() string         { return r.eventType }
func (r record) StreamID() string     { return r.stream }
func (r record) Data() any            { return r.data }
func (r record) Timestamp() time.Time { return r.at }
func (r record) Version() int         { return r.version }

// NewEvent creates an unversioned event; the store assigns the version on append
func NewEvent(eventType, streamID string, data any) Event {
	return record{
		eventType: eventType,
		stream:    streamID,
		data:      data,
		at:        time.Now(),
	}
}
