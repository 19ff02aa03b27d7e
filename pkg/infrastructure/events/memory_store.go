package events

import (
	"log/slog"
	"sync"
)

type subscription struct {
	id      int
	handler Handler
}

// InMemoryEventStore keeps every stream in memory and delivers events to
// subscribers synchronously, in append order
type InMemoryEventStore struct {
	mutex       sync.RWMutex
	streams     map[string][]Event
	subscribers map[string][]subscription
	nextID      int
	logger      *slog.Logger
}

func NewInMemoryEventStore(logger *slog.Logger) *InMemoryEventStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]subscription),
		logger:      logger,
	}
}

// Verify interface compliance
var _ EventStore = (*InMemoryEventStore)(nil)

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	versioned := record{
		eventType: event.Type(),
		stream:    streamID,
		data:      event.Data(),
		at:        event.Timestamp(),
		version:   len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], versioned)
	handlers := append([]subscription(nil), s.subscribers[versioned.eventType]...)
	s.mutex.Unlock()

	for _, sub := range handlers {
		if err := sub.handler(versioned); err != nil {
			s.logger.Warn("event handler failed",
				slog.String("event_type", versioned.eventType),
				slog.String("stream", streamID),
				slog.Any("error", err))
		}
	}

	return nil
}

func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}, nil
	}

	out := make([]Event, len(events)-fromVersion+1)
	copy(out, events[fromVersion-1:])
	return out, nil
}

func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler Handler) func() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextID++
	id := s.nextID
	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], subscription{id: id, handler: handler})
	}

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		for _, eventType := range eventTypes {
			var kept []subscription
			for _, sub := range s.subscribers[eventType] {
				if sub.id != id {
					kept = append(kept, sub)
				}
			}
			s.subscribers[eventType] = kept
		}
	}
}
