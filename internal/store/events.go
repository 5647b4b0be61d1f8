package store

import "time"

type EventKind string

const (
	EventSessionStarted   EventKind = "session.started"
	EventSessionEnded     EventKind = "session.ended"
	EventRequestSubmitted EventKind = "request.submitted"
	EventRequestAccepted  EventKind = "request.accepted"
	EventMessageSent      EventKind = "message.sent"
	EventMessageRead      EventKind = "message.read"
)

const (
	EntityAccount = "account"
	EntityRequest = "transport_request"
	EntityMessage = "message"
)

// Event describes one applied mutation. No-ops never produce events.
type Event struct {
	Kind       EventKind `json:"kind"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	At         time.Time `json:"at"`
}

type Listener interface {
	OnEvent(Event)
}

type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Subscribe registers l for every event emitted after the call.
func (s *Store) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) emit(events ...Event) {
	s.listenersMu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, e := range events {
		for _, l := range listeners {
			l.OnEvent(e)
		}
	}
}
