package audit

import (
	"time"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

const (
	SourceHTTP  = "http"
	SourceGRPC  = "grpc"
	SourceStore = "store"
)

type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type,omitempty"`
	EntityID   string    `json:"entity_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	Handler    string    `json:"handler,omitempty"`
	Method     string    `json:"method,omitempty"`
	Path       string    `json:"path,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}

// Key is the partition key used when an entry leaves the process.
func (e Entry) Key() string {
	if e.EntityID != "" {
		return e.EntityID
	}
	return e.Action
}

func entryFromEvent(e store.Event) Entry {
	return Entry{
		Timestamp:  e.At,
		Source:     SourceStore,
		Action:     string(e.Kind),
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		OldStatus:  e.OldStatus,
		NewStatus:  e.NewStatus,
	}
}
