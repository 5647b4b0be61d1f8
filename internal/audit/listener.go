package audit

import (
	"context"

	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

type entryLogger interface {
	LogEntry(ctx context.Context, entry Entry)
}

// StoreListener forwards every store event to the audit manager.
func StoreListener(m entryLogger) store.Listener {
	return store.ListenerFunc(func(e store.Event) {
		m.LogEntry(context.Background(), entryFromEvent(e))
	})
}
