package metrics

import (
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

type countSource interface {
	Counts() (pending, unread int)
}

// StoreListener keeps the counters and gauges in step with store events.
// The gauges start from the counts src holds when the listener is built.
func StoreListener(src countSource) store.Listener {
	setGauges(src)
	return store.ListenerFunc(func(e store.Event) {
		switch e.Kind {
		case store.EventRequestSubmitted:
			RequestsSubmittedTotal.Inc()
		case store.EventRequestAccepted:
			RequestsAcceptedTotal.Inc()
		case store.EventMessageSent:
			MessagesSentTotal.Inc()
		case store.EventSessionStarted:
			LoginsTotal.WithLabelValues("success").Inc()
		}

		setGauges(src)
	})
}

func setGauges(src countSource) {
	pending, unread := src.Counts()
	PendingRequests.Set(float64(pending))
	UnreadMessages.Set(float64(unread))
}
