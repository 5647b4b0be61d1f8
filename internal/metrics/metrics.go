package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrimove_requests_submitted_total",
		Help: "Total number of transport requests submitted by producers.",
	})

	RequestsAcceptedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrimove_requests_accepted_total",
		Help: "Total number of transport requests accepted by haulers.",
	})

	MessagesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "agrimove_messages_sent_total",
		Help: "Total number of inbox messages created, including acceptance notices.",
	})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimove_logins_total",
		Help: "Login attempts by outcome.",
	},
		[]string{"outcome"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimove_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	AuditEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimove_audit_entries_total",
		Help: "Audit entries flushed, by sink.",
	},
		[]string{"sink"},
	)

	GRPCRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agrimove_grpc_requests_total",
		Help: "Handled gRPC calls by method and status code.",
	},
		[]string{"method", "code"},
	)

	PendingRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agrimove_pending_requests",
		Help: "Current number of transport requests waiting for a hauler.",
	})

	UnreadMessages = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "agrimove_unread_messages",
		Help: "Current number of unread inbox messages.",
	})
)
