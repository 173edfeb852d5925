package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Conversations
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	// Messages
	MessagesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "messages_created_total",
			Help:      "Total messages persisted",
		},
		[]string{"role"},
	)

	// Queue dispatch failures
	DispatchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "dispatch_failures_total",
			Help:      "Failed queue publishes after persistence",
		},
		[]string{"queue"},
	)

	// Daily limit guard
	LimitCheckFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "limit_check_failures_total",
			Help:      "Usage service limit checks that failed open",
		},
	)

	LimitRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "modai",
			Subsystem: "message_api",
			Name:      "limit_rejections_total",
			Help:      "Messages rejected for exceeding the daily limit",
		},
	)
)

// RecordRequest records an HTTP request with its duration
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordMessageCreated records a persisted message by role
func RecordMessageCreated(role string) {
	MessagesCreatedTotal.WithLabelValues(role).Inc()
}

// RecordDispatchFailure records a queue publish failure
func RecordDispatchFailure(queue string) {
	DispatchFailuresTotal.WithLabelValues(queue).Inc()
}
