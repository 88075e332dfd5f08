package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_created_total",
			Help: "Total number of loan applications created",
		},
	)

	ApplicationCreateConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "application_create_conflicts_total",
			Help: "Total number of application creations rejected because the subject already had a pending application",
		},
	)

	DecisionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "decisions_submitted_total",
			Help: "Total number of decisions accepted, by outcome",
		},
		[]string{"outcome"},
	)

	ApprovalEventsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "approval_events_published_total",
			Help: "Total number of approval events delivered to the event sink",
		},
	)

	ApprovalEventsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "approval_events_failed_total",
			Help: "Total number of approval events that failed to publish",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route", "status"},
	)
)
