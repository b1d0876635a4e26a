package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelOutcome = "outcome"
)

// Insight request outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeNoData   = "no_data"
)

// Mirror results.
const (
	MirrorSent    = "sent"
	MirrorFailed  = "failed"
	MirrorDropped = "dropped"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsmart_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status.",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsmart_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

var (
	EventsTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsmart_events_tracked_total",
			Help: "Interaction events appended to the session log, by type.",
		},
		[]string{LabelType},
	)

	EventLogClears = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsmart_event_log_clears_total",
			Help: "Number of times the session event log was cleared.",
		},
	)

	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsmart_insight_requests_total",
			Help: "Insight analyses by outcome.",
		},
		[]string{LabelOutcome},
	)

	// InsightsDiscarded counts analyses whose log was cleared before they returned.
	// Those requests are also counted once in InsightRequests.
	InsightsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shopsmart_insight_discarded_total",
			Help: "Insight analyses dropped because the event log was cleared while they ran.",
		},
	)

	EventsMirrored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsmart_events_mirrored_total",
			Help: "Events handed to the external event sink, by result.",
		},
		[]string{LabelOutcome},
	)

	InsightDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "shopsmart_insight_duration_seconds",
			Help:    "Latency of the external AI analysis call.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)
)
