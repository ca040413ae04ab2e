package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReadingsPublished counts telemetry readings published to the ingest topic
var ReadingsPublished = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sentinel_readings_published_total",
		Help: "Total number of telemetry readings published to the ingest topic",
	},
)

// ReadingsEvaluated counts readings evaluated by the hazard evaluator, by outcome
var ReadingsEvaluated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_readings_evaluated_total",
		Help: "Total number of telemetry readings evaluated against the hazard threshold",
	},
	[]string{"outcome"}, // hazard, safe
)

// DecodeFailures counts payloads dropped or degraded because they failed to decode
var DecodeFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sentinel_decode_failures_total",
		Help: "Total number of broker payloads that failed to decode",
	},
	[]string{"stage"}, // evaluator, commander
)

// AlertsPersisted counts alerts written to the store
var AlertsPersisted = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "sentinel_alerts_persisted_total",
		Help: "Total number of alerts persisted to the store",
	},
)

// StreamSubscribers tracks live broadcast hub subscribers
var StreamSubscribers = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "sentinel_stream_subscribers",
		Help: "Current number of broadcast hub subscribers",
	},
)

func init() {
	prometheus.MustRegister(ReadingsPublished, ReadingsEvaluated, DecodeFailures)
	prometheus.MustRegister(AlertsPersisted, StreamSubscribers)
}
