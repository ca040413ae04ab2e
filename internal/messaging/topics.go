package messaging

// Topic identifies a named broker channel.
type Topic string

const (
	// TopicTelemetry carries raw telemetry readings, keyed by reading id.
	TopicTelemetry Topic = "asteroid.stream"

	// TopicHazardAlerts carries hazard alerts from the evaluator to mission
	// control. Consumed by a single group, so it behaves as a work queue.
	TopicHazardAlerts Topic = "hazard.alerts"
)
