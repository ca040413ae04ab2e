// Package hazard evaluates telemetry readings against the collision-risk
// threshold and emits alerts for readings that cross it.
package hazard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/messaging"
	"github.com/neosentinel/neo-sentinel/pkg/metrics"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// GroupID is the evaluator's consumer group on the ingest topic.
const GroupID = "hazard-group-v2"

// Evaluator consumes telemetry readings and emits a HazardAlert for every
// reading strictly closer than the distance threshold. Evaluation is
// stateless: redelivered readings produce the same emission again.
type Evaluator struct {
	producer            messaging.Producer
	logger              *zap.Logger
	validate            *validator.Validate
	distanceThresholdKm float64
}

// NewEvaluator creates an evaluator with the given distance threshold in km.
func NewEvaluator(producer messaging.Producer, logger *zap.Logger, distanceThresholdKm float64) *Evaluator {
	return &Evaluator{
		producer:            producer,
		logger:              logger,
		validate:            validator.New(),
		distanceThresholdKm: distanceThresholdKm,
	}
}

// Handle processes one ingest-topic message. Malformed payloads are logged and
// dropped without error so the broker does not redeliver them; a failed alert
// publish is returned as an error and left to broker redelivery.
func (e *Evaluator) Handle(ctx context.Context, msg *messaging.ReceivedMessage) error {
	var reading models.TelemetryReading
	if err := json.Unmarshal(msg.Value, &reading); err != nil {
		metrics.DecodeFailures.WithLabelValues("evaluator").Inc()
		e.logger.Warn("Dropping undecodable telemetry payload",
			zap.Error(err),
			zap.String("key", msg.Key))
		return nil
	}
	if err := e.validate.Struct(&reading); err != nil {
		metrics.DecodeFailures.WithLabelValues("evaluator").Inc()
		e.logger.Warn("Dropping invalid telemetry reading",
			zap.Error(err),
			zap.String("id", reading.ID))
		return nil
	}

	e.logger.Info("Received telemetry reading",
		zap.String("name", reading.Name),
		zap.Int("distance_km", int(reading.DistanceKm)))

	if reading.DistanceKm >= e.distanceThresholdKm {
		metrics.ReadingsEvaluated.WithLabelValues("safe").Inc()
		return nil
	}
	metrics.ReadingsEvaluated.WithLabelValues("hazard").Inc()

	alert := models.HazardAlert{
		Message:     AlertMessage(reading),
		Name:        reading.Name,
		DistanceKm:  reading.DistanceKm,
		VelocityKmS: reading.VelocityKmS,
		DiameterM:   reading.DiameterM,
	}

	e.logger.Warn("Critical hazard detected",
		zap.String("name", reading.Name),
		zap.Float64("distance_km", reading.DistanceKm))

	if err := e.producer.Publish(ctx, messaging.TopicHazardAlerts, reading.ID, alert); err != nil {
		return fmt.Errorf("failed to publish hazard alert: %w", err)
	}
	return nil
}

// AlertMessage formats the collision warning for a hazardous reading.
// Distance and diameter are truncated to whole units.
func AlertMessage(reading models.TelemetryReading) string {
	return fmt.Sprintf("COLLISION WARNING: %s is %dkm away with a diameter of %d meters!",
		reading.Name, int(reading.DistanceKm), int(reading.DiameterM))
}
