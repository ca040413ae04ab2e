// Package telemetry synthesizes near-Earth-object readings and feeds them to
// the ingest topic.
package telemetry

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/messaging"
	"github.com/neosentinel/neo-sentinel/pkg/metrics"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// Generator periodically publishes one synthetic telemetry reading to the
// ingest topic. A failed publish is logged and dropped; ticks are never
// queued or caught up.
type Generator struct {
	producer   messaging.Producer
	logger     *zap.Logger
	interval   time.Duration
	objectName string
	rng        *rand.Rand
}

// NewGenerator creates a generator publishing every interval under objectName.
func NewGenerator(producer messaging.Producer, logger *zap.Logger, interval time.Duration, objectName string) *Generator {
	return &Generator{
		producer:   producer,
		logger:     logger,
		interval:   interval,
		objectName: objectName,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks until ctx is cancelled. Blocking; callers run it in a goroutine.
func (g *Generator) Run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.logger.Info("Telemetry generator started",
		zap.Duration("interval", g.interval),
		zap.String("object", g.objectName))

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("Telemetry generator stopped")
			return
		case <-ticker.C:
			g.Tick(ctx)
		}
	}
}

// Tick synthesizes and publishes a single reading.
func (g *Generator) Tick(ctx context.Context) {
	reading := g.nextReading()

	if err := g.producer.Publish(ctx, messaging.TopicTelemetry, reading.ID, reading); err != nil {
		g.logger.Error("Failed to publish telemetry reading",
			zap.Error(err),
			zap.String("id", reading.ID))
		return
	}

	metrics.ReadingsPublished.Inc()
	g.logger.Info("Published telemetry reading",
		zap.String("id", reading.ID),
		zap.String("name", reading.Name),
		zap.Float64("distance_km", reading.DistanceKm))
}

func (g *Generator) nextReading() models.TelemetryReading {
	return models.TelemetryReading{
		ID:          uuid.New().String(),
		Name:        g.objectName,
		DistanceKm:  g.rng.Float64() * 100000,
		VelocityKmS: g.rng.Float64() * 20,
		DiameterM:   g.rng.Float64()*500 + 10,
	}
}
