// Package mission is mission control: it turns hazard alerts from the queue
// into durable Alert rows and fans them out to live subscribers.
package mission

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/messaging"
	"github.com/neosentinel/neo-sentinel/pkg/metrics"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

// GroupID is the commander's consumer group on the alert queue.
const GroupID = "mission-control"

// Commander consumes alert-queue messages, persists each as an Alert, then
// invalidates the alert cache and publishes to the broadcast hub. Persistence
// is the durability boundary: cache and broadcast failures never roll it back.
type Commander struct {
	store  AlertStore
	cache  AlertCache
	hub    *Hub
	logger *zap.Logger
}

// NewCommander wires the commander to its collaborators.
func NewCommander(store AlertStore, cache AlertCache, hub *Hub, logger *zap.Logger) *Commander {
	return &Commander{
		store:  store,
		cache:  cache,
		hub:    hub,
		logger: logger,
	}
}

// Handle processes one alert-queue message. A store failure is returned so
// the broker redelivers the message; duplicate rows under redelivery are
// acceptable.
func (c *Commander) Handle(ctx context.Context, msg *messaging.ReceivedMessage) error {
	c.logger.Info("Received alert message", zap.ByteString("payload", msg.Value))

	alert := c.buildAlert(msg.Value)

	if err := c.store.Insert(ctx, alert); err != nil {
		return fmt.Errorf("failed to persist alert: %w", err)
	}
	metrics.AlertsPersisted.Inc()
	c.logger.Info("Alert persisted", zap.Uint("id", alert.ID))

	// Side effects are best-effort; the row is already durable.
	if err := c.cache.Invalidate(ctx); err != nil {
		c.logger.Warn("Failed to invalidate alert cache", zap.Error(err))
	}
	c.hub.Publish(*alert)

	return nil
}

// buildAlert decodes payload as a HazardAlert, falling back to a legacy
// plain-text alert when the payload is not a well-formed hazard alert.
func (c *Commander) buildAlert(payload []byte) *models.Alert {
	var hazard models.HazardAlert
	if err := json.Unmarshal(payload, &hazard); err != nil || hazard.Message == "" {
		metrics.DecodeFailures.WithLabelValues("commander").Inc()
		c.logger.Warn("Payload is not a hazard alert, saving as plain message")
		return &models.Alert{
			Message:   string(payload),
			Timestamp: time.Now().UTC(),
		}
	}

	return &models.Alert{
		Message:     hazard.Message,
		Timestamp:   time.Now().UTC(),
		Name:        &hazard.Name,
		DistanceKm:  &hazard.DistanceKm,
		VelocityKmS: &hazard.VelocityKmS,
		DiameterM:   &hazard.DiameterM,
	}
}
