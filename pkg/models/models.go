package models

import (
	"time"
)

// TelemetryReading is a single synthetic observation of a near-Earth object.
// Readings are immutable once produced and travel over the ingest topic as JSON.
type TelemetryReading struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	DistanceKm  float64 `json:"distanceKm" validate:"gte=0"`
	VelocityKmS float64 `json:"velocityKmS" validate:"gte=0"`
	DiameterM   float64 `json:"diameterM" validate:"gte=0"`
}

// HazardAlert is the wire payload emitted by the hazard evaluator for readings
// that cross the collision-risk threshold. It is never persisted directly; the
// mission commander converts it into an Alert row.
type HazardAlert struct {
	Message     string  `json:"message"`
	Name        string  `json:"name"`
	DistanceKm  float64 `json:"distanceKm"`
	VelocityKmS float64 `json:"velocityKmS"`
	DiameterM   float64 `json:"diameterM"`
}

// Alert is a persisted hazard alert. The store assigns the ID on insert and
// rows are append-only. The telemetry fields are nullable: a legacy plain-text
// alert carries only Message and Timestamp.
type Alert struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null"`
	Name        *string   `json:"name,omitempty"`
	DistanceKm  *float64  `json:"distanceKm,omitempty"`
	VelocityKmS *float64  `json:"velocityKmS,omitempty"`
	DiameterM   *float64  `json:"diameterM,omitempty"`
}

// TableName keeps the table name aligned with the original schema.
func (Alert) TableName() string {
	return "alerts"
}
