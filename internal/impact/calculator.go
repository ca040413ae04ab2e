// Package impact estimates the impact energy of a telemetry reading from its
// diameter and velocity.
package impact

import (
	"fmt"
)

const (
	// rockDensityKgM3 assumes a spherical stony asteroid.
	rockDensityKgM3 = 3000.0

	// kilotonJoules is the TNT equivalent of one kiloton.
	kilotonJoules = 4.184e12

	// catastrophicKilotons is the threshold above which an impact is
	// classified as catastrophic.
	catastrophicKilotons = 1000.0

	// defaultDiameterM stands in when a request carries no diameter.
	defaultDiameterM = 10.0
)

// Request carries the telemetry fields of the object to assess. Identity
// fields are echoed back untouched.
type Request struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DistanceKm  float64 `json:"distanceKm"`
	VelocityKmS float64 `json:"velocityKmS"`
	DiameterM   float64 `json:"diameterM"`
}

// Result is the impact assessment.
type Result struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DistanceKm   float64 `json:"distanceKm"`
	AsteroidSize string  `json:"asteroid_size"`
	ImpactEnergy string  `json:"impact_energy"`
	Status       string  `json:"status"`
}

// KineticKilotons returns the kinetic energy of a spherical stony object in
// kilotons of TNT. Mass comes from the diameter at rock density; energy is
// the classical 1/2 m v^2.
func KineticKilotons(velocityKmS, diameterM float64) float64 {
	radius := diameterM / 2
	volume := (4.0 / 3.0) * 3.14159 * radius * radius * radius
	massKg := volume * rockDensityKgM3

	velocityMS := velocityKmS * 1000
	joules := 0.5 * massKg * velocityMS * velocityMS

	return joules / kilotonJoules
}

// Calculate assesses a request. A missing diameter falls back to a 10 m
// object; a missing velocity yields zero energy.
func Calculate(req Request) Result {
	diameter := req.DiameterM
	if diameter == 0 {
		diameter = defaultDiameterM
	}

	kilotons := KineticKilotons(req.VelocityKmS, diameter)

	status := "MANAGEABLE"
	if kilotons > catastrophicKilotons {
		status = "CATASTROPHIC"
	}

	return Result{
		ID:           req.ID,
		Name:         req.Name,
		DistanceKm:   req.DistanceKm,
		AsteroidSize: fmt.Sprintf("%g meters", diameter),
		ImpactEnergy: fmt.Sprintf("%.2f Kilotons of TNT", kilotons),
		Status:       status,
	}
}
