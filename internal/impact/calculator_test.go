package impact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neosentinel/neo-sentinel/internal/impact"
)

func TestKineticKilotons(t *testing.T) {
	// 100 m sphere at rock density is ~1.5708e9 kg; at 20 km/s that is
	// ~3.1416e17 J, ~75086 kilotons.
	kt := impact.KineticKilotons(20, 100)
	assert.InDelta(t, 75086, kt, 10)

	// 10 m object at 5 km/s stays in single digits.
	kt = impact.KineticKilotons(5, 10)
	assert.InDelta(t, 4.69, kt, 0.01)

	// Zero velocity carries no energy.
	assert.Zero(t, impact.KineticKilotons(0, 100))
}

func TestCalculateStatusThreshold(t *testing.T) {
	tests := []struct {
		name        string
		velocityKmS float64
		diameterM   float64
		status      string
	}{
		{"small slow object", 5, 10, "MANAGEABLE"},
		{"large fast object", 20, 100, "CATASTROPHIC"},
		{"zero velocity", 0, 500, "MANAGEABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := impact.Calculate(impact.Request{
				VelocityKmS: tt.velocityKmS,
				DiameterM:   tt.diameterM,
			})
			assert.Equal(t, tt.status, result.Status)
		})
	}
}

func TestCalculateEchoesIdentity(t *testing.T) {
	result := impact.Calculate(impact.Request{
		ID:          "t1",
		Name:        "2025-BF",
		DistanceKm:  1000,
		VelocityKmS: 5,
		DiameterM:   50,
	})

	assert.Equal(t, "t1", result.ID)
	assert.Equal(t, "2025-BF", result.Name)
	assert.Equal(t, 1000.0, result.DistanceKm)
	assert.Equal(t, "50 meters", result.AsteroidSize)
	assert.Contains(t, result.ImpactEnergy, "Kilotons of TNT")
}

func TestCalculateMissingDiameterDefaults(t *testing.T) {
	result := impact.Calculate(impact.Request{VelocityKmS: 5})
	assert.Equal(t, "10 meters", result.AsteroidSize)
	assert.Equal(t, "MANAGEABLE", result.Status)
}
