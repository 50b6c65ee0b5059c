package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wanderlab/brownian/internal/core/sim"
)

func TestAccumulatorPathLength(t *testing.T) {
	acc := NewAccumulator(0, 0)
	acc.Observe(sim.StepSnapshot{Step: 1, X: 3, Y: 4, Speed: 5})
	acc.Observe(sim.StepSnapshot{Step: 2, X: 3, Y: 0, Speed: 4, Collisions: 1, Collided: true})

	sum := acc.Summary()
	assert.EqualValues(t, 2, sum.Steps)
	assert.InDelta(t, 9.0, sum.TotalPath, 1e-12, "5 for the first leg, 4 for the second")
	assert.InDelta(t, 4.5, sum.MeanSpeed, 1e-12)
	assert.EqualValues(t, 1, sum.Collisions)
	assert.Equal(t, 3.0, sum.FinalX)
	assert.Equal(t, 0.0, sum.FinalY)
}

func TestAccumulatorEmpty(t *testing.T) {
	sum := NewAccumulator(1, 2).Summary()
	assert.EqualValues(t, 0, sum.Steps)
	assert.Equal(t, 0.0, sum.TotalPath)
	assert.Equal(t, 0.0, sum.MeanSpeed)
}

func TestAccumulatorStationaryAgent(t *testing.T) {
	acc := NewAccumulator(0, 0)
	for i := uint64(1); i <= 10; i++ {
		acc.Observe(sim.StepSnapshot{Step: i, X: 0, Y: 0, Speed: 0})
	}
	sum := acc.Summary()
	assert.Equal(t, 0.0, sum.TotalPath)
	assert.Equal(t, 0.0, sum.MeanSpeed)
	assert.False(t, math.Signbit(sum.TotalPath))
}
