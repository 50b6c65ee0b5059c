package ensemble

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlab/brownian/internal/core/arena"
	"github.com/wanderlab/brownian/internal/core/sim"
)

func testConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.MaxSteps = 500
	return cfg
}

func TestRunValidates(t *testing.T) {
	a, err := arena.New(10)
	require.NoError(t, err)

	_, err = Run(context.Background(), a, testConfig(), 0, 42)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)

	cfg := testConfig()
	cfg.MaxSteps = 0
	_, err = Run(context.Background(), a, cfg, 4, 42)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := arena.New(8)
	require.NoError(t, err)

	first, err := Run(context.Background(), a, testConfig(), 8, 42)
	require.NoError(t, err)
	second, err := Run(context.Background(), a, testConfig(), 8, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same base seed must replay every agent")
	require.Len(t, first, 8)
	for i, r := range first {
		assert.Equal(t, i, r.Agent)
		assert.EqualValues(t, 500, r.Summary.Steps)
		assert.LessOrEqual(t, math.Abs(r.Summary.FinalX), 8.0)
		assert.LessOrEqual(t, math.Abs(r.Summary.FinalY), 8.0)
	}
}

func TestAgentsAreIndependent(t *testing.T) {
	a, err := arena.New(8)
	require.NoError(t, err)

	results, err := Run(context.Background(), a, testConfig(), 4, 42)
	require.NoError(t, err)

	positions := make(map[[2]float64]bool)
	for _, r := range results {
		positions[[2]float64{r.Summary.FinalX, r.Summary.FinalY}] = true
	}
	assert.Greater(t, len(positions), 1, "distinct seeds should produce distinct walks")
}

func TestDeriveSeedIsStableAndSpread(t *testing.T) {
	assert.Equal(t, DeriveSeed(42, 3), DeriveSeed(42, 3))
	assert.NotEqual(t, DeriveSeed(42, 3), DeriveSeed(42, 4))
	assert.NotEqual(t, DeriveSeed(42, 3), DeriveSeed(43, 3))
}

func TestRunHonorsCancellation(t *testing.T) {
	a, err := arena.New(8)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig()
	cfg.MaxSteps = 1 << 20
	_, err = Run(ctx, a, cfg, 2, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
