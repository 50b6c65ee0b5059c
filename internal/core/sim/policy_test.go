package sim

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlab/brownian/internal/core/arena"
)

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.Equal(t, "uniform", p.Name())

	p, err = PolicyByName("inward")
	require.NoError(t, err)
	assert.Equal(t, "inward", p.Name())

	p, err = PolicyByName("specular")
	require.NoError(t, err)
	assert.Equal(t, "specular", p.Name())

	_, err = PolicyByName("billiards")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUniformPolicyRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	p := UniformPolicy{}
	for i := 0; i < 1000; i++ {
		h := p.NewHeading(0, arena.Vec2{X: -1}, rng)
		require.GreaterOrEqual(t, h, 0.0)
		require.Less(t, h, 2*math.Pi)
	}
}

func TestInwardBiasedPointsAwayFromWall(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	p := InwardBiasedPolicy{}

	// Right wall: inward normal is -x, so the new direction must have a
	// non-positive x component.
	normal := arena.Vec2{X: -1}
	for i := 0; i < 1000; i++ {
		h := p.NewHeading(0.3, normal, rng)
		require.LessOrEqual(t, math.Cos(h), 1e-9, "draw %d points back into the wall", i)
	}
}

func TestSpecularReflection(t *testing.T) {
	p := SpecularPolicy{}

	// Head-on into the right wall bounces straight back.
	h := p.NewHeading(0, arena.Vec2{X: -1}, nil)
	assert.InDelta(t, math.Pi, math.Abs(h), 1e-9)

	// 45° into the top wall flips the vertical component.
	h = p.NewHeading(math.Pi/4, arena.Vec2{Y: -1}, nil)
	assert.InDelta(t, -math.Pi/4, h, 1e-9)

	// Corner reverses the direction entirely.
	inv := 1 / math.Sqrt2
	h = p.NewHeading(math.Pi/4, arena.Vec2{X: -inv, Y: -inv}, nil)
	dx, dy := math.Cos(h), math.Sin(h)
	assert.InDelta(t, -inv, dx, 1e-9)
	assert.InDelta(t, -inv, dy, 1e-9)
}

func TestNormalizeHeading(t *testing.T) {
	assert.InDelta(t, 0.0, normalizeHeading(2*math.Pi), 1e-12)
	assert.InDelta(t, math.Pi, normalizeHeading(-math.Pi), 1e-12)
	assert.InDelta(t, 1.0, normalizeHeading(1+4*math.Pi), 1e-9)
}
