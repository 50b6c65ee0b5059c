package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/wanderlab/brownian/internal/core/arena"
)

// HeadingPolicy chooses the agent's new heading after it hits a wall.
// normal is the unit inward normal of the crossed wall (or the averaged
// corner normal). Implementations draw from rng and never from global state.
type HeadingPolicy interface {
	// NewHeading returns the post-collision heading in radians.
	NewHeading(old float64, normal arena.Vec2, rng *rand.Rand) float64

	// Name identifies the policy in configuration and logs.
	Name() string
}

// PolicyByName resolves a configuration string to a heading policy.
func PolicyByName(name string) (HeadingPolicy, error) {
	switch name {
	case "", "uniform":
		return UniformPolicy{}, nil
	case "inward":
		return InwardBiasedPolicy{}, nil
	case "specular":
		return SpecularPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown heading policy %q", ErrInvalidConfig, name)
	}
}

// UniformPolicy redraws the heading uniformly from [0, 2π), independent of
// the wall. This is the default: each collision fully randomizes direction,
// which is what makes the walk Brownian-like rather than billiards-like.
// The clamp keeps the agent inside even when the draw points back at the
// same wall, so repeated immediate re-collisions are harmless.
type UniformPolicy struct{}

func (UniformPolicy) NewHeading(_ float64, _ arena.Vec2, rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

func (UniformPolicy) Name() string { return "uniform" }

// InwardBiasedPolicy draws uniformly from the half-circle centered on the
// inward wall normal, so the agent always leaves the wall it just hit.
type InwardBiasedPolicy struct{}

func (InwardBiasedPolicy) NewHeading(_ float64, normal arena.Vec2, rng *rand.Rand) float64 {
	center := math.Atan2(normal.Y, normal.X)
	return center + (rng.Float64()-0.5)*math.Pi
}

func (InwardBiasedPolicy) Name() string { return "inward" }

// SpecularPolicy mirrors the incoming direction about the wall, like a
// billiard ball. It consumes no random draws.
type SpecularPolicy struct{}

func (SpecularPolicy) NewHeading(old float64, normal arena.Vec2, _ *rand.Rand) float64 {
	dx, dy := math.Cos(old), math.Sin(old)
	dot := dx*normal.X + dy*normal.Y
	rx := dx - 2*dot*normal.X
	ry := dy - 2*dot*normal.Y
	return math.Atan2(ry, rx)
}

func (SpecularPolicy) Name() string { return "specular" }

// normalizeHeading maps any finite angle into [0, 2π).
func normalizeHeading(h float64) float64 {
	h = math.Mod(h, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	return h
}
