// Package arena defines the bounded square region an agent moves in and
// answers containment and boundary-crossing queries. An Arena is immutable
// after construction and safe for concurrent read-only sharing between
// independent simulators.
package arena

import (
	"fmt"
	"math"
)

// Vec2 is a plain 2D vector, used for wall normals.
type Vec2 struct {
	X float64
	Y float64
}

// Arena is a square centered at the origin with side 2*halfWidth.
type Arena struct {
	halfWidth float64
}

// New creates an arena with the given half-width.
// Fails with ErrInvalidConfig when halfWidth is not a positive finite number.
func New(halfWidth float64) (*Arena, error) {
	if math.IsNaN(halfWidth) || math.IsInf(halfWidth, 0) || halfWidth <= 0 {
		return nil, fmt.Errorf("%w: arena half-width must be > 0, got %v", ErrInvalidConfig, halfWidth)
	}
	return &Arena{halfWidth: halfWidth}, nil
}

// HalfWidth returns the arena half-width W. Valid positions satisfy
// |x| <= W and |y| <= W.
func (a *Arena) HalfWidth() float64 {
	return a.halfWidth
}

// Contains reports whether (x, y) lies inside the arena, boundary included.
func (a *Arena) Contains(x, y float64) bool {
	return math.Abs(x) <= a.halfWidth && math.Abs(y) <= a.halfWidth
}

// ClampAndReflect resolves a proposed position against the boundary. When the
// position is inside the arena it is returned unchanged with collided=false.
// When it crosses the boundary, each axis is clamped independently to
// [-W, W] and the unit inward normal of the crossed wall is returned so the
// caller can re-head the agent. A corner crossing clamps both axes and is a
// single collision; its normal is the normalized sum of the two wall normals.
func (a *Arena) ClampAndReflect(x, y float64) (cx, cy float64, normal Vec2, collided bool) {
	cx, cy = x, y
	w := a.halfWidth

	if x > w {
		cx, normal.X = w, -1
	} else if x < -w {
		cx, normal.X = -w, 1
	}
	if y > w {
		cy, normal.Y = w, -1
	} else if y < -w {
		cy, normal.Y = -w, 1
	}

	collided = normal.X != 0 || normal.Y != 0
	if normal.X != 0 && normal.Y != 0 {
		inv := 1 / math.Sqrt2
		normal.X *= inv
		normal.Y *= inv
	}
	return cx, cy, normal, collided
}
