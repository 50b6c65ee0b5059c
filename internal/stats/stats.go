// Package stats accumulates movement statistics from a stream of step
// snapshots: total path length, mean step speed, and collision totals.
package stats

import (
	"math"

	"github.com/wanderlab/brownian/internal/core/sim"
)

// Summary is the aggregate of one finished (or in-flight) run.
type Summary struct {
	Steps        uint64  `json:"steps"`
	TotalPath    float64 `json:"total_path"`
	MeanSpeed    float64 `json:"mean_speed"`
	Collisions   uint64  `json:"collisions"`
	FinalX       float64 `json:"final_x"`
	FinalY       float64 `json:"final_y"`
	FinalHeading float64 `json:"final_heading"`
}

// Accumulator folds snapshots into a Summary incrementally, so unbounded
// runs never need to retain their history.
type Accumulator struct {
	prevX, prevY float64
	steps        uint64
	totalPath    float64
	speedSum     float64
	last         sim.StepSnapshot
}

// NewAccumulator starts accumulation from the agent's initial position.
func NewAccumulator(startX, startY float64) *Accumulator {
	return &Accumulator{prevX: startX, prevY: startY}
}

// Observe folds one snapshot. Snapshots must arrive in step order.
func (a *Accumulator) Observe(s sim.StepSnapshot) {
	a.totalPath += math.Hypot(s.X-a.prevX, s.Y-a.prevY)
	a.prevX, a.prevY = s.X, s.Y
	a.speedSum += s.Speed
	a.steps++
	a.last = s
}

// Summary returns the aggregate so far.
func (a *Accumulator) Summary() Summary {
	mean := 0.0
	if a.steps > 0 {
		mean = a.speedSum / float64(a.steps)
	}
	return Summary{
		Steps:        a.steps,
		TotalPath:    a.totalPath,
		MeanSpeed:    mean,
		Collisions:   a.last.Collisions,
		FinalX:       a.last.X,
		FinalY:       a.last.Y,
		FinalHeading: a.last.Heading,
	}
}
