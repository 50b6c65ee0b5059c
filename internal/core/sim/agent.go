package sim

// AgentState is the mutable state of the single simulated agent. It is owned
// exclusively by one Simulator and mutated only by Step.
type AgentState struct {
	X          float64
	Y          float64
	Heading    float64 // radians, normalized to [0, 2π)
	Speed      float64 // base distance per step
	Collisions uint64
}

// StepSnapshot is an immutable record of the agent after one simulated step.
// Ownership transfers to the caller; the Simulator keeps no reference to it.
type StepSnapshot struct {
	Step       uint64  `json:"step"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Heading    float64 `json:"heading"`
	Speed      float64 `json:"speed"` // speed actually used this step
	Collisions uint64  `json:"collisions"`
	Collided   bool    `json:"collided"`
}
