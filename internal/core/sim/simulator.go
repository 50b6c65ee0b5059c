// Package sim owns the agent state and evolves it one time-step at a time:
// straight-line motion at the configured speed, with a pluggable re-heading
// policy applied whenever the arena boundary is crossed.
package sim

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"

	"github.com/wanderlab/brownian/internal/core/arena"
)

// Config holds per-simulator parameters. The zero value is not runnable;
// use DefaultConfig as a base.
type Config struct {
	// InitialSpeed is the base distance covered per step. Must be >= 0.
	InitialSpeed float64

	// InitialHeading is the starting direction in radians. Ignored when
	// RandomHeading is set.
	InitialHeading float64

	// RandomHeading draws the starting direction from the injected rng
	// instead of using InitialHeading.
	RandomHeading bool

	// MaxSteps bounds the snapshot sequence. 0 means unbounded.
	MaxSteps uint64

	// SpeedSigma enables per-step speed jitter: the effective speed is
	// Normal(1, SpeedSigma) * InitialSpeed, clamped to
	// [MinSpeed, 2*InitialSpeed]. 0 disables jitter and the speed is
	// constant, which keeps runs reproducible step-for-step.
	SpeedSigma float64

	// MinSpeed is the jitter floor. Only consulted when SpeedSigma > 0.
	MinSpeed float64

	// Policy picks the new heading on collision. Defaults to UniformPolicy.
	Policy HeadingPolicy
}

// DefaultConfig returns the parameters of a plain constant-speed walk.
func DefaultConfig() Config {
	return Config{
		InitialSpeed:  1,
		RandomHeading: true,
		Policy:        UniformPolicy{},
	}
}

// Simulator advances a single agent inside an immutable arena. It is not
// safe for concurrent use; run one Simulator per goroutine and share only
// the Arena.
type Simulator struct {
	arena  *arena.Arena
	rng    *rand.Rand
	policy HeadingPolicy

	state AgentState
	step  uint64

	maxSteps   uint64
	baseSpeed  float64
	speedSigma float64
	minSpeed   float64
}

// New builds a Simulator for the given arena. The agent starts at the arena
// center. rng is the simulator's only source of randomness; seeding it makes
// the whole run deterministic.
func New(a *arena.Arena, cfg Config, rng *rand.Rand) (*Simulator, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: arena is required", ErrInvalidConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: rng is required", ErrInvalidConfig)
	}
	if cfg.InitialSpeed < 0 || math.IsNaN(cfg.InitialSpeed) || math.IsInf(cfg.InitialSpeed, 0) {
		return nil, fmt.Errorf("%w: initial speed must be >= 0, got %v", ErrInvalidConfig, cfg.InitialSpeed)
	}
	if !cfg.RandomHeading && !isFinite(cfg.InitialHeading) {
		return nil, fmt.Errorf("%w: initial heading must be finite", ErrInvalidConfig)
	}
	if cfg.SpeedSigma < 0 {
		return nil, fmt.Errorf("%w: speed sigma must be >= 0, got %v", ErrInvalidConfig, cfg.SpeedSigma)
	}
	if cfg.MinSpeed < 0 {
		return nil, fmt.Errorf("%w: min speed must be >= 0, got %v", ErrInvalidConfig, cfg.MinSpeed)
	}

	policy := cfg.Policy
	if policy == nil {
		policy = UniformPolicy{}
	}

	heading := cfg.InitialHeading
	if cfg.RandomHeading {
		heading = rng.Float64() * 2 * math.Pi
	}

	return &Simulator{
		arena:  a,
		rng:    rng,
		policy: policy,
		state: AgentState{
			Heading: normalizeHeading(heading),
			Speed:   cfg.InitialSpeed,
		},
		maxSteps:   cfg.MaxSteps,
		baseSpeed:  cfg.InitialSpeed,
		speedSigma: cfg.SpeedSigma,
		minSpeed:   cfg.MinSpeed,
	}, nil
}

// State returns a copy of the current agent state.
func (s *Simulator) State() AgentState {
	return s.state
}

// Policy returns the active heading policy.
func (s *Simulator) Policy() HeadingPolicy {
	return s.policy
}

// Step advances the agent by one time unit and returns the post-step
// snapshot. The proposed position is clamped per axis so the agent never
// leaves the arena; crossing the boundary re-heads the agent via the policy
// and counts as exactly one collision, even at a corner.
func (s *Simulator) Step() StepSnapshot {
	speed := s.stepSpeed()

	px := s.state.X + speed*math.Cos(s.state.Heading)
	py := s.state.Y + speed*math.Sin(s.state.Heading)

	cx, cy, normal, collided := s.arena.ClampAndReflect(px, py)
	if collided {
		h := s.policy.NewHeading(s.state.Heading, normal, s.rng)
		if !isFinite(h) {
			panic(fmt.Sprintf("sim: policy %s produced non-finite heading %v", s.policy.Name(), h))
		}
		s.state.Heading = normalizeHeading(h)
		s.state.Collisions++
	}

	s.state.X, s.state.Y = cx, cy
	s.step++

	return StepSnapshot{
		Step:       s.step,
		X:          cx,
		Y:          cy,
		Heading:    s.state.Heading,
		Speed:      speed,
		Collisions: s.state.Collisions,
		Collided:   collided,
	}
}

// Snapshots returns a lazy sequence of per-step snapshots: finite when
// MaxSteps was configured, otherwise unbounded until the caller stops
// pulling. The sequence is not restartable; build a new Simulator to rerun.
func (s *Simulator) Snapshots() iter.Seq[StepSnapshot] {
	return func(yield func(StepSnapshot) bool) {
		for s.maxSteps == 0 || s.step < s.maxSteps {
			if !yield(s.Step()) {
				return
			}
		}
	}
}

func (s *Simulator) stepSpeed() float64 {
	if s.speedSigma == 0 {
		return s.baseSpeed
	}
	speed := (1 + s.rng.NormFloat64()*s.speedSigma) * s.baseSpeed
	return math.Max(s.minSpeed, math.Min(2*s.baseSpeed, speed))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
