// Package ensemble runs N independent agents over one shared read-only
// arena, one goroutine per agent. Agents never interact; each gets its own
// Simulator and a deterministic seed derived from the base seed, so the
// whole ensemble replays exactly for a given configuration.
package ensemble

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wanderlab/brownian/internal/core/arena"
	"github.com/wanderlab/brownian/internal/core/sim"
	"github.com/wanderlab/brownian/internal/stats"
)

// Result is one agent's run summary.
type Result struct {
	Agent   int           `json:"agent"`
	Seed    uint64        `json:"seed"`
	Summary stats.Summary `json:"summary"`
}

// Run simulates `agents` independent walks of cfg.MaxSteps each and returns
// their summaries in agent order. cfg.MaxSteps must be set; an unbounded
// ensemble never finishes.
func Run(ctx context.Context, a *arena.Arena, cfg sim.Config, agents int, baseSeed uint64) ([]Result, error) {
	if agents < 1 {
		return nil, fmt.Errorf("%w: agent count must be >= 1, got %d", sim.ErrInvalidConfig, agents)
	}
	if cfg.MaxSteps == 0 {
		return nil, fmt.Errorf("%w: ensemble runs require a max step count", sim.ErrInvalidConfig)
	}

	results := make([]Result, agents)
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < agents; i++ {
		g.Go(func() error {
			seed := DeriveSeed(baseSeed, i)
			s, err := sim.New(a, cfg, rand.New(rand.NewPCG(baseSeed, seed)))
			if err != nil {
				return fmt.Errorf("agent %d: %w", i, err)
			}

			acc := stats.NewAccumulator(0, 0)
			for snap := range s.Snapshots() {
				acc.Observe(snap)
				if snap.Step%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
			}
			results[i] = Result{Agent: i, Seed: seed, Summary: acc.Summary()}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DeriveSeed maps (base seed, agent index) to a stable per-agent seed.
// Hashing keeps neighboring indices decorrelated instead of handing agent k
// the stream baseSeed+k.
func DeriveSeed(base uint64, agent int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], base)
	binary.LittleEndian.PutUint64(buf[8:], uint64(agent))
	return xxhash.Sum64(buf[:])
}
