// Command brownian runs a bounded random-walk simulation: a single agent (or
// an ensemble of independent agents) moving at constant speed inside a square
// arena, re-headed at random whenever it hits a wall. The walk can be written
// out as an animated GIF and streamed live to websocket viewers.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlab/brownian/internal/config"
	"github.com/wanderlab/brownian/internal/core/arena"
	"github.com/wanderlab/brownian/internal/core/ensemble"
	"github.com/wanderlab/brownian/internal/core/observability/log"
	"github.com/wanderlab/brownian/internal/core/sim"
	"github.com/wanderlab/brownian/internal/render"
	"github.com/wanderlab/brownian/internal/stats"
	"github.com/wanderlab/brownian/internal/stream"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "brownian:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		halfWidth  = flag.Float64("w", 10, "arena half-width")
		speed      = flag.Float64("speed", 1, "distance per step")
		heading    = flag.Float64("heading", 0, "initial heading in radians (default: random)")
		sigma      = flag.Float64("sigma", 0, "per-step speed jitter sigma (0 = constant speed)")
		steps      = flag.Uint64("steps", 2000, "number of steps (0 = run until interrupted)")
		seed       = flag.Uint64("seed", 0, "random seed (0 = time-derived)")
		agents     = flag.Int("agents", 1, "number of independent agents")
		policy     = flag.String("policy", "uniform", "collision heading policy: uniform, inward or specular")
		output     = flag.String("out", "", "write the walk as an animated GIF to this path")
		stride     = flag.Int("stride", 1, "render every Nth step as a GIF frame")
		listenAddr = flag.String("listen", "", "serve live snapshots over websocket on this address")
		logLevel   = flag.String("log-level", "info", "debug, info, warn or error")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			return err
		}
	}

	// Flags set on the command line override the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			cfg.ArenaHalfWidth = *halfWidth
		case "speed":
			cfg.InitialSpeed = *speed
		case "heading":
			cfg.InitialHeading = heading
		case "sigma":
			cfg.SpeedSigma = *sigma
		case "steps":
			cfg.MaxSteps = *steps
		case "seed":
			cfg.Seed = *seed
		case "agents":
			cfg.Agents = *agents
		case "policy":
			cfg.Policy = *policy
		case "out":
			cfg.Output = *output
		case "stride":
			cfg.FrameStride = *stride
		case "listen":
			cfg.ListenAddr = *listenAddr
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.New(log.ParseLevel(cfg.LogLevel))
	defer logger.Sync()

	runID := uuid.NewString()
	runLog := logger.With(log.String("run_id", runID))

	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
		runLog.Debug("derived seed from clock", log.Uint64("seed", baseSeed))
	}

	a, err := arena.New(cfg.ArenaHalfWidth)
	if err != nil {
		return err
	}
	simCfg, err := simConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runLog.Info("starting simulation",
		log.Float64("half_width", cfg.ArenaHalfWidth),
		log.Float64("speed", cfg.InitialSpeed),
		log.Uint64("max_steps", cfg.MaxSteps),
		log.Uint64("seed", baseSeed),
		log.Int("agents", cfg.Agents),
		log.String("policy", simCfg.Policy.Name()),
	)

	if cfg.Agents > 1 {
		return runEnsemble(ctx, a, simCfg, cfg, baseSeed, runLog)
	}
	return runSingle(ctx, a, simCfg, cfg, baseSeed, runID, runLog)
}

func simConfig(cfg config.Config) (sim.Config, error) {
	policy, err := sim.PolicyByName(cfg.Policy)
	if err != nil {
		return sim.Config{}, err
	}
	simCfg := sim.Config{
		InitialSpeed:  cfg.InitialSpeed,
		RandomHeading: cfg.InitialHeading == nil,
		MaxSteps:      cfg.MaxSteps,
		SpeedSigma:    cfg.SpeedSigma,
		MinSpeed:      cfg.MinSpeed,
		Policy:        policy,
	}
	if cfg.InitialHeading != nil {
		simCfg.InitialHeading = *cfg.InitialHeading
	}
	return simCfg, nil
}

func runSingle(ctx context.Context, a *arena.Arena, simCfg sim.Config, cfg config.Config, baseSeed uint64, runID string, logger log.Log) error {
	rng := rand.New(rand.NewPCG(baseSeed, ensemble.DeriveSeed(baseSeed, 0)))
	s, err := sim.New(a, simCfg, rng)
	if err != nil {
		return err
	}

	var hub *stream.Hub
	if cfg.ListenAddr != "" {
		hub = stream.NewHub(runID, cfg.ArenaHalfWidth, logger)
		hub.Start(cfg.ListenAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := hub.Stop(shutdownCtx); err != nil {
				logger.Error("stream shutdown failed", log.Error(err))
			}
		}()
	}

	var renderer *render.Renderer
	if cfg.Output != "" {
		opts := render.DefaultOptions()
		opts.Stride = cfg.FrameStride
		if renderer, err = render.NewRenderer(cfg.ArenaHalfWidth, opts); err != nil {
			return err
		}
	}

	acc := stats.NewAccumulator(0, 0)
	start := time.Now()

	for snap := range s.Snapshots() {
		acc.Observe(snap)
		if renderer != nil {
			renderer.Observe(snap)
		}
		if hub != nil {
			hub.Publish(snap)
		}
		if snap.Collided {
			logger.Debug("wall hit",
				log.Uint64("step", snap.Step),
				log.Float64("x", snap.X),
				log.Float64("y", snap.Y),
				log.Uint64("collisions", snap.Collisions),
			)
		}
		if ctx.Err() != nil {
			logger.Info("interrupted", log.Uint64("step", snap.Step))
			break
		}
	}

	if renderer != nil {
		if err := writeGIF(renderer, cfg.Output); err != nil {
			return err
		}
		logger.Info("animation written",
			log.String("path", cfg.Output),
			log.Int("frames", renderer.FrameCount()),
		)
	}

	sum := acc.Summary()
	logger.Info("simulation finished",
		log.Uint64("steps", sum.Steps),
		log.Float64("final_x", sum.FinalX),
		log.Float64("final_y", sum.FinalY),
		log.Float64("total_path", sum.TotalPath),
		log.Float64("mean_speed", sum.MeanSpeed),
		log.Uint64("collisions", sum.Collisions),
		log.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func runEnsemble(ctx context.Context, a *arena.Arena, simCfg sim.Config, cfg config.Config, baseSeed uint64, logger log.Log) error {
	start := time.Now()
	results, err := ensemble.Run(ctx, a, simCfg, cfg.Agents, baseSeed)
	if err != nil {
		return err
	}

	var totalPath float64
	var totalCollisions uint64
	for _, r := range results {
		totalPath += r.Summary.TotalPath
		totalCollisions += r.Summary.Collisions
		logger.Debug("agent finished",
			log.Int("agent", r.Agent),
			log.Float64("final_x", r.Summary.FinalX),
			log.Float64("final_y", r.Summary.FinalY),
			log.Float64("total_path", r.Summary.TotalPath),
			log.Uint64("collisions", r.Summary.Collisions),
		)
	}

	n := float64(len(results))
	logger.Info("ensemble finished",
		log.Int("agents", len(results)),
		log.Uint64("steps_per_agent", cfg.MaxSteps),
		log.Float64("mean_path", totalPath/n),
		log.Float64("mean_collisions", float64(totalCollisions)/n),
		log.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func writeGIF(r *render.Renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteGIF(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
