// Package config loads and validates run configuration from a YAML file,
// with defaults matching a plain constant-speed walk in a 20x20 arena.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the recognized run options.
type Config struct {
	// Arena
	ArenaHalfWidth float64 `yaml:"arena_half_width"`

	// Agent
	InitialSpeed   float64  `yaml:"initial_speed"`
	InitialHeading *float64 `yaml:"initial_heading"` // radians; nil draws a random start
	SpeedSigma     float64  `yaml:"speed_sigma"`     // 0 = constant speed
	MinSpeed       float64  `yaml:"min_speed"`

	// Run
	MaxSteps uint64 `yaml:"max_steps"` // 0 = unbounded
	Seed     uint64 `yaml:"seed"`      // 0 = time-derived (non-deterministic)
	Agents   int    `yaml:"agents"`
	Policy   string `yaml:"policy"` // uniform | inward | specular

	// Output
	Output      string `yaml:"output"` // GIF path, empty disables rendering
	FrameStride int    `yaml:"frame_stride"`
	ListenAddr  string `yaml:"listen_addr"` // live snapshot stream, empty disables
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when no file or flags are given.
func Default() Config {
	return Config{
		ArenaHalfWidth: 10,
		InitialSpeed:   1,
		SpeedSigma:     0,
		MinSpeed:       0.05,
		MaxSteps:       2000,
		Agents:         1,
		Policy:         "uniform",
		FrameStride:    1,
		LogLevel:       "info",
	}
}

// Load decodes YAML from r on top of the defaults and validates the result.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and decodes the YAML file at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks every field eagerly so the driver can abort before any
// simulation state exists.
func (c Config) Validate() error {
	if c.ArenaHalfWidth <= 0 || !finite(c.ArenaHalfWidth) {
		return fmt.Errorf("%w: arena_half_width must be > 0, got %v", ErrInvalidConfig, c.ArenaHalfWidth)
	}
	if c.InitialSpeed < 0 || !finite(c.InitialSpeed) {
		return fmt.Errorf("%w: initial_speed must be >= 0, got %v", ErrInvalidConfig, c.InitialSpeed)
	}
	if c.InitialHeading != nil && !finite(*c.InitialHeading) {
		return fmt.Errorf("%w: initial_heading must be finite", ErrInvalidConfig)
	}
	if c.SpeedSigma < 0 || !finite(c.SpeedSigma) {
		return fmt.Errorf("%w: speed_sigma must be >= 0, got %v", ErrInvalidConfig, c.SpeedSigma)
	}
	if c.MinSpeed < 0 || !finite(c.MinSpeed) {
		return fmt.Errorf("%w: min_speed must be >= 0, got %v", ErrInvalidConfig, c.MinSpeed)
	}
	if c.Agents < 1 {
		return fmt.Errorf("%w: agents must be >= 1, got %d", ErrInvalidConfig, c.Agents)
	}
	if c.Agents > 1 && c.MaxSteps == 0 {
		return fmt.Errorf("%w: ensemble runs require max_steps > 0", ErrInvalidConfig)
	}
	if c.FrameStride < 1 {
		return fmt.Errorf("%w: frame_stride must be >= 1, got %d", ErrInvalidConfig, c.FrameStride)
	}
	if c.Output != "" && c.MaxSteps == 0 {
		return fmt.Errorf("%w: GIF output requires max_steps > 0", ErrInvalidConfig)
	}
	switch c.Policy {
	case "", "uniform", "inward", "specular":
	default:
		return fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, c.Policy)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
