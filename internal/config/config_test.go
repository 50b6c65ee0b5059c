package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	doc := `
arena_half_width: 25.5
initial_speed: 0.5
initial_heading: 1.57
max_steps: 100
seed: 42
agents: 4
policy: inward
output: walk.gif
frame_stride: 5
`
	cfg, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 25.5, cfg.ArenaHalfWidth)
	assert.Equal(t, 0.5, cfg.InitialSpeed)
	require.NotNil(t, cfg.InitialHeading)
	assert.Equal(t, 1.57, *cfg.InitialHeading)
	assert.EqualValues(t, 100, cfg.MaxSteps)
	assert.EqualValues(t, 42, cfg.Seed)
	assert.Equal(t, 4, cfg.Agents)
	assert.Equal(t, "inward", cfg.Policy)
	assert.Equal(t, "walk.gif", cfg.Output)
	assert.Equal(t, 5, cfg.FrameStride)
	assert.Equal(t, "info", cfg.LogLevel, "untouched fields keep their defaults")
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero half-width", func(c *Config) { c.ArenaHalfWidth = 0 }},
		{"negative half-width", func(c *Config) { c.ArenaHalfWidth = -3 }},
		{"negative speed", func(c *Config) { c.InitialSpeed = -1 }},
		{"negative sigma", func(c *Config) { c.SpeedSigma = -0.1 }},
		{"zero agents", func(c *Config) { c.Agents = 0 }},
		{"unbounded ensemble", func(c *Config) { c.Agents = 2; c.MaxSteps = 0 }},
		{"zero stride", func(c *Config) { c.FrameStride = 0 }},
		{"unbounded gif", func(c *Config) { c.Output = "x.gif"; c.MaxSteps = 0 }},
		{"bad policy", func(c *Config) { c.Policy = "bounce" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(strings.NewReader("arena_half_width: [not a number"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
