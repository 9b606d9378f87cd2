package config

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

// Presets are named starting points. GetPreset returns copies, so callers
// may modify the result.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"tight": with(func(c *Config) {
		c.Params.VisualDistance = 35
		c.Params.MinDistance = 5
		c.Params.CohesionFactor = 3
		c.Params.SeparationFactor = 20
	}),
	"loose": with(func(c *Config) {
		c.Params.VisualDistance = 15
		c.Params.MinDistance = 6
		c.Params.AlignmentFactor = 2
		c.Params.SeparationFactor = 40
	}),
	// The attractor caps speed at 75 and toggling it off restores 120.
	"murmuration": with(func(c *Config) {
		c.Agents = 900
		c.Workers = 4
		c.Params.SetMaxSpeed(120)
		c.Params.TurnSpeed = 400
		c.Params.VisualDistance = 30
		c.Params.CohesionFactor = 0.6
		c.Params.AlignmentFactor = 8
	}),
	"letters": with(func(c *Config) {
		c.Attract = true
	}),
}

func with(mod func(c *Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
