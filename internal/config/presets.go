package config

import (
	"maps"
	"math"
	"slices"

	"github.com/san-kum/mppic/internal/scenario"
)

// Presets are named variations of DefaultConfig.
var Presets = map[string]func(*Config){
	"straight": func(c *Config) {},
	"corner": func(c *Config) {
		c.Scenario = scenario.Scenario{Name: "corner", Kind: scenario.KindArc, Radius: 1.5, Sweep: math.Pi / 2, Spacing: scenario.DefaultSpacing}
	},
	"slalom": func(c *Config) {
		c.Scenario = scenario.Scenario{Name: "slalom", Kind: scenario.KindSine, Length: 6, Amplitude: 0.6, Wavelength: 3, Spacing: scenario.DefaultSpacing}
		c.Optimizer.BatchSize = 800
		c.Optimizer.TimeSteps = 20
	},
	"turnaround": func(c *Config) {
		c.Scenario = scenario.Default()
		c.Scenario.Name = "turnaround"
		c.Scenario.Start.Yaw = math.Pi
	},
	"sluggish": func(c *Config) {
		c.Optimizer.MotionModel = "accel_limited"
		c.Simulation.TauV = 0.4
		c.Simulation.TauW = 0.3
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
