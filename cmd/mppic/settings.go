package main

import (
	"fmt"
	"strings"

	"github.com/san-kum/mppic/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "MPPIC"

// flagKeys maps command-line flags onto config keys. The same keys are read from
// MPPIC_* environment variables, e.g. MPPIC_OPTIMIZER_TEMPERATURE.
var flagKeys = map[string]string{
	"data":        "data",
	"config":      "config",
	"preset":      "preset",
	"log-level":   "logger.level",
	"log-format":  "logger.format",
	"log-file":    "logger.log_file",
	"seed":        "optimizer.seed",
	"batch":       "optimizer.batch_size",
	"steps":       "optimizer.time_steps",
	"temperature": "optimizer.temperature",
	"workers":     "optimizer.workers",
	"model":       "optimizer.motion_model",
	"dt":          "simulation.dt",
	"time":        "simulation.duration",
	"runs":        "simulation.runs",
	"integrator":  "simulation.integrator",
}

type override func(v *viper.Viper, key string, cfg *config.Config)

var overrides = map[string]override{
	"logger.level":           func(v *viper.Viper, k string, c *config.Config) { c.Logger.Level = v.GetString(k) },
	"logger.format":          func(v *viper.Viper, k string, c *config.Config) { c.Logger.Format = v.GetString(k) },
	"logger.log_file":        func(v *viper.Viper, k string, c *config.Config) { c.Logger.LogFile = v.GetString(k) },
	"optimizer.seed":         func(v *viper.Viper, k string, c *config.Config) { c.Optimizer.Seed = v.GetInt64(k) },
	"optimizer.batch_size":   func(v *viper.Viper, k string, c *config.Config) { c.Optimizer.BatchSize = v.GetInt(k) },
	"optimizer.time_steps":   func(v *viper.Viper, k string, c *config.Config) { c.Optimizer.TimeSteps = v.GetInt(k) },
	"optimizer.temperature":  func(v *viper.Viper, k string, c *config.Config) { c.Optimizer.Temperature = v.GetFloat64(k) },
	"optimizer.workers":      func(v *viper.Viper, k string, c *config.Config) { c.Optimizer.Workers = v.GetInt(k) },
	"optimizer.motion_model": func(v *viper.Viper, k string, c *config.Config) { c.Optimizer.MotionModel = v.GetString(k) },
	"simulation.dt":          func(v *viper.Viper, k string, c *config.Config) { c.Simulation.Dt = v.GetFloat64(k) },
	"simulation.duration":    func(v *viper.Viper, k string, c *config.Config) { c.Simulation.Duration = v.GetFloat64(k) },
	"simulation.runs":        func(v *viper.Viper, k string, c *config.Config) { c.Simulation.Runs = v.GetInt(k) },
	"simulation.integrator":  func(v *viper.Viper, k string, c *config.Config) { c.Simulation.Integrator = v.GetString(k) },
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// bindFlags binds every known flag of cmd, persistent ones included.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// resolveConfig builds the effective config: defaults, then preset, then config file,
// then environment and flags.
func resolveConfig(v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name := v.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}
	if path := v.GetString("config"); path != "" {
		var err error
		if cfg, err = config.LoadOver(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	for key, apply := range overrides {
		if v.IsSet(key) {
			apply(v, key, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
