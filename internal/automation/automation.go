package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/experiment"
	"github.com/san-kum/mppic/internal/sim"
	"github.com/san-kum/mppic/internal/storage"
	"github.com/san-kum/mppic/internal/tune"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Campaign is a scripted sequence of closed-loop runs.
type Campaign struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step runs one preset, optionally with a config file on top and tunable parameters
// overridden by name (see tune.Apply).
type Step struct {
	Preset   string             `yaml:"preset"`
	Config   string             `yaml:"config"`
	Seed     int64              `yaml:"seed"`
	Duration float64            `yaml:"duration"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

func LoadCampaign(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Campaign
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if len(c.Steps) == 0 {
		return nil, fmt.Errorf("campaign %q has no steps", c.Name)
	}
	return &c, nil
}

func (s Step) build() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Config != "" {
		var err error
		if cfg, err = config.LoadOver(s.Config, cfg); err != nil {
			return nil, err
		}
	}
	cfg.Optimizer.Seed = s.Seed
	if s.Duration > 0 {
		cfg.Simulation.Duration = s.Duration
	}
	for name, v := range s.Params {
		if err := tune.Apply(cfg, name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// StepResult pairs a finished step with the stored run ID, if it was saved.
type StepResult struct {
	RunID  string
	Result *sim.Result
}

// RunCampaign executes every step in order and stores each run when st is not nil.
func RunCampaign(ctx context.Context, c *Campaign, st *storage.Store, logger *zap.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]StepResult, 0, len(c.Steps))

	for i, step := range c.Steps {
		logger.Info("campaign step", zap.Int("step", i+1), zap.Int("steps", len(c.Steps)), zap.String("preset", step.Preset))

		cfg, err := step.build()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Result: result}
		if st != nil {
			meta := exp.Metadata(cfg.Optimizer.Seed)
			if step.SaveAs != "" {
				meta.Scenario = step.SaveAs
			}
			if sr.RunID, err = st.Save(meta, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Sweep varies one tunable parameter linearly over a closed-form range.
type Sweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	Stopped bool
}

// RunSweep runs the base config once per parameter value.
func RunSweep(ctx context.Context, base *config.Config, sweep Sweep, logger *zap.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*step
		cfg := *base
		if err := tune.Apply(&cfg, sweep.Param, val); err != nil {
			return nil, err
		}

		exp, err := experiment.New(&cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.Param, val, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.Param, val, err)
		}

		results = append(results, SweepResult{Value: val, Metrics: result.Metrics, Stopped: result.Stopped})
		logger.Debug("sweep point", zap.String("param", sweep.Param), zap.Float64("value", val))
	}

	return results, nil
}
