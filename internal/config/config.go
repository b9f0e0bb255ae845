package config

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/mppic/internal/critics"
	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/scenario"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMotionModel = "naive"
	DefaultIntegrator  = "rk4"
	DefaultDt          = 0.1
	DefaultDuration    = 30.0
	DefaultRuns        = 1
	DefaultGoalReached = 0.1
)

// Config is the whole YAML document driving a closed-loop experiment.
type Config struct {
	Optimizer  OptimizerConfig   `yaml:"optimizer" json:"optimizer"`
	Critics    critics.Config    `yaml:"critics" json:"critics"`
	Simulation SimulationConfig  `yaml:"simulation" json:"simulation"`
	Scenario   scenario.Scenario `yaml:"scenario" json:"scenario"`
	Logger     LoggerConfig      `yaml:"logger" json:"logger"`
}

type OptimizerConfig struct {
	mppi.Settings `yaml:",inline"`
	MotionModel   string        `yaml:"motion_model" json:"motion_model"`
	ModelParams   models.Params `yaml:"model_params" json:"model_params"`
}

type SimulationConfig struct {
	Integrator  string  `yaml:"integrator" json:"integrator"`
	Dt          float64 `yaml:"dt" json:"dt"`
	Duration    float64 `yaml:"duration" json:"duration"`
	Runs        int     `yaml:"runs" json:"runs"`
	GoalReached float64 `yaml:"goal_reached" json:"goal_reached"`
	TauV        float64 `yaml:"tau_v" json:"tau_v"`
	TauW        float64 `yaml:"tau_w" json:"tau_w"`
}

type LoggerConfig struct {
	Level       string `yaml:"level" json:"level"`
	Format      string `yaml:"format" json:"format"`
	AddSource   bool   `yaml:"add_source" json:"add_source"`
	ServiceName string `yaml:"service_name" json:"service_name"`
	LogFile     string `yaml:"log_file" json:"log_file"`
	MaxSize     int    `yaml:"max_size" json:"max_size"`
	MaxBackups  int    `yaml:"max_backups" json:"max_backups"`
	MaxAge      int    `yaml:"max_age" json:"max_age"`
	Compress    bool   `yaml:"compress" json:"compress"`
}

func DefaultConfig() *Config {
	settings := mppi.DefaultSettings()
	settings.ModelDt = DefaultDt
	unicycle := models.NewUnicycle()

	return &Config{
		Optimizer: OptimizerConfig{
			Settings:    settings,
			MotionModel: DefaultMotionModel,
			ModelParams: models.DefaultParams(),
		},
		Critics: critics.DefaultConfig(),
		Simulation: SimulationConfig{
			Integrator:  DefaultIntegrator,
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			Runs:        DefaultRuns,
			GoalReached: DefaultGoalReached,
			TauV:        unicycle.TauV,
			TauW:        unicycle.TauW,
		},
		Scenario: scenario.Default(),
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "mppic",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      7,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver decodes the file on top of base, so absent keys keep the base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, cfg)
}

func Encode(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Validate reports every invalid section at once.
func (c *Config) Validate() error {
	errs := multierr.Combine(
		c.Optimizer.Settings.Validate(),
		c.Critics.Validate(),
		c.Scenario.Validate(),
	)
	if _, err := models.New(c.Optimizer.MotionModel, c.Optimizer.ModelParams, c.Optimizer.ModelDt); err != nil {
		errs = multierr.Append(errs, err)
	}

	s := c.Simulation
	if s.Dt <= 0 || s.Duration <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("simulation dt and duration must be positive, got dt=%f duration=%f", s.Dt, s.Duration))
	}
	if s.Runs < 1 {
		errs = multierr.Append(errs, fmt.Errorf("simulation runs must be at least 1, got %d", s.Runs))
	}
	if !(s.TauV > 0) || !(s.TauW > 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: actuator time constants must be positive, got tau_v=%f tau_w=%f", mppi.ErrInvalidConfig, s.TauV, s.TauW))
	}
	return errs
}
