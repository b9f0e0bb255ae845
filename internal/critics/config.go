package critics

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Common holds the parameters every critic shares. A critic adds
// Weight * raw^Power per sample.
type Common struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Weight  float64 `yaml:"cost_weight" json:"cost_weight"`
	Power   int     `yaml:"cost_power" json:"cost_power"`
}

func (c Common) contribution(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	if c.Power == 1 {
		return c.Weight * raw
	}
	return c.Weight * math.Pow(raw, float64(c.Power))
}

func (c Common) validate(name string) error {
	var errs error
	if c.Weight < 0 || math.IsNaN(c.Weight) {
		errs = multierr.Append(errs, fmt.Errorf("%s: cost_weight must not be negative, got %f", name, c.Weight))
	}
	if c.Power < 1 {
		errs = multierr.Append(errs, fmt.Errorf("%s: cost_power must be at least 1, got %d", name, c.Power))
	}
	return errs
}

type PathFollowConfig struct {
	Common             `yaml:",inline" json:",inline"`
	MaxPathRatio       float64 `yaml:"max_path_ratio" json:"max_path_ratio"`
	OffsetFromFurthest int     `yaml:"offset_from_furthest" json:"offset_from_furthest"`
}

type PreferForwardConfig struct {
	Common              `yaml:",inline" json:",inline"`
	ThresholdToConsider float64 `yaml:"threshold_to_consider" json:"threshold_to_consider"`
}

type PathAngleConfig struct {
	Common              `yaml:",inline" json:",inline"`
	OffsetFromFurthest  int     `yaml:"offset_from_furthest" json:"offset_from_furthest"`
	MaxAngleToFurthest  float64 `yaml:"max_angle_to_furthest" json:"max_angle_to_furthest"`
	ThresholdToConsider float64 `yaml:"threshold_to_consider" json:"threshold_to_consider"`
}

type GoalConfig struct {
	Common              `yaml:",inline" json:",inline"`
	ThresholdToConsider float64 `yaml:"threshold_to_consider" json:"threshold_to_consider"`
}

// Config lists the critics to run, in order, and the parameters of each.
type Config struct {
	Critics       []string            `yaml:"critics" json:"critics"`
	PathFollow    PathFollowConfig    `yaml:"path_follow" json:"path_follow"`
	PreferForward PreferForwardConfig `yaml:"prefer_forward" json:"prefer_forward"`
	PathAngle     PathAngleConfig     `yaml:"path_angle" json:"path_angle"`
	Goal          GoalConfig          `yaml:"goal" json:"goal"`
}

func DefaultConfig() Config {
	return Config{
		Critics: []string{NameGoal, NamePathAngle, NamePathFollow, NamePreferForward},
		PathFollow: PathFollowConfig{
			Common:             Common{Enabled: true, Weight: 3.0, Power: 1},
			MaxPathRatio:       0.40,
			OffsetFromFurthest: 10,
		},
		PreferForward: PreferForwardConfig{
			Common:              Common{Enabled: true, Weight: 3.0, Power: 1},
			ThresholdToConsider: 0.40,
		},
		PathAngle: PathAngleConfig{
			Common:              Common{Enabled: true, Weight: 2.2, Power: 1},
			OffsetFromFurthest:  4,
			MaxAngleToFurthest:  1.2,
			ThresholdToConsider: 0.40,
		},
		Goal: GoalConfig{
			Common:              Common{Enabled: true, Weight: 5.0, Power: 1},
			ThresholdToConsider: 1.0,
		},
	}
}

// Validate checks the parameters of every critic, listed or not.
func (c Config) Validate() error {
	errs := multierr.Combine(
		c.PathFollow.validate(NamePathFollow),
		c.PreferForward.validate(NamePreferForward),
		c.PathAngle.validate(NamePathAngle),
		c.Goal.validate(NameGoal),
	)
	if c.PathFollow.OffsetFromFurthest < 0 || c.PathAngle.OffsetFromFurthest < 0 {
		errs = multierr.Append(errs, fmt.Errorf("offset_from_furthest must not be negative"))
	}
	if c.PathFollow.MaxPathRatio < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s: max_path_ratio must not be negative, got %f", NamePathFollow, c.PathFollow.MaxPathRatio))
	}
	if c.PathAngle.MaxAngleToFurthest < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s: max_angle_to_furthest must not be negative, got %f", NamePathAngle, c.PathAngle.MaxAngleToFurthest))
	}
	for _, th := range []float64{c.PreferForward.ThresholdToConsider, c.PathAngle.ThresholdToConsider, c.Goal.ThresholdToConsider} {
		if th < 0 {
			errs = multierr.Append(errs, fmt.Errorf("threshold_to_consider must not be negative, got %f", th))
		}
	}
	return errs
}
