package tune

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/critics"
)

var ErrUnknownParam = errors.New("tune: unknown parameter")

// ParamTemperature is the softmax temperature. Critic weights are addressed as
// "<critic>.weight", e.g. "path_follow.weight".
const ParamTemperature = "temperature"

// Param is one tunable dimension. Values are used by the grid search; Lower and Upper
// bound the mayfly search.
type Param struct {
	Name   string    `yaml:"name" json:"name"`
	Lower  float64   `yaml:"lower" json:"lower"`
	Upper  float64   `yaml:"upper" json:"upper"`
	Values []float64 `yaml:"values" json:"values"`
}

// DefaultParams covers temperature and the weights of the default critic set.
func DefaultParams() []Param {
	return []Param{
		{Name: ParamTemperature, Lower: 0.05, Upper: 1.0, Values: []float64{0.1, 0.25, 0.5}},
		{Name: critics.NamePathFollow + ".weight", Lower: 0.5, Upper: 10, Values: []float64{1, 3, 6}},
		{Name: critics.NamePathAngle + ".weight", Lower: 0.5, Upper: 10, Values: []float64{1, 2.2, 5}},
	}
}

// Apply writes a parameter value into cfg.
func Apply(cfg *config.Config, name string, v float64) error {
	if name == ParamTemperature {
		cfg.Optimizer.Temperature = v
		return nil
	}

	critic, field, ok := strings.Cut(name, ".")
	if !ok || field != "weight" {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	c := &cfg.Critics
	switch critic {
	case critics.NamePathFollow:
		c.PathFollow.Weight = v
	case critics.NamePreferForward:
		c.PreferForward.Weight = v
	case critics.NamePathAngle:
		c.PathAngle.Weight = v
	case critics.NameGoal:
		c.Goal.Weight = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

func validateParams(params []Param) error {
	if len(params) == 0 {
		return fmt.Errorf("%w: no parameters to tune", ErrUnknownParam)
	}
	probe := config.DefaultConfig()
	for _, p := range params {
		if err := Apply(probe, p.Name, p.Lower); err != nil {
			return err
		}
		if p.Lower > p.Upper {
			return fmt.Errorf("tune: %s lower bound %f exceeds upper bound %f", p.Name, p.Lower, p.Upper)
		}
	}
	return nil
}
