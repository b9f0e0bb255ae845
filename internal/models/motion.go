package models

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"
	"github.com/san-kum/mppic/internal/mppi"
)

var ErrUnknownModel = errors.New("models: unknown motion model")

// Params tunes the rollout motion models. Unused fields are ignored by models that do
// not need them.
type Params struct {
	MaxAccelV    float64 `yaml:"max_accel_v" json:"max_accel_v"`
	MaxAccelW    float64 `yaml:"max_accel_w" json:"max_accel_w"`
	TimeConstant float64 `yaml:"time_constant" json:"time_constant"`
}

func DefaultParams() Params {
	return Params{
		MaxAccelV:    1.5,
		MaxAccelW:    3.0,
		TimeConstant: 0.2,
	}
}

// Naive realizes the sampled control immediately.
func Naive() mppi.MotionModel {
	return func(_, command mppi.Twist) mppi.Twist {
		return command
	}
}

// AccelLimited moves the velocity towards the command by at most accel*dt per step.
func AccelLimited(maxAccelV, maxAccelW, dt float64) mppi.MotionModel {
	dv, dw := maxAccelV*dt, maxAccelW*dt
	return func(current, command mppi.Twist) mppi.Twist {
		return mppi.Twist{
			V: current.V + lo.Clamp(command.V-current.V, -dv, dv),
			W: current.W + lo.Clamp(command.W-current.W, -dw, dw),
		}
	}
}

// FirstOrder applies the exact discretization of a first-order lag with the given time
// constant.
func FirstOrder(timeConstant, dt float64) mppi.MotionModel {
	alpha := 1 - math.Exp(-dt/timeConstant)
	return func(current, command mppi.Twist) mppi.Twist {
		return mppi.Twist{
			V: current.V + alpha*(command.V-current.V),
			W: current.W + alpha*(command.W-current.W),
		}
	}
}

var registry = map[string]func(p Params, dt float64) (mppi.MotionModel, error){
	"naive": func(Params, float64) (mppi.MotionModel, error) {
		return Naive(), nil
	},
	"accel_limited": func(p Params, dt float64) (mppi.MotionModel, error) {
		if p.MaxAccelV <= 0 || p.MaxAccelW <= 0 {
			return nil, fmt.Errorf("accelerations must be positive, got v=%f w=%f", p.MaxAccelV, p.MaxAccelW)
		}
		return AccelLimited(p.MaxAccelV, p.MaxAccelW, dt), nil
	},
	"first_order": func(p Params, dt float64) (mppi.MotionModel, error) {
		if p.TimeConstant <= 0 {
			return nil, fmt.Errorf("time_constant must be positive, got %f", p.TimeConstant)
		}
		return FirstOrder(p.TimeConstant, dt), nil
	},
}

// New builds the named motion model for a rollout step of dt seconds.
func New(name string, p Params, dt float64) (mppi.MotionModel, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	m, err := fn(p, dt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", mppi.ErrInvalidConfig, name, err)
	}
	return m, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
