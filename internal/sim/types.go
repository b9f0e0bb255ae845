package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid configuration")
	ErrInvalidState  = errors.New("sim: invalid state (NaN/Inf)")
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type Dynamics interface {
	Derivative(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn Dynamics, x State, u Control, t float64, dt float64) State
}

// Controller computes the plant input for the current state. An error stops the run.
type Controller interface {
	Compute(ctx context.Context, x State, t float64) (Control, error)
}

type Metric interface {
	Name() string
	Observe(x State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u Control, t float64)
}

// StopCondition ends a run early once it reports true.
type StopCondition func(x State, t float64) bool

type Config struct {
	Dt            float64 `yaml:"dt" json:"dt"`
	Duration      float64 `yaml:"duration" json:"duration"`
	Seed          int64   `yaml:"seed" json:"seed"`
	ValidateState bool    `yaml:"validate_state" json:"validate_state"`
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.05,
		Duration:      20.0,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Controls   []Control
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Stopped    bool
}

// FinalState returns the last recorded state.
func (r *Result) FinalState() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type SimError struct {
	Time float64
	Step int
	Err  error
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Err)
}

func (e SimError) Unwrap() error {
	return e.Err
}
