package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Simulator struct {
	dyn        Dynamics
	integrator Integrator
	controller Controller
	metrics    []Metric
	observers  []Observer
	stop       StopCondition
	logger     *zap.Logger
}

func New(dyn Dynamics, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		logger:     zap.NewNop(),
	}
}

func (s *Simulator) AddMetric(m Metric)               { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)           { s.observers = append(s.observers, o) }
func (s *Simulator) SetStopCondition(c StopCondition) { s.stop = c }

func (s *Simulator) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Run ticks the closed loop until the duration elapses or the stop condition holds.
// On a controller failure the partial result is returned together with the error.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	var runErr error
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if s.stop != nil && s.stop(x, t) {
			result.Stopped = true
			break
		}

		u, err := s.controller.Compute(ctx, x, t)
		if err != nil {
			runErr = SimError{Time: t, Step: i, Err: err}
			break
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		newX := s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		if cfg.ValidateState && !newX.IsValid() {
			runErr = SimError{Time: t, Step: i, Err: ErrInvalidState}
			break
		}

		x = newX
		t += cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u)
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		s.logger.Warn("run stopped early", zap.Int("steps", result.StepsTaken), zap.Error(runErr))
		return result, runErr
	}
	s.logger.Debug("run finished",
		zap.Int("steps", result.StepsTaken),
		zap.Bool("stopped", result.Stopped))
	return result, nil
}

func (s *Simulator) validateConfig(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if dim := s.dyn.StateDim(); len(x0) != dim {
		return fmt.Errorf("%w: initial state has %d entries, expected %d", ErrInvalidConfig, len(x0), dim)
	}
	return nil
}

// RunWithCallback steps the loop until the callback returns false, the duration
// elapses or the controller fails.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, Control, float64) bool) error {
	if err := s.validateConfig(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	for t := 0.0; t < cfg.Duration; t += cfg.Dt {
		if err := ctx.Err(); err != nil {
			return err
		}

		u, err := s.controller.Compute(ctx, x, t)
		if err != nil {
			return fmt.Errorf("t=%.4f: %w", t, err)
		}
		if !callback(x, u, t) {
			return nil
		}

		x = s.integrator.Step(s.dyn, x, u, t, cfg.Dt)
		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("t=%.4f: %w", t, ErrInvalidState)
		}
	}
	return nil
}
