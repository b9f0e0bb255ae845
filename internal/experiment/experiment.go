package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/control"
	"github.com/san-kum/mppic/internal/critics"
	"github.com/san-kum/mppic/internal/integrators"
	"github.com/san-kum/mppic/internal/metrics"
	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
	"github.com/san-kum/mppic/internal/storage"
	"go.uber.org/zap"
)

// Experiment turns a validated config into closed loops over the scenario path.
type Experiment struct {
	cfg    *config.Config
	path   mppi.Path
	logger *zap.Logger
}

// Loop is one fully wired closed loop. Its optimizer and controller are never shared.
type Loop struct {
	Simulator  *sim.Simulator
	Plant      *models.Unicycle
	Integrator sim.Integrator
	Optimizer  *mppi.Optimizer
	Controller *control.MPPI
}

func New(cfg *config.Config, logger *zap.Logger) (*Experiment, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path, err := cfg.Scenario.Path()
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, path: path, logger: logger}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Path() mppi.Path         { return e.path }

func (e *Experiment) InitialState() sim.State {
	return models.UnicycleState(e.cfg.Scenario.Start, e.cfg.Scenario.StartTwist)
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Simulation.Dt,
		Duration:      e.cfg.Simulation.Duration,
		Seed:          e.cfg.Optimizer.Seed,
		ValidateState: true,
	}
}

// Settings returns the optimizer settings for a run with the given noise seed. An
// unset controller frequency follows the simulation tick.
func (e *Experiment) Settings(seed int64) mppi.Settings {
	s := e.cfg.Optimizer.Settings
	s.Seed = seed
	if s.ControllerFrequency == 0 {
		s.ControllerFrequency = 1 / e.cfg.Simulation.Dt
	}
	return s
}

// Build wires plant, integrator, critics, optimizer, controller and metrics for one seed.
func (e *Experiment) Build(seed int64) (*Loop, error) {
	model, err := models.New(e.cfg.Optimizer.MotionModel, e.cfg.Optimizer.ModelParams, e.cfg.Optimizer.ModelDt)
	if err != nil {
		return nil, err
	}
	manager, err := critics.NewManager(e.cfg.Critics, e.logger.Named("critics"))
	if err != nil {
		return nil, err
	}
	opt, err := mppi.New(e.Settings(seed), model, manager, mppi.WithLogger(e.logger.Named("optimizer")))
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(e.cfg.Simulation.Integrator)
	if err != nil {
		return nil, err
	}

	plant := models.NewUnicycle()
	plant.TauV = e.cfg.Simulation.TauV
	plant.TauW = e.cfg.Simulation.TauW

	ctrl := control.NewMPPI(opt, e.path, e.logger.Named("control"))
	s := sim.New(plant, integ, ctrl)
	s.SetLogger(e.logger.Named("sim"))
	s.AddMetric(metrics.NewTrackingError(e.path))
	s.AddMetric(metrics.NewProgress(e.path))
	s.AddMetric(metrics.NewControlEffort())

	if tol := e.cfg.Simulation.GoalReached; tol > 0 {
		goal := e.path.Last()
		s.SetStopCondition(func(x sim.State, t float64) bool {
			pose, _ := models.SplitState(x)
			return pose.DistanceTo(goal) <= tol
		})
	}

	return &Loop{Simulator: s, Plant: plant, Integrator: integ, Optimizer: opt, Controller: ctrl}, nil
}

// Factory adapts Build to the ensemble runner.
func (e *Experiment) Factory() sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		loop, err := e.Build(seed)
		if err != nil {
			return nil, err
		}
		return loop.Simulator, nil
	}
}

// Run executes a single closed loop seeded from the optimizer settings.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	loop, err := e.Build(e.cfg.Optimizer.Seed)
	if err != nil {
		return nil, err
	}
	return loop.Simulator.Run(ctx, e.InitialState(), e.SimConfig())
}

// RunEnsemble executes the configured number of runs with consecutive seeds.
func (e *Experiment) RunEnsemble(ctx context.Context, workers int) ([]*sim.Result, error) {
	runs := e.cfg.Simulation.Runs
	if runs < 1 {
		return nil, fmt.Errorf("%w: runs must be at least 1, got %d", sim.ErrInvalidConfig, runs)
	}
	ens := sim.NewEnsemble(e.Factory(), runs, e.cfg.Optimizer.Seed)
	ens.SetWorkers(workers)
	return ens.Run(ctx, e.InitialState(), e.SimConfig())
}

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(seed int64) storage.RunMetadata {
	names := e.cfg.Critics.Critics
	return storage.RunMetadata{
		Scenario:    e.cfg.Scenario.Name,
		Seed:        seed,
		Dt:          e.cfg.Simulation.Dt,
		Duration:    e.cfg.Simulation.Duration,
		Integrator:  e.cfg.Simulation.Integrator,
		MotionModel: e.cfg.Optimizer.MotionModel,
		Critics:     append([]string(nil), names...),
		Settings:    e.Settings(seed),
		Path:        e.path,
	}
}

// Summarize averages every metric over the results.
func Summarize(results []*sim.Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for name, v := range r.Metrics {
			out[name] += v
		}
	}
	for name := range out {
		out[name] /= float64(len(results))
	}
	return out
}
