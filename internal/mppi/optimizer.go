package mppi

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// NoSpeedLimit restores the configured velocity limits in SetSpeedLimit.
const NoSpeedLimit = 0.0

// Optimizer is the MPPI controller core. It owns the mean control sequence and every
// per-cycle buffer; none of them are shared with callers.
type Optimizer struct {
	settings       Settings
	vLimit, wLimit float64

	model  MotionModel
	scorer Scorer
	logger *zap.Logger
	now    func() time.Time

	sequence     ControlSequence
	batch        *Batch
	trajectories *Trajectories
	generated    *Trajectories
	weights      []float64
	noise        *noiseGenerator
	shiftPending bool
}

type Option func(*Optimizer)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Optimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the time source used to stamp commands.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) {
		if now != nil {
			o.now = now
		}
	}
}

// New validates settings and allocates every buffer for the optimizer lifetime. A nil
// scorer leaves all costs at zero.
func New(settings Settings, model MotionModel, scorer Scorer, opts ...Option) (*Optimizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: motion model is required", ErrInvalidConfig)
	}
	if scorer == nil {
		scorer = ScorerFunc(func(*CriticData) {})
	}

	o := &Optimizer{
		settings:     settings,
		vLimit:       settings.VLimit,
		wLimit:       settings.WLimit,
		model:        model,
		scorer:       scorer,
		logger:       zap.NewNop(),
		now:          time.Now,
		sequence:     NewControlSequence(settings.TimeSteps),
		batch:        NewBatch(settings.BatchSize, settings.TimeSteps),
		trajectories: NewTrajectories(settings.BatchSize, settings.TimeSteps),
		generated:    NewTrajectories(settings.BatchSize, settings.TimeSteps),
		weights:      make([]float64, settings.BatchSize),
		noise:        newNoiseGenerator(settings.VStd, settings.WStd, settings.Seed),
	}
	for _, opt := range opts {
		opt(o)
	}

	if f := settings.ControllerFrequency; f > 0 && 1/f < settings.ModelDt-periodEps {
		o.logger.Warn("controller period is shorter than model_dt, commands will be recomputed before the horizon advances",
			zap.Float64("controller_period", 1/f),
			zap.Float64("model_dt", settings.ModelDt))
	}
	o.logger.Info("optimizer configured",
		zap.Int("batch_size", settings.BatchSize),
		zap.Int("time_steps", settings.TimeSteps),
		zap.Float64("model_dt", settings.ModelDt),
		zap.Int("iteration_count", settings.IterationCount),
		zap.Float64("temperature", settings.Temperature),
		zap.String("shift_policy", string(settings.ShiftPolicy)))

	return o, nil
}

func (o *Optimizer) Settings() Settings {
	return o.settings
}

// SpeedLimits returns the velocity limits currently applied by the clamp.
func (o *Optimizer) SpeedLimits() (vLimit, wLimit float64) {
	return o.vLimit, o.wLimit
}

// EvalControl runs one control request and returns the first command of the updated
// sequence. Critic failures reset the optimizer and retry the whole request.
func (o *Optimizer) EvalControl(ctx context.Context, pose Pose, velocity Twist, path Path) (Command, error) {
	if len(path) < 2 {
		return Command{}, fmt.Errorf("%w: got %d", ErrInvalidPath, len(path))
	}

	if o.shiftPending {
		o.sequence.Shift(o.settings.ShiftPolicy)
		o.shiftPending = false
	}

	attempts := 1 + o.settings.RetryAttemptLimit
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := o.optimize(ctx, attempt, pose, velocity, path)
		if err == nil {
			cmd := Command{Stamp: o.now(), V: o.sequence.V[0], W: o.sequence.W[0]}
			o.shiftPending = true
			return cmd, nil
		}
		if ctx.Err() != nil {
			return Command{}, err
		}

		lastErr = err
		o.logger.Warn("optimizer cycle failed, resetting",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))
		o.Reset()
	}
	return Command{}, lastErr
}

func (o *Optimizer) optimize(ctx context.Context, attempt int, pose Pose, velocity Twist, path Path) error {
	for it := 1; it <= o.settings.IterationCount; it++ {
		if err := ctx.Err(); err != nil {
			return &CycleError{Attempt: attempt, Iteration: it, Err: err}
		}

		o.generateNoisedTrajectories(pose, velocity)

		data := NewCriticData(path, pose, velocity, o.trajectories, o.batch, o.settings.ModelDt)
		o.scorer.Score(data)
		if data.FailFlag {
			return &CycleError{Attempt: attempt, Iteration: it, Err: ErrOptimizerFailed}
		}

		if ce := o.logger.Check(zap.DebugLevel, "cycle scored"); ce != nil {
			ce.Write(
				zap.Int("iteration", it),
				zap.Float64("min_cost", floats.Min(data.Costs)),
				zap.Int("furthest_path_point", data.FurthestReachedPathPoint()))
		}

		o.updateControlSequence(data.Costs)
	}
	return nil
}

func (o *Optimizer) generateNoisedTrajectories(pose Pose, velocity Twist) {
	o.noise.sample(o.batch, o.sequence)

	parallelFor(o.settings.BatchSize, o.settings.Workers, func(start, end int) {
		o.batch.clamp(start, end, o.vLimit, o.wLimit)
		o.batch.propagate(start, end, velocity, o.model)
		o.trajectories.integrate(o.batch, start, end, pose, o.settings.ModelDt)
	})

	o.generated.X.Copy(o.trajectories.X)
	o.generated.Y.Copy(o.trajectories.Y)
	o.generated.Yaw.Copy(o.trajectories.Yaw)
}

func (o *Optimizer) updateControlSequence(costs []float64) {
	softmaxWeights(o.weights, costs, o.settings.Temperature)
	weightedAverage(o.sequence.V, o.batch.CV, o.weights)
	weightedAverage(o.sequence.W, o.batch.CW, o.weights)
}

// Reset zeroes the mean sequence and every batch buffer and drops a pending shift.
func (o *Optimizer) Reset() {
	o.sequence.Reset()
	o.batch.Reset()
	o.trajectories.Reset()
	o.generated.Reset()
	clear(o.weights)
	o.shiftPending = false

	o.logger.Info("optimizer reset")
}

// SetSpeedLimit scales the velocity limits. With percentage set, limit is a percentage
// of the configured limits; otherwise it is an absolute linear limit and the angular
// limit follows the same ratio. NoSpeedLimit restores the configured limits.
func (o *Optimizer) SetSpeedLimit(limit float64, percentage bool) error {
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit < 0 {
		return fmt.Errorf("%w: speed limit must be a non-negative finite value, got %f", ErrInvalidConfig, limit)
	}

	switch {
	case limit == NoSpeedLimit:
		o.vLimit, o.wLimit = o.settings.VLimit, o.settings.WLimit
	case percentage:
		ratio := limit / 100
		o.vLimit, o.wLimit = o.settings.VLimit*ratio, o.settings.WLimit*ratio
	default:
		ratio := limit / o.settings.VLimit
		o.vLimit, o.wLimit = limit, o.settings.WLimit*ratio
	}

	o.logger.Info("speed limit updated",
		zap.Float64("v_limit", o.vLimit),
		zap.Float64("w_limit", o.wLimit))
	return nil
}

// OptimizedTrajectory rolls the current mean sequence out from the given state.
func (o *Optimizer) OptimizedTrajectory(pose Pose, velocity Twist) []Pose {
	steps := o.sequence.Len()
	v, w := make([]float64, steps), make([]float64, steps)
	propagateSample(v, w, o.sequence.V, o.sequence.W, velocity, o.model)

	xs, ys, yaws := make([]float64, steps), make([]float64, steps), make([]float64, steps)
	integrateSample(xs, ys, yaws, v, w, pose, o.settings.ModelDt)

	out := make([]Pose, steps)
	for t := range out {
		out[t] = Pose{X: xs[t], Y: ys[t], Yaw: yaws[t]}
	}
	return out
}

// ControlSequence returns a copy of the current mean sequence.
func (o *Optimizer) ControlSequence() ControlSequence {
	return o.sequence.Clone()
}

// GeneratedTrajectories returns a copy of the trajectories of the last cycle.
func (o *Optimizer) GeneratedTrajectories() *Trajectories {
	return o.generated.Clone()
}
