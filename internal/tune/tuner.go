package tune

import (
	"context"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
	"github.com/samber/lo"
	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/experiment"
	"go.uber.org/zap"
)

const (
	// MinPopulation is the smallest swarm mayfly accepts.
	MinPopulation = 20

	failedCost = 1e9
)

// Objective scores one candidate config; lower is better.
type Objective func(ctx context.Context, cfg *config.Config) (float64, error)

// TrackingObjective runs the configured ensemble and returns the mean tracking error
// plus progressPenalty times the unreached fraction of the path. The penalty keeps a
// robot standing on the path from scoring best.
func TrackingObjective(workers int, progressPenalty float64) Objective {
	return func(ctx context.Context, cfg *config.Config) (float64, error) {
		exp, err := experiment.New(cfg, nil)
		if err != nil {
			return 0, err
		}
		results, err := exp.RunEnsemble(ctx, workers)
		if err != nil {
			return 0, err
		}
		m := experiment.Summarize(results)
		return m["tracking_error"] + progressPenalty*(1-m["progress"]), nil
	}
}

type Result struct {
	Params      map[string]float64 `json:"params"`
	Cost        float64            `json:"cost"`
	Evaluations int                `json:"evaluations"`
}

// Config returns base with the best parameters applied.
func (r *Result) Config(base *config.Config) *config.Config {
	cfg := *base
	for name, v := range r.Params {
		_ = Apply(&cfg, name, v)
	}
	return &cfg
}

type Tuner struct {
	base      *config.Config
	params    []Param
	objective Objective
	logger    *zap.Logger
}

func New(base *config.Config, params []Param, objective Objective, logger *zap.Logger) (*Tuner, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tuner{base: base, params: params, objective: objective, logger: logger}, nil
}

func (t *Tuner) evaluate(ctx context.Context, values map[string]float64) (float64, error) {
	cfg := *t.base
	for name, v := range values {
		if err := Apply(&cfg, name, v); err != nil {
			return 0, err
		}
	}
	cost, err := t.objective(ctx, &cfg)
	if err != nil {
		t.logger.Debug("candidate failed", zap.Any("params", values), zap.Error(err))
		return 0, err
	}
	t.logger.Debug("candidate scored", zap.Any("params", values), zap.Float64("cost", cost))
	return cost, nil
}

// Grid evaluates every combination of the parameter Values. Failed candidates are
// skipped.
func (t *Tuner) Grid(ctx context.Context) (*Result, error) {
	best := &Result{Cost: math.Inf(1)}
	t.gridRecursive(ctx, 0, make(map[string]float64), best)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.logger.Info("grid search finished",
		zap.Int("evaluations", best.Evaluations),
		zap.Float64("cost", best.Cost),
		zap.Any("params", best.Params))
	return best, nil
}

func (t *Tuner) gridRecursive(ctx context.Context, depth int, current map[string]float64, best *Result) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(t.params) {
		best.Evaluations++
		cost, err := t.evaluate(ctx, current)
		if err != nil {
			return
		}
		if cost < best.Cost {
			best.Cost = cost
			best.Params = make(map[string]float64, len(current))
			for k, v := range current {
				best.Params[k] = v
			}
		}
		return
	}

	p := t.params[depth]
	for _, val := range p.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[p.Name] = val

		t.gridRecursive(ctx, depth+1, next, best)
	}
}

// Mayfly searches the continuous box spanned by the parameter bounds. The swarm moves
// in the unit cube, each coordinate mapped linearly onto its parameter range.
func (t *Tuner) Mayfly(ctx context.Context, iterations, population int, seed int64) (*Result, error) {
	evaluations := 0
	eval := func(x []float64) float64 {
		if ctx.Err() != nil {
			return failedCost
		}
		evaluations++
		cost, err := t.evaluate(ctx, t.denormalize(x))
		if err != nil || math.IsNaN(cost) {
			return failedCost
		}
		return cost
	}

	cfg := mayfly.NewDefaultConfig()
	cfg.ObjectiveFunc = eval
	cfg.ProblemSize = len(t.params)
	cfg.MaxIterations = iterations
	cfg.NPop = max(population, MinPopulation)
	cfg.LowerBound = 0
	cfg.UpperBound = 1
	cfg.Rand = rand.New(rand.NewSource(seed))

	res, err := mayfly.Optimize(cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := &Result{
		Params:      t.denormalize(res.GlobalBest.Position),
		Cost:        res.GlobalBest.Cost,
		Evaluations: evaluations,
	}
	t.logger.Info("mayfly search finished",
		zap.Int("evaluations", best.Evaluations),
		zap.Float64("cost", best.Cost),
		zap.Any("params", best.Params))
	return best, nil
}

func (t *Tuner) denormalize(x []float64) map[string]float64 {
	out := make(map[string]float64, len(t.params))
	for i, p := range t.params {
		u := lo.Clamp(x[i], 0, 1)
		out[p.Name] = p.Lower + u*(p.Upper-p.Lower)
	}
	return out
}
