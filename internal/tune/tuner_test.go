package tune

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mppic/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bowl is minimal at temperature 0.3 and path_follow weight 4.
func bowl(ctx context.Context, cfg *config.Config) (float64, error) {
	dt := cfg.Optimizer.Temperature - 0.3
	dw := cfg.Critics.PathFollow.Weight - 4
	return dt*dt + 0.01*dw*dw, nil
}

func bowlParams() []Param {
	return []Param{
		{Name: ParamTemperature, Lower: 0, Upper: 1, Values: []float64{0.1, 0.3, 0.9}},
		{Name: "path_follow.weight", Lower: 0, Upper: 10, Values: []float64{1, 4, 8}},
	}
}

func TestApply(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		value float64
		get   func() float64
	}{
		{"temperature", 0.7, func() float64 { return cfg.Optimizer.Temperature }},
		{"path_follow.weight", 1.5, func() float64 { return cfg.Critics.PathFollow.Weight }},
		{"prefer_forward.weight", 2.5, func() float64 { return cfg.Critics.PreferForward.Weight }},
		{"path_angle.weight", 3.5, func() float64 { return cfg.Critics.PathAngle.Weight }},
		{"goal.weight", 4.5, func() float64 { return cfg.Critics.Goal.Weight }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Apply(cfg, tt.name, tt.value))
			assert.Equal(t, tt.value, tt.get())
		})
	}

	for _, bad := range []string{"goal", "goal.power", "obstacles.weight", ""} {
		assert.True(t, errors.Is(Apply(cfg, bad, 1), ErrUnknownParam), bad)
	}
}

func TestNew_RejectsBadParams(t *testing.T) {
	_, err := New(config.DefaultConfig(), nil, bowl, nil)
	assert.Error(t, err)

	_, err = New(config.DefaultConfig(), []Param{{Name: "temperature", Lower: 2, Upper: 1}}, bowl, nil)
	assert.Error(t, err)
}

func TestGrid(t *testing.T) {
	tuner, err := New(config.DefaultConfig(), bowlParams(), bowl, nil)
	require.NoError(t, err)

	res, err := tuner.Grid(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, res.Evaluations)
	assert.InDelta(t, 0.3, res.Params["temperature"], 1e-12)
	assert.InDelta(t, 4.0, res.Params["path_follow.weight"], 1e-12)
	assert.InDelta(t, 0.0, res.Cost, 1e-12)
}

func TestGrid_SkipsFailures(t *testing.T) {
	failing := func(ctx context.Context, cfg *config.Config) (float64, error) {
		if cfg.Optimizer.Temperature < 0.2 {
			return 0, errors.New("diverged")
		}
		return bowl(ctx, cfg)
	}
	tuner, err := New(config.DefaultConfig(), bowlParams(), failing, nil)
	require.NoError(t, err)

	res, err := tuner.Grid(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.3, res.Params["temperature"], 1e-12)
}

func TestGrid_Cancelled(t *testing.T) {
	tuner, err := New(config.DefaultConfig(), bowlParams(), bowl, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = tuner.Grid(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMayfly(t *testing.T) {
	tuner, err := New(config.DefaultConfig(), bowlParams(), bowl, nil)
	require.NoError(t, err)

	res, err := tuner.Mayfly(context.Background(), 60, 20, 42)
	require.NoError(t, err)

	assert.Greater(t, res.Evaluations, 0)
	assert.Less(t, res.Cost, 0.05)
	assert.InDelta(t, 0.3, res.Params["temperature"], 0.2)
	for _, p := range bowlParams() {
		v := res.Params[p.Name]
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, p.Lower)
		assert.LessOrEqual(t, v, p.Upper)
	}
}

func TestResultConfig(t *testing.T) {
	base := config.DefaultConfig()
	res := &Result{Params: map[string]float64{"temperature": 0.9, "goal.weight": 1}}

	cfg := res.Config(base)
	assert.Equal(t, 0.9, cfg.Optimizer.Temperature)
	assert.Equal(t, 1.0, cfg.Critics.Goal.Weight)
	assert.Equal(t, config.DefaultConfig().Optimizer.Temperature, base.Optimizer.Temperature)
}

func TestTrackingObjective(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Optimizer.BatchSize = 100
	cfg.Optimizer.TimeSteps = 8
	cfg.Simulation.Duration = 1
	cfg.Scenario.Length = 1

	cost, err := TrackingObjective(1, 1)(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(cost))
	assert.Greater(t, cost, 0.0)

	cfg.Optimizer.BatchSize = 0
	_, err = TrackingObjective(1, 1)(context.Background(), cfg)
	assert.Error(t, err)
}
