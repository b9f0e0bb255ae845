package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/san-kum/mppic/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Optimizer.BatchSize = 200
	cfg.Optimizer.TimeSteps = 10
	cfg.Optimizer.Seed = 7
	cfg.Simulation.Duration = 3
	cfg.Scenario.Length = 1.5
	return cfg
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Optimizer.BatchSize = 0

	_, err := New(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, mppi.ErrInvalidConfig))
}

func TestSettings_DefaultsFrequencyToTick(t *testing.T) {
	exp, err := New(smallConfig(), nil)
	require.NoError(t, err)

	s := exp.Settings(3)
	assert.Equal(t, int64(3), s.Seed)
	assert.InDelta(t, 10.0, s.ControllerFrequency, 1e-9)
}

func TestRun_MakesProgress(t *testing.T) {
	exp, err := New(smallConfig(), nil)
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, res.Controls)

	assert.Greater(t, res.Metrics["progress"], 0.1)
	assert.Less(t, res.Metrics["tracking_error"], 0.3)
	for _, u := range res.Controls {
		assert.LessOrEqual(t, u[0], exp.Config().Optimizer.VLimit+1e-9)
		assert.GreaterOrEqual(t, u[0], -exp.Config().Optimizer.VLimit-1e-9)
	}
}

func TestRun_StopsAtGoal(t *testing.T) {
	cfg := smallConfig()
	cfg.Scenario.Length = 0.3
	cfg.Simulation.Duration = 10
	cfg.Simulation.GoalReached = 0.15

	exp, err := New(cfg, nil)
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Stopped)
	assert.Less(t, res.FinalState()[0], 10*0.5)
}

func TestRunEnsemble(t *testing.T) {
	cfg := smallConfig()
	cfg.Simulation.Runs = 3
	cfg.Simulation.Duration = 1

	exp, err := New(cfg, nil)
	require.NoError(t, err)

	results, err := exp.RunEnsemble(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	summary := Summarize(results)
	assert.Contains(t, summary, "tracking_error")
	assert.Contains(t, summary, "control_effort")
}

func TestBuild_SeedIsDeterministic(t *testing.T) {
	exp, err := New(smallConfig(), nil)
	require.NoError(t, err)

	run := func() []sim.Control {
		loop, err := exp.Build(11)
		require.NoError(t, err)
		cfg := exp.SimConfig()
		cfg.Duration = 0.5
		res, err := loop.Simulator.Run(context.Background(), exp.InitialState(), cfg)
		require.NoError(t, err)
		return res.Controls
	}
	assert.Equal(t, run(), run())
}

func TestMetadata(t *testing.T) {
	exp, err := New(smallConfig(), nil)
	require.NoError(t, err)

	meta := exp.Metadata(5)
	assert.Equal(t, "straight", meta.Scenario)
	assert.Equal(t, int64(5), meta.Seed)
	assert.Equal(t, exp.Config().Critics.Critics, meta.Critics)
	assert.Len(t, meta.Path, len(exp.Path()))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}
