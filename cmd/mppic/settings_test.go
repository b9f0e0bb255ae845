package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/mppic/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("preset", "", "")
	cmd.Flags().String("config", "", "")
	addLoopFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	vp := newViper()
	require.NoError(t, bindFlags(vp, testCmd(t)))

	cfg, err := resolveConfig(vp)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	vp := newViper()
	require.NoError(t, bindFlags(vp, testCmd(t, "--temperature=0.8", "--batch=123", "--runs=4", "--time=5")))

	cfg, err := resolveConfig(vp)
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Optimizer.Temperature)
	assert.Equal(t, 123, cfg.Optimizer.BatchSize)
	assert.Equal(t, 4, cfg.Simulation.Runs)
	assert.Equal(t, 5.0, cfg.Simulation.Duration)
	assert.Equal(t, config.DefaultConfig().Optimizer.TimeSteps, cfg.Optimizer.TimeSteps)
}

func TestResolveConfig_Env(t *testing.T) {
	t.Setenv("MPPIC_OPTIMIZER_TEMPERATURE", "0.6")
	t.Setenv("MPPIC_SIMULATION_INTEGRATOR", "euler")

	vp := newViper()
	require.NoError(t, bindFlags(vp, testCmd(t)))

	cfg, err := resolveConfig(vp)
	require.NoError(t, err)
	assert.Equal(t, 0.6, cfg.Optimizer.Temperature)
	assert.Equal(t, "euler", cfg.Simulation.Integrator)
}

func TestResolveConfig_PresetThenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mppic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  duration: 7\n"), 0644))

	vp := newViper()
	require.NoError(t, bindFlags(vp, testCmd(t, "--preset=corner", "--config="+path)))

	cfg, err := resolveConfig(vp)
	require.NoError(t, err)
	assert.Equal(t, "corner", cfg.Scenario.Name)
	assert.Equal(t, 7.0, cfg.Simulation.Duration)
}

func TestResolveConfig_Errors(t *testing.T) {
	vp := newViper()
	require.NoError(t, bindFlags(vp, testCmd(t, "--preset=nope")))
	_, err := resolveConfig(vp)
	assert.ErrorContains(t, err, "unknown preset")

	vp = newViper()
	require.NoError(t, bindFlags(vp, testCmd(t, "--batch=0")))
	_, err = resolveConfig(vp)
	assert.Error(t, err)
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "list", "plot", "export-json", "svg", "live", "bench", "tune", "presets", "config", "can-send", "campaign", "sweep"} {
		assert.Contains(t, names, want)
	}
}
