package main

import (
	"fmt"
	"os"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/observability"
	"github.com/spf13/cobra"
)

var v = newViper()

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mppic",
		Short:         "MPPI path-following controller lab",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(v, cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".mppic", "data directory")
	pf.String("config", "", "config file path (yaml)")
	pf.String("preset", "", "use preset configuration")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")
	pf.String("log-file", "", "rotated JSON log file")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newExportJSONCmd(),
		newSVGCmd(),
		newLiveCmd(),
		newBenchCmd(),
		newTuneCmd(),
		newPresetsCmd(),
		newConfigCmd(),
		newCANSendCmd(),
		newCampaignCmd(),
		newSweepCmd(),
	)
	return rootCmd
}

// addLoopFlags registers the flags shared by every command that runs a closed loop.
func addLoopFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int64("seed", 0, "noise seed")
	f.Int("batch", mppiDefaults.BatchSize, "sampled trajectories per cycle")
	f.Int("steps", mppiDefaults.TimeSteps, "horizon steps")
	f.Float64("temperature", mppiDefaults.Temperature, "softmax temperature")
	f.Int("workers", 1, "rollout workers per cycle")
	f.String("model", config.DefaultMotionModel, "motion model (naive, accel_limited, first_order)")
	f.Float64("dt", config.DefaultDt, "simulation timestep")
	f.Float64("time", config.DefaultDuration, "duration")
	f.Int("runs", config.DefaultRuns, "number of seeds to run")
	f.String("integrator", config.DefaultIntegrator, "plant integrator (euler, rk4)")
}

var mppiDefaults = config.DefaultConfig().Optimizer

// loadConfig resolves the effective config and starts the logger on stderr.
func loadConfig() (*config.Config, error) {
	cfg, err := resolveConfig(v)
	if err != nil {
		return nil, err
	}
	observability.InitializeLogger(cfg.Logger)
	return cfg, nil
}

func printMetrics(metrics map[string]float64) {
	for _, name := range []string{"tracking_error", "progress", "control_effort"} {
		if val, ok := metrics[name]; ok {
			fmt.Printf("  %-15s %.4f\n", name, val)
		}
	}
}
