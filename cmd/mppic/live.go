package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/mppic/internal/experiment"
	"github.com/san-kum/mppic/internal/observability"
	"github.com/san-kum/mppic/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func newLiveCmd() *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "live",
		Short: "run the closed loop with live visualization",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			// The terminal belongs to the UI; logs only go to the log file, if any.
			observability.Initialize(cfg.Logger, zapcore.AddSync(io.Discard))

			exp, err := experiment.New(cfg, observability.GetLogger())
			if err != nil {
				return err
			}
			loop, err := exp.Build(cfg.Optimizer.Seed)
			if err != nil {
				return err
			}

			m := viz.NewModel(context.Background(), loop, exp.Path(), exp.InitialState(), viz.LiveConfig{
				Name:        cfg.Scenario.Name,
				Dt:          cfg.Simulation.Dt,
				Duration:    cfg.Simulation.Duration,
				GoalReached: cfg.Simulation.GoalReached,
				Samples:     samples,
			})
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	addLoopFlags(cmd)
	cmd.Flags().IntVar(&samples, "samples", 20, "sampled trajectories drawn per frame")
	return cmd
}
