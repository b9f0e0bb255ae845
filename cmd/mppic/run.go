package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/mppic/internal/canbus"
	"github.com/san-kum/mppic/internal/experiment"
	"github.com/san-kum/mppic/internal/observability"
	"github.com/san-kum/mppic/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	var (
		canIface string
		canID    uint32
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the closed loop on the configured scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := observability.GetLogger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			exp, err := experiment.New(cfg, logger)
			if err != nil {
				return err
			}

			if cfg.Simulation.Runs > 1 {
				return runEnsemble(ctx, exp)
			}

			loop, err := exp.Build(cfg.Optimizer.Seed)
			if err != nil {
				return err
			}
			if canIface != "" {
				w, err := canbus.DialSocketCAN(ctx, canIface)
				if err != nil {
					return err
				}
				defer w.Close()
				loop.Controller.SetSink(canbus.NewCommandSink(canID, w, logger.Named("canbus")))
			}

			fmt.Printf("running %s for %.1fs (dt=%.3f)...\n", cfg.Scenario.Name, cfg.Simulation.Duration, cfg.Simulation.Dt)
			start := time.Now()
			result, runErr := loop.Simulator.Run(ctx, exp.InitialState(), exp.SimConfig())
			if result == nil {
				return runErr
			}
			elapsed := time.Since(start)

			fmt.Printf("completed %d steps in %v", result.StepsTaken, elapsed)
			if result.Stopped {
				fmt.Print(" (goal reached)")
			}
			fmt.Println()
			printMetrics(result.Metrics)

			if !noSave {
				st := storage.New(v.GetString("data"))
				if err := st.Init(); err != nil {
					return err
				}
				meta := exp.Metadata(cfg.Optimizer.Seed)
				if runErr != nil {
					meta.Error = runErr.Error()
				}
				runID, err := st.Save(meta, result)
				if err != nil {
					return err
				}
				logger.Info("run saved", zap.String("run_id", runID))
				fmt.Printf("run saved: %s\n", runID)
			}
			return runErr
		},
	}

	addLoopFlags(cmd)
	cmd.Flags().StringVar(&canIface, "can", "", "also transmit commands on this SocketCAN interface")
	cmd.Flags().Uint32Var(&canID, "can-id", canbus.DefaultCommandID, "CAN identifier of command frames")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runEnsemble(ctx context.Context, exp *experiment.Experiment) error {
	cfg := exp.Config()
	fmt.Printf("running %d seeds of %s...\n", cfg.Simulation.Runs, cfg.Scenario.Name)

	start := time.Now()
	results, err := exp.RunEnsemble(ctx, 0)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d runs in %v\n", len(results), time.Since(start))
	fmt.Println("mean metrics:")
	printMetrics(experiment.Summarize(results))
	return nil
}
