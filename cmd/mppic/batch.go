package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/san-kum/mppic/internal/automation"
	"github.com/san-kum/mppic/internal/observability"
	"github.com/spf13/cobra"
)

func newCampaignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "campaign [file]",
		Short: "run and store every step of a campaign file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(v)
			if err != nil {
				return err
			}
			observability.InitializeLogger(cfg.Logger)

			c, err := automation.LoadCampaign(args[0])
			if err != nil {
				return err
			}
			st := openStore()
			if err := st.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunCampaign(ctx, c, st, observability.GetLogger())
			for i, r := range results {
				fmt.Printf("step %d: %s tracking=%.4f progress=%.2f\n",
					i+1, r.RunID, r.Result.Metrics["tracking_error"], r.Result.Metrics["progress"])
			}
			return err
		},
	}
}

func newSweepCmd() *cobra.Command {
	var sweep automation.Sweep

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and report the closed-loop metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			results, err := automation.RunSweep(ctx, cfg, sweep, observability.GetLogger())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tTRACKING\tPROGRESS\tEFFORT\tGOAL\n", sweep.Param)
			for _, r := range results {
				fmt.Fprintf(w, "%.4f\t%.4f\t%.2f\t%.3f\t%v\n", r.Value,
					r.Metrics["tracking_error"], r.Metrics["progress"], r.Metrics["control_effort"], r.Stopped)
			}
			return w.Flush()
		},
	}

	addLoopFlags(cmd)
	cmd.Flags().StringVar(&sweep.Param, "param", "temperature", "parameter to vary, e.g. path_follow.weight")
	cmd.Flags().Float64Var(&sweep.Min, "min", 0.1, "first value")
	cmd.Flags().Float64Var(&sweep.Max, "max", 1.0, "last value")
	cmd.Flags().IntVar(&sweep.NumSteps, "points", 5, "number of values")
	return cmd
}
