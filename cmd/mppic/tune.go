package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"github.com/san-kum/mppic/internal/config"
	"github.com/san-kum/mppic/internal/observability"
	"github.com/san-kum/mppic/internal/tune"
	"github.com/spf13/cobra"
)

func newTuneCmd() *cobra.Command {
	var (
		iterations int
		population int
		penalty    float64
		workers    int
		out        string
	)

	cmd := &cobra.Command{
		Use:       "tune [grid|mayfly]",
		Short:     "tune temperature and critic weights on the configured scenario",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"grid", "mayfly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(cmd.ValidArgs, args[0]) {
				return fmt.Errorf("unknown search: %s (available: %v)", args[0], cmd.ValidArgs)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tuner, err := tune.New(cfg, tune.DefaultParams(), tune.TrackingObjective(workers, penalty), observability.GetLogger().Named("tune"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			var res *tune.Result
			if args[0] == "grid" {
				res, err = tuner.Grid(ctx)
			} else {
				res, err = tuner.Mayfly(ctx, iterations, population, cfg.Optimizer.Seed)
			}
			if err != nil {
				return err
			}

			fmt.Printf("best cost %.4f after %d evaluations\n", res.Cost, res.Evaluations)
			for _, p := range tune.DefaultParams() {
				fmt.Printf("  %-20s %.4f\n", p.Name, res.Params[p.Name])
			}

			if out != "" {
				if err := config.Save(out, res.Config(cfg)); err != nil {
					return err
				}
				fmt.Printf("tuned config written to %s\n", out)
			}
			return nil
		},
	}

	addLoopFlags(cmd)
	cmd.Flags().IntVar(&iterations, "iterations", 20, "mayfly iterations")
	cmd.Flags().IntVar(&population, "population", tune.MinPopulation, "mayfly population")
	cmd.Flags().Float64Var(&penalty, "progress-penalty", 1, "cost per unreached fraction of the path")
	cmd.Flags().IntVar(&workers, "ensemble-workers", 0, "concurrent runs per candidate (0 = all CPUs)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the tuned config to this file")
	return cmd
}
