package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/mppic/internal/critics"
	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var cycles int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark optimizer cycles for several batch sizes and worker counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, err := cfg.Scenario.Path()
			if err != nil {
				return err
			}
			model, err := models.New(cfg.Optimizer.MotionModel, cfg.Optimizer.ModelParams, cfg.Optimizer.ModelDt)
			if err != nil {
				return err
			}

			fmt.Printf("benchmarking %d cycles per setting (time_steps=%d, critics=%v)\n\n",
				cycles, cfg.Optimizer.TimeSteps, cfg.Critics.Critics)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BATCH\tWORKERS\tTOTAL\tPER CYCLE\tHZ")

			ctx := context.Background()
			for _, batch := range []int{200, 400, 1000, 2000} {
				for _, workers := range []int{1, 4} {
					s := cfg.Optimizer.Settings
					s.BatchSize = batch
					s.Workers = workers

					manager, err := critics.NewManager(cfg.Critics, nil)
					if err != nil {
						return err
					}
					opt, err := mppi.New(s, model, manager)
					if err != nil {
						return err
					}

					start := time.Now()
					for i := 0; i < cycles; i++ {
						if _, err := opt.EvalControl(ctx, cfg.Scenario.Start, mppi.Twist{}, path); err != nil {
							return err
						}
					}
					elapsed := time.Since(start)
					per := elapsed / time.Duration(cycles)

					fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%.1f\n", batch, workers, elapsed, per, 1/per.Seconds())
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&cycles, "cycles", 50, "control cycles per setting")
	return cmd
}
