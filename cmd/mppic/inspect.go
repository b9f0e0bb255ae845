package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/mppic/internal/storage"
	"github.com/san-kum/mppic/internal/viz"
	"github.com/spf13/cobra"
)

func openStore() *storage.Store {
	return storage.New(v.GetString("data"))
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := openStore().List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCENARIO\tMODEL\tSEED\tSTEPS\tTRACKING\tPROGRESS\tTIMESTAMP")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%.2f\t%s\n",
					r.ID, r.Scenario, r.MotionModel, r.Seed, r.StepsTaken,
					r.Metrics["tracking_error"], r.Metrics["progress"],
					r.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := openStore()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			result, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s, seed %d)\n\n", meta.ID, meta.Scenario, meta.Seed)
			fmt.Println(viz.PathView(meta.Path, result.States, width, height))
			if chart := viz.PlotVelocities(result.States, width, 10); chart != "" {
				fmt.Println(chart)
			}
			fmt.Println()
			printMetrics(meta.Metrics)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "plot width in characters")
	cmd.Flags().IntVar(&height, "height", 24, "path view height in characters")
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := openStore()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			result, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}
			result.Metrics = meta.Metrics

			if out == "" {
				return storage.ExportJSON(os.Stdout, *meta, result)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := storage.ExportJSON(f, *meta, result); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newSVGCmd() *cobra.Command {
	var (
		out     string
		braille bool
	)

	cmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := openStore()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			result, err := st.LoadResult(args[0])
			if err != nil {
				return err
			}

			var svg string
			if braille {
				svg = viz.CanvasToSVG(viz.PathCanvas(meta.Path, result.States, 80, 24), 4)
			} else {
				svg = viz.RunToSVG(meta.Path, result.States, viz.DefaultSVGOptions())
			}

			if out == "" {
				out = meta.ID + ".svg"
			}
			if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default <run_id>.svg)")
	cmd.Flags().BoolVar(&braille, "braille", false, "render the terminal braille view instead of vectors")
	return cmd
}
