package app

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/framework"
	"github.com/intob/moea/pkg/multiobjective/util"
)

type hypervolumeOptions struct {
	Ref     []float64
	Problem string
	Vars    int
}

func newHypervolumeCommand() *cobra.Command {
	o := &hypervolumeOptions{Vars: benchmarks.DefaultNumVars}
	cmd := &cobra.Command{
		Use:   "hypervolume FILE...",
		Short: "Compute the hypervolume of dumped objective values",
		Long: `Compute the hypervolume of every file written with --dump-dir.
The reference point is given with --ref or taken from the objective ranges of --problem.
With --problem the ratio to the volume of its true front is printed as well.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			ref := framework.ObjectiveSpacePoint(o.Ref)
			volume := 0.0
			if o.Problem != "" {
				problem, err := benchmarks.Get(o.Problem, o.Vars)
				if err != nil {
					return err
				}
				if len(ref) == 0 {
					ref = framework.ReferencePoint(problem.Ranges())
				}
				volume = benchmarks.FrontVolume(problem, frontSamples)
			}
			if len(ref) == 0 {
				return fmt.Errorf("either --ref or --problem is required")
			}

			out := cmd.OutOrStdout()
			for _, file := range files {
				points, err := util.ReadPoints(file)
				if err != nil {
					return err
				}
				if len(points) > 0 && len(points[0]) != len(ref) {
					return fmt.Errorf("%s: points have %d objectives, the reference point has %d", file, len(points[0]), len(ref))
				}
				hv := framework.Hypervolume(ref, points)
				fmt.Fprintf(out, "%s\t%s", file, humanize.FtoaWithDigits(hv, 6))
				if volume > 0 {
					fmt.Fprintf(out, "\t%s", humanize.FtoaWithDigits(framework.HypervolumeRatio(ref, points, volume), 4))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.Float64SliceVar(&o.Ref, "ref", o.Ref, "Reference point, e.g. 1,1.")
	fs.StringVar(&o.Problem, "problem", o.Problem, "Benchmark problem providing the reference point and the true front.")
	fs.IntVar(&o.Vars, "vars", o.Vars, "Number of decision variables of --problem.")
	return cmd
}
