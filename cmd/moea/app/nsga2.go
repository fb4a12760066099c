package app

import (
	"context"
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
	"github.com/intob/moea/pkg/multiobjective/algorithms"
	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/framework"
	"github.com/intob/moea/pkg/multiobjective/report"
)

type nsga2Options struct {
	*Options

	// generationsSet is true when --steps overrides the generation count
	generationsSet bool
}

func newNSGA2Command() *cobra.Command {
	o := &nsga2Options{Options: NewOptions()}
	cmd := &cobra.Command{
		Use:   "nsga2",
		Short: "Run NSGA-II",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			o.generationsSet = cmd.Flags().Changed("steps")
			return runNSGA2(cmd.Context(), o, cmd.OutOrStdout())
		},
	}
	o.AddFlags(cmd.Flags())
	return cmd
}

func runNSGA2(ctx context.Context, o *nsga2Options, out io.Writer) error {
	logger := klog.FromContext(ctx).WithName("nsga2")

	problem, err := benchmarks.Get(o.Problem, o.Vars)
	if err != nil {
		return err
	}
	args, err := configv1alpha1.LoadNSGA2Args(o.Config)
	if err != nil {
		return err
	}
	if o.generationsSet {
		args.MaxGenerations = ptr.To(int32(o.Steps))
	}
	if o.Seed != 0 {
		args.Seed = ptr.To(o.Seed)
	}
	configv1alpha1.SetDefaults_NSGA2Args(args)
	if err := configv1alpha1.ValidateNSGA2Args(field.NewPath("nsga2"), args); err != nil {
		return err
	}
	rng, seed := newRand(*args.Seed)
	args.Seed = ptr.To(seed)

	nsga, err := algorithms.NewNSGAII(algorithms.NewNSGA2Config(args, problem), problem, rng)
	if err != nil {
		return err
	}

	r, err := newRunner(o.Options, logger, out, problem, algorithms.Name)
	if err != nil {
		return err
	}
	defer r.close()
	generations := nsga.Config().MaxGenerations
	err = r.start(configv1alpha1.OptimizationRunSpec{
		Problem:   problem.Name(),
		Algorithm: "nsga2",
		Steps:     generations,
		NSGA2:     args,
	})
	if err != nil {
		return err
	}

	// NSGA-II has no statistics of its own, the running maximum is kept here
	best := 0.0
	population, runErr := nsga.Run(logr.NewContext(ctx, logger), func(step int, population []*algorithms.Individual) {
		if !o.sampled(step, generations) {
			return
		}
		values := framework.Values(population)
		hv := framework.Hypervolume(r.ref, values)
		best = max(best, hv)
		r.observe(report.Sample{
			Step:             step,
			Population:       len(population),
			Hypervolume:      hv,
			MaxHypervolume:   best,
			HypervolumeRatio: r.ratio(hv),
		}, values)
	})

	var solutions []configv1alpha1.OptimizationSolution
	for _, ind := range population {
		if ind.Rank != 0 {
			continue
		}
		solutions = append(solutions, configv1alpha1.OptimizationSolution{
			Rank:       ind.Rank,
			Variables:  ind.Variables(),
			Objectives: ind.Value(),
		})
	}
	evaluations := int64(nsga.Config().PopulationSize) * int64(generations+1)
	return r.finish(runErr, solutions, evaluations)
}
