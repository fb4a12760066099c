package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/emas"
	"github.com/intob/moea/pkg/multiobjective/framework"
	"github.com/intob/moea/pkg/multiobjective/report"
)

type emasOptions struct {
	*Options

	ParamSet  string
	Overrides []string
}

func newEMASCommand() *cobra.Command {
	o := &emasOptions{Options: NewOptions()}
	cmd := &cobra.Command{
		Use:   "emas",
		Short: "Run the evolutionary multi-agent system with elite islands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return runEMAS(cmd.Context(), o, cmd.OutOrStdout())
		},
	}

	fs := cmd.Flags()
	o.AddFlags(fs)
	fs.StringVar(&o.ParamSet, "param-set", o.ParamSet, fmt.Sprintf("Named parameter set, one of %s.", strings.Join(configv1alpha1.ParameterSetNames(), ", ")))
	fs.StringArrayVar(&o.Overrides, "set", o.Overrides, fmt.Sprintf("Parameter override as key=value, may be repeated. Keys: %s.", strings.Join(configv1alpha1.OverrideKeys(), ", ")))
	return cmd
}

// emasArgs merges the config file, the parameter set and the overrides.
func (o *emasOptions) emasArgs() (*configv1alpha1.EMASArgs, error) {
	args, err := configv1alpha1.LoadEMASArgs(o.Config)
	if err != nil {
		return nil, err
	}
	if o.ParamSet != "" {
		args.ParameterSet = o.ParamSet
	}
	overrides, err := configv1alpha1.ParseOverrides(o.Overrides)
	if err != nil {
		return nil, err
	}
	if err := configv1alpha1.ApplyOverrides(args, overrides); err != nil {
		return nil, err
	}
	if o.Seed != 0 {
		args.Seed = ptr.To(o.Seed)
	}
	return args, nil
}

func runEMAS(ctx context.Context, o *emasOptions, out io.Writer) error {
	logger := klog.FromContext(ctx).WithName("emas")

	problem, err := benchmarks.Get(o.Problem, o.Vars)
	if err != nil {
		return err
	}
	args, err := o.emasArgs()
	if err != nil {
		return err
	}
	params, err := emas.NewParams(args)
	if err != nil {
		return err
	}

	effective := args.DeepCopy()
	configv1alpha1.SetDefaults_EMASArgs(effective)
	rng, seed := newRand(*effective.Seed)
	effective.Seed = ptr.To(seed)

	cache := framework.NewCachedEvaluator(framework.Compose(problem.ObjectiveFuncs()...))
	world, err := emas.NewWorld(params, problem, rng, emas.WithEvaluator(cache.Evaluator()))
	if err != nil {
		return err
	}

	r, err := newRunner(o.Options, logger, out, problem, emas.Name)
	if err != nil {
		return err
	}
	defer r.close()
	err = r.start(configv1alpha1.OptimizationRunSpec{
		Problem:   problem.Name(),
		Algorithm: "emas",
		Steps:     o.Steps,
		EMAS:      effective,
	})
	if err != nil {
		return err
	}

	stats := emas.NewStats(r.ref, r.volume)
	agents, runErr := world.Optimize(logr.NewContext(ctx, logger), o.Steps, func(step int, _ []*emas.Agent) {
		if !o.sampled(step, o.Steps) {
			return
		}
		sample := world.SampleStats()
		stats.Update(sample)
		r.observe(statsRow(stats, sample), sample.Values())
	})

	front := emas.ParetoFront(agents)
	solutions := make([]configv1alpha1.OptimizationSolution, len(front))
	for i, a := range front {
		solutions[i] = configv1alpha1.OptimizationSolution{
			Variables:  a.Variables(),
			Objectives: a.Value(),
			Energy:     a.Energy(),
			Elite:      a.Elite(),
		}
	}
	logger.V(2).Info("Evaluator cache", "hits", cache.Hits(), "misses", cache.Misses())
	return r.finish(runErr, solutions, cache.Misses())
}

// statsRow converts the latest figures of stats into a report row.
func statsRow(stats *emas.Stats, sample emas.Sample) report.Sample {
	n := len(stats.Time) - 1
	row := report.Sample{
		Step:             sample.Step,
		Energy:           stats.Total.Energy[n],
		FreeEnergy:       stats.Total.FreeEnergy[n],
		Reproductions:    stats.Total.Reproductions[n],
		Deaths:           stats.Total.Deaths[n],
		Encounters:       stats.Total.Encounters[n],
		Hypervolume:      stats.Hypervolume[n],
		MaxHypervolume:   stats.MaxHypervolume[n],
		HypervolumeRatio: stats.HypervolumeRatio[n],
	}
	for _, island := range sample.Islands {
		if island.Tier == emas.Elite {
			row.Elites += island.Population
		} else {
			row.Population += island.Population
		}
	}
	return row
}
