package multiobjective

import (
	"context"
	"fmt"
	"math/rand/v2"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/klog/v2"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
	"github.com/intob/moea/pkg/multiobjective/algorithms"
	"github.com/intob/moea/pkg/multiobjective/emas"
	"github.com/intob/moea/pkg/multiobjective/framework"
)

// Solution is a member of the final non-dominated set of a run.
type Solution struct {
	Variables  []float64
	Objectives framework.ObjectiveSpacePoint
}

// Value implements framework.Valued.
func (s Solution) Value() framework.ObjectiveSpacePoint {
	return s.Objectives
}

// Observer receives the objective values of the whole population after
// step steps. Step 0 is the initial population.
type Observer func(step int, values []framework.ObjectiveSpacePoint)

// Optimizer is a multi-objective algorithm bound to a problem.
type Optimizer interface {
	Name() string
	// Optimize runs steps iterations and returns the non-dominated solutions
	// of the final population. A cancelled run returns the solutions found
	// so far together with the context error.
	Optimize(ctx context.Context, steps int, observe Observer) ([]Solution, error)
}

// New creates the Optimizer configured by obj, which must be *EMASArgs or
// *NSGA2Args. obj is not modified.
func New(ctx context.Context, obj runtime.Object, problem framework.Problem, rng *rand.Rand) (Optimizer, error) {
	logger := klog.FromContext(ctx)

	switch args := obj.(type) {
	case *configv1alpha1.EMASArgs:
		params, err := emas.NewParams(args)
		if err != nil {
			return nil, err
		}
		world, err := emas.NewWorld(params, problem, rng)
		if err != nil {
			return nil, err
		}
		logger.V(5).Info("Creating optimizer", "algorithm", emas.Name, "problem", problem.Name(), "parameterSet", args.ParameterSet)
		return &emasOptimizer{world: world}, nil

	case *configv1alpha1.NSGA2Args:
		args = args.DeepCopy()
		configv1alpha1.SetDefaults_NSGA2Args(args)
		if err := configv1alpha1.ValidateNSGA2Args(field.NewPath("nsga2"), args); err != nil {
			return nil, err
		}
		config := algorithms.NewNSGA2Config(args, problem)
		// fail on a bad problem now rather than on the first run
		if _, err := algorithms.NewNSGAII(config, problem, rng); err != nil {
			return nil, err
		}
		logger.V(5).Info("Creating optimizer", "algorithm", algorithms.Name, "problem", problem.Name(), "populationSize", config.PopulationSize)
		return &nsga2Optimizer{config: config, problem: problem, rng: rng}, nil

	default:
		return nil, fmt.Errorf("want args to be of type EMASArgs or NSGA2Args, got %T", obj)
	}
}

type emasOptimizer struct {
	world *emas.World
}

func (o *emasOptimizer) Name() string {
	return emas.Name
}

func (o *emasOptimizer) Optimize(ctx context.Context, steps int, observe Observer) ([]Solution, error) {
	var callback emas.Callback
	if observe != nil {
		callback = func(step int, agents []*emas.Agent) {
			observe(step, framework.Values(agents))
		}
	}
	agents, err := o.world.Optimize(ctx, steps, callback)

	front := emas.ParetoFront(agents)
	solutions := make([]Solution, len(front))
	for i, a := range front {
		solutions[i] = Solution{Variables: a.Variables(), Objectives: a.Value()}
	}
	return solutions, err
}

type nsga2Optimizer struct {
	config  algorithms.NSGA2Config
	problem framework.Problem
	rng     *rand.Rand
}

func (o *nsga2Optimizer) Name() string {
	return algorithms.Name
}

func (o *nsga2Optimizer) Optimize(ctx context.Context, steps int, observe Observer) ([]Solution, error) {
	config := o.config
	config.MaxGenerations = steps
	nsga, err := algorithms.NewNSGAII(config, o.problem, o.rng)
	if err != nil {
		return nil, err
	}

	var callback algorithms.Callback
	if observe != nil {
		callback = func(step int, population []*algorithms.Individual) {
			observe(step, framework.Values(population))
		}
	}
	population, err := nsga.Run(ctx, callback)

	var solutions []Solution
	for _, ind := range population {
		if ind.Rank == 0 {
			solutions = append(solutions, Solution{Variables: ind.Variables(), Objectives: ind.Value()})
		}
	}
	return solutions, err
}
