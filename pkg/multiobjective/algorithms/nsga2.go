package algorithms

import (
	"context"
	"fmt"
	"math/rand/v2"

	"k8s.io/klog/v2"

	configv1alpha1 "github.com/intob/moea/apis/config/v1alpha1"
	"github.com/intob/moea/pkg/multiobjective/framework"
)

const (
	Name = "NSGA-II"
)

// NSGA2Config holds the NSGA-II parameters
type NSGA2Config struct {
	PopulationSize       int
	MaxGenerations       int
	CrossoverProbability float64
	MutationProbability  float64
	// MutationScale bounds a mutation step to a fraction of the variable range
	MutationScale float64
	// SelectionPressure is the chance the better tournament contestant is picked
	SelectionPressure float64
	// Crossover defaults to SBX over the problem bounds when nil
	Crossover framework.CrossoverFunc
}

// NewNSGA2Config converts defaulted NSGA2Args into a config for problem.
func NewNSGA2Config(args *configv1alpha1.NSGA2Args, problem framework.Problem) NSGA2Config {
	config := NSGA2Config{
		PopulationSize:       int(*args.PopulationSize),
		MaxGenerations:       int(*args.MaxGenerations),
		CrossoverProbability: *args.CrossoverProbability,
		MutationProbability:  *args.MutationProbability,
		MutationScale:        *args.MutationScale,
		SelectionPressure:    *args.SelectionPressure,
	}
	switch args.Crossover {
	case configv1alpha1.CrossoverInterpolate:
		config.Crossover = framework.Crossover
	default:
		config.Crossover = framework.SBXCrossover(problem.Bounds())
	}
	return config
}

// Individual is a member of an NSGA-II population
type Individual struct {
	*framework.Specimen
	Rank     int
	Distance float64
}

// Callback observes the population before the first generation and after
// every generation.
type Callback func(step int, population []*Individual)

// NSGAII runs the NSGA-II algorithm on a single problem
type NSGAII struct {
	config     NSGA2Config
	problem    framework.Problem
	bounds     []framework.Bounds
	maxChanges []float64
	eval       framework.Evaluator
	rng        *rand.Rand
}

// NewNSGAII creates a new instance of NSGA-II with given parameters
func NewNSGAII(config NSGA2Config, problem framework.Problem, rng *rand.Rand) (*NSGAII, error) {
	if config.PopulationSize < 1 {
		return nil, fmt.Errorf("population size must be positive, got %d", config.PopulationSize)
	}
	if config.MaxGenerations < 0 {
		return nil, fmt.Errorf("max generations must not be negative, got %d", config.MaxGenerations)
	}
	bounds := problem.Bounds()
	if len(bounds) == 0 {
		return nil, fmt.Errorf("problem %s has no decision variables", problem.Name())
	}
	for i, b := range bounds {
		if b.H < b.L {
			return nil, fmt.Errorf("problem %s: malformed bounds %v for variable %d", problem.Name(), b, i)
		}
	}
	if config.Crossover == nil {
		config.Crossover = framework.SBXCrossover(bounds)
	}
	return &NSGAII{
		config:     config,
		problem:    problem,
		bounds:     bounds,
		maxChanges: framework.MaxChanges(bounds, config.MutationScale),
		eval:       framework.Compose(problem.ObjectiveFuncs()...),
		rng:        rng,
	}, nil
}

// Config returns the effective configuration
func (n *NSGAII) Config() NSGA2Config {
	return n.config
}

// Initialize creates an initial random population of individuals
func (n *NSGAII) Initialize() []*Individual {
	specimens := framework.RandomPopulation(n.rng, n.config.PopulationSize, n.bounds)
	population := make([]*Individual, len(specimens))
	for i, s := range specimens {
		s.Evaluate(n.eval)
		population[i] = &Individual{Specimen: s}
	}
	return population
}

// Run executes the NSGA-II algorithm. It stops early, returning the current
// population and the context error, when ctx is cancelled between generations.
func (n *NSGAII) Run(ctx context.Context, callback Callback) ([]*Individual, error) {
	logger := klog.FromContext(ctx)

	population := n.Survivors(n.Initialize())
	if callback != nil {
		callback(0, population)
	}

	for gen := 0; gen < n.config.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return population, err
		}

		offspring := n.Offspring(population)
		combined := make([]*Individual, 0, len(population)+len(offspring))
		combined = append(combined, population...)
		combined = append(combined, offspring...)
		population = n.Survivors(combined)

		logger.V(5).Info("Generation finished", "algorithm", Name, "problem", n.problem.Name(), "generation", gen+1, "paretoFrontSize", countRank(population, 0))
		if callback != nil {
			callback(gen+1, population)
		}
	}

	return population, nil
}

// Offspring breeds a new generation from parents picked by binary tournaments
// on (rank, crowding distance).
func (n *NSGAII) Offspring(population []*Individual) []*Individual {
	parents := framework.Select(n.rng, population, worse, n.config.PopulationSize+n.config.PopulationSize%2, n.config.SelectionPressure)
	offspring := make([]*Individual, 0, len(parents))
	for i := 0; i+1 < len(parents); i += 2 {
		c1, c2 := parents[i].Specimen, parents[i+1].Specimen
		if framework.TossCoin(n.rng, n.config.CrossoverProbability) {
			c1, c2 = n.config.Crossover(n.rng, c1, c2)
		}
		for _, c := range []*framework.Specimen{c1, c2} {
			child := framework.Mutation(n.rng, c, n.config.MutationProbability, n.bounds, n.maxChanges)
			child.Evaluate(n.eval)
			offspring = append(offspring, &Individual{Specimen: child})
		}
	}
	return offspring[:min(len(offspring), n.config.PopulationSize)]
}

// Survivors ranks individuals and keeps at most PopulationSize of them:
// whole fronts while they fit, then the most isolated members of the
// first front that does not.
func (n *NSGAII) Survivors(individuals []*Individual) []*Individual {
	fronts, _ := framework.NonDominatedSort(individuals, framework.Dominates)
	next := make([]*Individual, 0, n.config.PopulationSize)
	for rank, front := range fronts {
		distance := framework.CrowdingDistance(front, nil)
		for i, ind := range front {
			ind.Rank = rank
			ind.Distance = distance[i]
		}
		if len(next)+len(front) <= n.config.PopulationSize {
			next = append(next, front...)
			continue
		}
		next = append(next, framework.SelectByCrowding(front, distance, n.config.PopulationSize-len(next))...)
		break
	}
	return next
}

// worse reports whether a does not beat b in a crowded comparison
func worse(a, b *Individual) bool {
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	return a.Distance <= b.Distance
}

// ParetoFront returns the objective values of the rank 0 individuals
func ParetoFront(population []*Individual) []framework.ObjectiveSpacePoint {
	var front []framework.ObjectiveSpacePoint
	for _, ind := range population {
		if ind.Rank == 0 {
			front = append(front, ind.Value())
		}
	}
	return front
}

func countRank(population []*Individual, rank int) int {
	count := 0
	for _, ind := range population {
		if ind.Rank == rank {
			count++
		}
	}
	return count
}
