package emas

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

const Name = "EMAS"

// Callback observes all agents before the first step and after every step.
// It runs on the simulation goroutine with no lock held.
type Callback func(step int, agents []*Agent)

// Option configures a World.
type Option func(*World)

// WithBehavior replaces DefaultBehavior.
func WithBehavior(b Behavior) Option {
	return func(w *World) { w.behavior = b }
}

// WithReferees replaces DefaultReferees for ordinary encounters.
func WithReferees(referees ...Referee) Option {
	return func(w *World) { w.referees = referees }
}

// WithEvaluator replaces the composition of the problem objectives, e.g.
// with a cached one.
func WithEvaluator(eval framework.Evaluator) Option {
	return func(w *World) { w.eval = eval }
}

// World owns the islands, their environments and all agents of a run.
// Agents refer to their island by index.
type World struct {
	mu sync.RWMutex

	params     *Params
	problem    framework.Problem
	bounds     []framework.Bounds
	maxChanges []float64
	eval       framework.Evaluator
	rng        *rand.Rand
	behavior   Behavior
	referees   []Referee

	// ordinary islands first, elite islands after them
	islands []*Island
	envs    []*Environment
	nextID  uint64
	step    int
}

// NewWorld creates an empty world. Islands and agents are created by Reset
// or Optimize.
func NewWorld(params *Params, problem framework.Problem, rng *rand.Rand, opts ...Option) (*World, error) {
	if params == nil {
		return nil, fmt.Errorf("no parameters given")
	}
	if params.WorldSize < 1 {
		return nil, fmt.Errorf("world size must be positive, got %d", params.WorldSize)
	}
	if params.EliteIslands < 0 {
		return nil, fmt.Errorf("elite island count must not be negative, got %d", params.EliteIslands)
	}
	if params.InitEnergy <= 0 {
		return nil, fmt.Errorf("initial energy must be positive, got %v", params.InitEnergy)
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
	if len(problem.ObjectiveFuncs()) == 0 {
		return nil, fmt.Errorf("problem %s has no objectives", problem.Name())
	}

	p := *params
	w := &World{
		params:     &p,
		problem:    problem,
		bounds:     bounds,
		maxChanges: framework.MaxChanges(bounds, p.MutationScale),
		eval:       framework.Compose(problem.ObjectiveFuncs()...),
		rng:        rng,
		behavior:   DefaultBehavior{},
		referees:   DefaultReferees,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Params returns the parameters of the run. The result must not be modified.
func (w *World) Params() *Params {
	return w.params
}

// Problem returns the optimised problem.
func (w *World) Problem() framework.Problem {
	return w.problem
}

// Optimize creates the topology, seeds the ordinary islands and runs steps
// simulation steps. It returns all agents, ordinary ones first. When ctx is
// cancelled the run stops between steps and the context error is returned
// with the current agents.
func (w *World) Optimize(ctx context.Context, steps int, callback Callback) ([]*Agent, error) {
	logger := klog.FromContext(ctx)

	w.Reset()
	logger.V(4).Info("World created", "problem", w.problem.Name(), "islands", w.params.WorldSize, "eliteIslands", w.params.EliteIslands, "agents", w.params.WorldSize*w.params.PopulationSize)

	if callback != nil {
		callback(0, w.Agents())
	}
	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return w.Agents(), err
		}
		w.Step(ctx)
		if callback != nil {
			callback(step+1, w.Agents())
		}
	}
	return w.Agents(), nil
}

// Reset discards all agents, rebuilds the topology and seeds PopulationSize
// agents on every ordinary island.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.createWorld()
	w.populateWorld()
	w.step = 0
}

// Step runs one simulation step: replenishment, then one action of every
// agent alive at the start of the step, in random order.
func (w *World) Step(ctx context.Context) {
	logger := klog.FromContext(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	spawned := w.replenish()

	agents := w.agents()
	w.rng.Shuffle(len(agents), func(i, j int) { agents[i], agents[j] = agents[j], agents[i] })
	for _, a := range agents {
		// removed earlier in this step
		if a.dead {
			continue
		}
		w.act(a)
	}
	w.step++

	if loggerV := logger.V(5); loggerV.Enabled() {
		population, elites := 0, 0
		for _, island := range w.islands {
			if island.Tier == Elite {
				elites += island.Len()
			} else {
				population += island.Len()
			}
		}
		loggerV.Info("Step finished", "step", w.step, "spawned", spawned, "population", population, "elites", elites)
	}
}

func (w *World) createWorld() {
	p := w.params
	w.islands = make([]*Island, 0, p.WorldSize+p.EliteIslands)
	for i := 0; i < p.WorldSize; i++ {
		w.islands = append(w.islands, newIsland(i, Ordinary))
	}
	for i := 0; i < p.EliteIslands; i++ {
		w.islands = append(w.islands, newIsland(p.WorldSize+i, Elite))
	}

	for _, a := range w.islands {
		for _, b := range w.islands {
			switch {
			case a == b:
			case a.Tier == b.Tier:
				a.connect(b.ID, p.TravelCost)
			case a.Tier == Ordinary:
				a.connect(b.ID, p.EliteTravelCost)
			case p.EliteBidirectional:
				a.connect(b.ID, p.EliteTravelCost)
			}
		}
	}

	w.envs = make([]*Environment, len(w.islands))
	for i, island := range w.islands {
		w.envs[i] = newEnvironment(w.params, island)
	}
}

func (w *World) populateWorld() {
	for _, island := range w.islands {
		if island.Tier != Ordinary {
			continue
		}
		for range w.params.PopulationSize {
			a := w.newAgent(framework.NewSpecimen(framework.RandomVector(w.rng, w.bounds)), island.ID)
			a.energy = w.params.InitEnergy
			island.add(a)
		}
	}
}

func (w *World) newAgent(s *framework.Specimen, island int) *Agent {
	s.Evaluate(w.eval)
	w.nextID++
	return &Agent{
		ID:       w.nextID,
		Specimen: s,
		env:      island,
	}
}

// replenish turns free energy of every island into new agents, each paid
// with exactly InitEnergy, placed on random ordinary islands.
func (w *World) replenish() int {
	spawned := 0
	for _, island := range w.islands {
		for island.pool >= w.params.InitEnergy {
			island.pool -= w.params.InitEnergy
			dest := w.islands[w.rng.IntN(w.params.WorldSize)]
			a := w.newAgent(framework.NewSpecimen(framework.RandomVector(w.rng, w.bounds)), dest.ID)
			a.energy = w.params.InitEnergy
			dest.add(a)
			spawned++
		}
	}
	return spawned
}

func (w *World) act(a *Agent) {
	env := w.envs[a.env]
	if a.elite {
		w.fight(a)
		return
	}
	if env.mustDie(a) {
		env.die(a)
		return
	}
	if w.promote(a) {
		return
	}
	if framework.TossCoin(w.rng, w.params.MigrationFirstProbability) {
		if w.migrate(a) || w.reproduce(a) {
			return
		}
	} else if w.reproduce(a) || w.migrate(a) {
		return
	}
	w.fight(a)
}

// promote moves a successful and unusually isolated agent to an elite
// island. The agent stays ordinary when it cannot afford any elite island.
func (w *World) promote(a *Agent) bool {
	if w.params.EliteIslands == 0 || a.wins < w.params.EliteThreshold {
		return false
	}
	if a.Crowding() <= w.averageCrowding(w.islands[a.env]) {
		return false
	}
	a.elite = true
	if w.travel(a, Elite) {
		return true
	}
	a.elite = false
	return false
}

func (w *World) averageCrowding(island *Island) float64 {
	if island.Len() == 0 {
		return 0
	}
	crowding := make([]float64, island.Len())
	for i, r := range island.residents {
		crowding[i] = r.Crowding()
	}
	return stat.Mean(crowding, nil)
}

func (w *World) migrate(a *Agent) bool {
	return w.travel(a, Ordinary)
}

// travel moves a to a random neighbour of the given tier it can afford while
// keeping TravelThreshold. The cost is dissipated into the source island.
func (w *World) travel(a *Agent, tier Tier) bool {
	env := w.envs[a.env]
	if !env.canTravel(a) {
		return false
	}
	var candidates []int
	for _, to := range env.island.order {
		if w.islands[to].Tier == tier {
			candidates = append(candidates, to)
		}
	}
	w.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for _, to := range candidates {
		cost := env.island.costs[to]
		if a.energy >= w.params.TravelThreshold+cost {
			w.move(a, to, cost)
			return true
		}
	}
	return false
}

func (w *World) move(a *Agent, to int, cost float64) {
	src := w.envs[a.env]
	src.dissipate(a, cost)
	src.island.remove(a)
	w.islands[to].add(a)
	a.env = to
	src.counters.Departures++
}

// reproduce mates a with the first accepting resident, trying the ones that
// lost least often first.
func (w *World) reproduce(a *Agent) bool {
	env := w.envs[a.env]
	if !env.canReproduce(a) {
		return false
	}
	mates := env.mates(a)
	w.rng.Shuffle(len(mates), func(i, j int) { mates[i], mates[j] = mates[j], mates[i] })
	sort.SliceStable(mates, func(i, j int) bool {
		return mates[i].LossFraction() < mates[j].LossFraction()
	})
	for _, mate := range mates {
		if w.behavior.AcceptMate(mate, a) {
			w.mate(env, a, mate)
			return true
		}
	}
	return false
}

// mate creates two children on the island of a. Each child is given
// InitEnergy, of which the stronger parent pays the ParentSubsidy share.
func (w *World) mate(env *Environment, a, b *Agent) {
	s1, s2 := framework.Crossover(w.rng, a.Specimen, b.Specimen)
	shareA, shareB := 0.5, 0.5
	switch stronger(a, b) {
	case a:
		shareA, shareB = w.params.ParentSubsidy, 1-w.params.ParentSubsidy
	case b:
		shareA, shareB = 1-w.params.ParentSubsidy, w.params.ParentSubsidy
	}
	for _, s := range []*framework.Specimen{s1, s2} {
		s = framework.Mutation(w.rng, s, w.params.MutationProbability, w.bounds, w.maxChanges)
		child := w.newAgent(s, env.island.ID)
		env.transfer(a, child, shareA*w.params.InitEnergy)
		env.transfer(b, child, shareB*w.params.InitEnergy)
		env.island.add(child)
	}
	env.counters.Reproductions++
}

// stronger returns the dominating agent, else the one with more wins, else nil.
func stronger(a, b *Agent) *Agent {
	if winner := ByDominance(a, b); winner != nil {
		return winner
	}
	switch {
	case a.wins > b.wins:
		return a
	case b.wins > a.wins:
		return b
	}
	return nil
}

// fight meets a random peer that accepts the encounter, giving up after
// EncounterAttempts rejections.
func (w *World) fight(a *Agent) bool {
	env := w.envs[a.env]
	peers := env.peers(a)
	if len(peers) == 0 {
		return false
	}
	for range w.params.EncounterAttempts {
		b := peers[w.rng.IntN(len(peers))]
		if w.behavior.AcceptEncounter(b, a) {
			w.encounter(env, a, b)
			return true
		}
	}
	return false
}

func (w *World) encounter(env *Environment, a, b *Agent) {
	env.counters.Encounters++
	d := floats.Distance(a.Value(), b.Value(), 2)
	for _, x := range []*Agent{a, b} {
		x.encounters++
		x.distanceSum += d
		if d < w.params.ProximityEpsilon {
			x.closeEncounters++
		}
	}

	var winner *Agent
	if a.elite {
		winner = ByDominance(a, b)
	} else {
		winner = Decide(w.referees, a, b)
	}
	if winner == nil {
		return
	}
	loser := a
	if winner == a {
		loser = b
	}
	env.counters.DecidedEncounters++
	winner.wins++
	loser.losses++

	if a.elite {
		env.die(loser)
		return
	}
	env.transfer(loser, winner, w.params.FightTransfer)
}

// agents lists residents of ordinary islands, then of elite islands.
func (w *World) agents() []*Agent {
	var agents []*Agent
	for _, island := range w.islands {
		agents = append(agents, island.residents...)
	}
	return agents
}

func (w *World) agentsOf(tier Tier) []*Agent {
	var agents []*Agent
	for _, island := range w.islands {
		if island.Tier == tier {
			agents = append(agents, island.residents...)
		}
	}
	return agents
}

// Agents returns every living agent, ordinary ones first.
func (w *World) Agents() []*Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.agents()
}

// Population returns the agents of the ordinary islands.
func (w *World) Population() []*Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.agentsOf(Ordinary)
}

// Elites returns the agents of the elite islands.
func (w *World) Elites() []*Agent {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.agentsOf(Elite)
}

// CurrentStep is the number of steps run since the last Reset.
func (w *World) CurrentStep() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.step
}

// TotalEnergy sums the energy of all agents and island pools.
func (w *World) TotalEnergy() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	total := 0.0
	for _, island := range w.islands {
		total += island.pool
		for _, a := range island.residents {
			total += a.energy
		}
	}
	return total
}

// CheckInvariants reports broken ownership or energy invariants. Any error
// is a programming error.
func (w *World) CheckInvariants() error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var errs []error
	seen := sets.New[uint64]()
	for i, island := range w.islands {
		if island.ID != i || w.envs[i].island != island {
			errs = append(errs, fmt.Errorf("island %d is registered at index %d", island.ID, i))
		}
		if island.pool < 0 || math.IsNaN(island.pool) {
			errs = append(errs, fmt.Errorf("island %d has pool %v", i, island.pool))
		}
		for _, a := range island.residents {
			if seen.Has(a.ID) {
				errs = append(errs, fmt.Errorf("agent %d resides on more than one island", a.ID))
			}
			seen.Insert(a.ID)
			if a.env != i {
				errs = append(errs, fmt.Errorf("agent %d resides on island %d but refers to %d", a.ID, i, a.env))
			}
			if a.dead {
				errs = append(errs, fmt.Errorf("dead agent %d resides on island %d", a.ID, i))
			}
			if a.energy < 0 || math.IsNaN(a.energy) {
				errs = append(errs, fmt.Errorf("agent %d has energy %v", a.ID, a.energy))
			}
			if a.elite != (island.Tier == Elite) {
				errs = append(errs, fmt.Errorf("agent %d with elite=%t resides on %s island %d", a.ID, a.elite, island.Tier, i))
			}
		}
	}
	return utilerrors.NewAggregate(errs)
}
