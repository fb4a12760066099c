package emas

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2/ktesting"

	"github.com/intob/moea/pkg/multiobjective/benchmarks"
	"github.com/intob/moea/pkg/multiobjective/framework"
)

func testParams() *Params {
	return &Params{
		WorldSize:                 2,
		PopulationSize:            10,
		InitEnergy:                0.5,
		FightTransfer:             0.2,
		TravelThreshold:           0.7,
		TravelCost:                0.2,
		ReproductionThreshold:     0.8,
		DeathThreshold:            0.1,
		MutationProbability:       0.2,
		MutationScale:             0.1,
		EliteThreshold:            3,
		EliteIslands:              1,
		EliteTravelCost:           0.1,
		ProximityEpsilon:          0.01,
		MigrationFirstProbability: 0.5,
		EncounterAttempts:         10,
		ParentSubsidy:             0.25,
	}
}

// newTestWorld returns a world over the SIMPLE problem, f = (x, 1 - xy),
// with islands but without agents.
func newTestWorld(t *testing.T, params *Params, opts ...Option) *World {
	t.Helper()
	w, err := NewWorld(params, benchmarks.NewSimple(), rand.New(rand.NewPCG(1, 2)), opts...)
	require.NoError(t, err)
	w.createWorld()
	return w
}

func place(w *World, island int, x []float64, energy float64) *Agent {
	a := w.newAgent(framework.NewSpecimen(x), island)
	a.energy = energy
	a.elite = w.islands[island].Tier == Elite
	w.islands[island].add(a)
	return a
}

type recordingBehavior struct {
	accept bool
	mates  []*Agent
	offers int
}

func (b *recordingBehavior) AcceptMate(self, _ *Agent) bool {
	b.mates = append(b.mates, self)
	return b.accept
}

func (b *recordingBehavior) AcceptEncounter(_, _ *Agent) bool {
	b.offers++
	return b.accept
}

func TestNewWorldRejectsBadParams(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	_, err := NewWorld(nil, benchmarks.NewSimple(), rng)
	assert.Error(t, err)

	p := testParams()
	p.WorldSize = 0
	_, err = NewWorld(p, benchmarks.NewSimple(), rng)
	assert.Error(t, err)

	p = testParams()
	p.InitEnergy = 0
	_, err = NewWorld(p, benchmarks.NewSimple(), rng)
	assert.Error(t, err)
}

func TestTopology(t *testing.T) {
	p := testParams()
	p.WorldSize = 3
	p.EliteIslands = 2
	w := newTestWorld(t, p)
	require.Len(t, w.islands, 5)

	for i := 0; i < 3; i++ {
		island := w.islands[i]
		assert.Equal(t, Ordinary, island.Tier)
		for j := 0; j < 5; j++ {
			cost, ok := island.Cost(j)
			switch {
			case i == j:
				assert.False(t, ok)
			case j < 3:
				assert.True(t, ok)
				assert.Equal(t, p.TravelCost, cost)
			default:
				assert.True(t, ok)
				assert.Equal(t, p.EliteTravelCost, cost)
			}
		}
	}
	assert.Equal(t, []int{4}, w.islands[3].Neighbours())
	assert.Equal(t, []int{3}, w.islands[4].Neighbours())

	p.EliteBidirectional = true
	w = newTestWorld(t, p)
	assert.Equal(t, []int{0, 1, 2, 4}, w.islands[3].Neighbours())
	cost, ok := w.islands[3].Cost(0)
	assert.True(t, ok)
	assert.Equal(t, p.EliteTravelCost, cost)
}

func TestTransferClamps(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 0.3)
	b := place(w, 0, []float64{0.5, 0.5}, 0.4)
	env := w.envs[0]

	assert.InDelta(t, 0.3, env.transfer(a, b, 1.0), 1e-12)
	assert.Zero(t, a.Energy())
	assert.InDelta(t, 0.7, b.Energy(), 1e-12)

	assert.Zero(t, env.transfer(b, a, -1))
	assert.InDelta(t, 0.7, b.Energy(), 1e-12)

	assert.InDelta(t, 0.25, env.dissipate(b, 0.25), 1e-12)
	assert.InDelta(t, 0.45, b.Energy(), 1e-12)
	assert.InDelta(t, 0.25, w.islands[0].Pool(), 1e-12)
}

func TestDeathDissipatesEnergy(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 0.05)
	before := w.TotalEnergy()

	w.act(a)

	assert.True(t, a.Dead())
	assert.Zero(t, w.islands[0].Len())
	assert.InDelta(t, 0.05, w.islands[0].Pool(), 1e-12)
	assert.Equal(t, 1, w.envs[0].Counters().Deaths)
	assert.InDelta(t, before, w.TotalEnergy(), 1e-12)
	assert.NoError(t, w.CheckInvariants())
}

func TestReplenish(t *testing.T) {
	w := newTestWorld(t, testParams())
	w.islands[0].pool = 1.25
	w.islands[2].pool = 0.5
	before := w.TotalEnergy()

	assert.Equal(t, 3, w.replenish())

	assert.InDelta(t, 0.25, w.islands[0].Pool(), 1e-12)
	assert.InDelta(t, 0, w.islands[2].Pool(), 1e-12)
	assert.Zero(t, w.islands[2].Len(), "new agents are never placed on elite islands")
	assert.Equal(t, 3, w.islands[0].Len()+w.islands[1].Len())
	for _, a := range w.agents() {
		assert.Equal(t, 0.5, a.Energy())
		assert.False(t, a.Elite())
		assert.True(t, a.Evaluated())
	}
	assert.InDelta(t, before, w.TotalEnergy(), 1e-12)
	assert.NoError(t, w.CheckInvariants())
}

func TestEncounter(t *testing.T) {
	w := newTestWorld(t, testParams())
	// (0.2, 0.8) dominates (0.5, 0.9)
	a := place(w, 0, []float64{0.2, 1}, 0.5)
	b := place(w, 0, []float64{0.5, 0.2}, 0.5)

	require.True(t, w.fight(b))

	assert.InDelta(t, 0.7, a.Energy(), 1e-12)
	assert.InDelta(t, 0.3, b.Energy(), 1e-12)
	assert.Equal(t, 1, a.Wins())
	assert.Equal(t, 1, b.Losses())
	assert.Equal(t, 1, a.Encounters())
	assert.Equal(t, 1, b.Encounters())
	assert.InDelta(t, math.Sqrt(0.1), a.Crowding(), 1e-12)
	assert.InDelta(t, math.Sqrt(0.1), b.Crowding(), 1e-12)
	assert.Zero(t, a.CloseEncounters())
	assert.Equal(t, Counters{Encounters: 1, DecidedEncounters: 1}, w.envs[0].Counters())

	// The loser cannot pay more than it has.
	b.energy = 0.05
	require.True(t, w.fight(a))
	assert.InDelta(t, 0.75, a.Energy(), 1e-12)
	assert.Zero(t, b.Energy())
}

func TestCloseEncounter(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 0.5)
	b := place(w, 0, []float64{0.5, 0.5}, 0.5)

	require.True(t, w.fight(a))
	assert.Equal(t, 1, a.CloseEncounters())
	assert.Equal(t, 1, b.CloseEncounters())
	// Equal agents cannot be told apart.
	assert.Equal(t, Counters{Encounters: 1}, w.envs[0].Counters())
	assert.Equal(t, 0.5, a.Energy())
}

func TestFightGivesUpAfterRejections(t *testing.T) {
	behavior := &recordingBehavior{}
	w := newTestWorld(t, testParams(), WithBehavior(behavior))
	a := place(w, 0, []float64{0.2, 1}, 0.5)
	place(w, 0, []float64{0.5, 0.2}, 0.5)

	assert.False(t, w.fight(a))
	assert.Equal(t, 10, behavior.offers)
	assert.Zero(t, a.Encounters())

	// Alone on the island there is nobody to meet.
	lonely := place(w, 1, []float64{0.5, 0.5}, 0.5)
	assert.False(t, w.fight(lonely))
}

func TestMigration(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 1.0)

	require.True(t, w.migrate(a))
	assert.Equal(t, 1, a.Island(), "ordinary agents never migrate to elite islands")
	assert.InDelta(t, 0.8, a.Energy(), 1e-12)
	assert.InDelta(t, 0.2, w.islands[0].Pool(), 1e-12)
	assert.Zero(t, w.islands[0].Len())
	assert.Equal(t, 1, w.islands[1].Len())
	assert.Equal(t, 1, w.envs[0].Counters().Departures)
	assert.NoError(t, w.CheckInvariants())

	// 0.8 is below travel threshold plus cost.
	assert.False(t, w.migrate(a))
	assert.Equal(t, 1, a.Island())
	assert.InDelta(t, 0.8, a.Energy(), 1e-12)
}

func TestReproduction(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.2, 1}, 1.0)
	b := place(w, 0, []float64{0.5, 0.2}, 1.0)
	before := w.TotalEnergy()

	require.True(t, w.reproduce(b))

	residents := w.islands[0].Residents()
	require.Len(t, residents, 4)
	// a dominates b and pays a quarter of the children's energy
	assert.InDelta(t, 0.75, a.Energy(), 1e-12)
	assert.InDelta(t, 0.25, b.Energy(), 1e-12)
	for _, child := range residents[2:] {
		assert.InDelta(t, 0.5, child.Energy(), 1e-12)
		assert.Zero(t, child.Encounters())
		assert.Equal(t, 0, child.Island())
		assert.True(t, child.Evaluated())
		for i, bound := range w.bounds {
			assert.GreaterOrEqual(t, child.At(i), bound.L)
			assert.LessOrEqual(t, child.At(i), bound.H)
		}
	}
	assert.Equal(t, 1, w.envs[0].Counters().Reproductions)
	assert.InDelta(t, before, w.TotalEnergy(), 1e-12)
	assert.NoError(t, w.CheckInvariants())
}

func TestReproductionClampsParentContribution(t *testing.T) {
	p := testParams()
	p.InitEnergy = 1.0
	w := newTestWorld(t, p)
	place(w, 0, []float64{0.2, 1}, 1.0)
	b := place(w, 0, []float64{0.5, 0.2}, 0.8)
	before := w.TotalEnergy()

	require.True(t, w.reproduce(b))

	// b owes 0.75 per child but only holds 0.8
	assert.Zero(t, b.Energy())
	assert.InDelta(t, before, w.TotalEnergy(), 1e-12)
	assert.NoError(t, w.CheckInvariants())
}

func TestReproductionPrefersMatesThatLoseLess(t *testing.T) {
	behavior := &recordingBehavior{}
	w := newTestWorld(t, testParams(), WithBehavior(behavior))
	a := place(w, 0, []float64{0.5, 0.5}, 1.0)
	loser := place(w, 0, []float64{0.4, 0.5}, 1.0)
	loser.encounters, loser.losses = 2, 1
	winner := place(w, 0, []float64{0.6, 0.5}, 1.0)
	winner.encounters, winner.wins = 2, 2
	place(w, 0, []float64{0.7, 0.5}, 0.3) // too weak to mate

	assert.False(t, w.reproduce(a))
	assert.Equal(t, []*Agent{winner, loser}, behavior.mates)
	assert.Equal(t, 4, w.islands[0].Len())
	assert.Zero(t, w.envs[0].Counters().Reproductions)
}

func TestPromotion(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 1.0)
	a.encounters, a.wins, a.distanceSum = 3, 3, 3
	b := place(w, 0, []float64{0.4, 0.5}, 1.0)
	b.encounters, b.distanceSum = 1, 0.1

	require.True(t, w.promote(a))
	assert.True(t, a.Elite())
	assert.Equal(t, 2, a.Island())
	assert.InDelta(t, 0.9, a.Energy(), 1e-12)
	assert.InDelta(t, 0.1, w.islands[0].Pool(), 1e-12)
	assert.Equal(t, []*Agent{a}, w.Elites())
	assert.NoError(t, w.CheckInvariants())

	// b is neither successful nor isolated enough
	assert.False(t, w.promote(b))
}

func TestPromotionRevertsWhenUnaffordable(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 0.75)
	a.encounters, a.wins, a.distanceSum = 3, 3, 3
	b := place(w, 0, []float64{0.4, 0.5}, 1.0)
	b.encounters, b.distanceSum = 1, 0.1

	assert.False(t, w.promote(a))
	assert.False(t, a.Elite())
	assert.Equal(t, 0, a.Island())
	assert.NoError(t, w.CheckInvariants())
}

func TestEliteEncounterRemovesDominated(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 2, []float64{0.2, 1}, 0.01)
	b := place(w, 2, []float64{0.5, 0.2}, 0.6)
	require.True(t, a.Elite())

	// Elites skip the death check, so a fights despite its low energy.
	w.act(a)

	assert.True(t, b.Dead())
	assert.Equal(t, []*Agent{a}, w.Elites())
	assert.InDelta(t, 0.6, w.islands[2].Pool(), 1e-12)
	assert.Equal(t, 0.01, a.Energy())
	assert.Equal(t, Counters{Deaths: 1, Encounters: 1, DecidedEncounters: 1}, w.envs[2].Counters())
	assert.NoError(t, w.CheckInvariants())
}

func TestSampleStatsResetsCounters(t *testing.T) {
	w := newTestWorld(t, testParams())
	place(w, 0, []float64{0.2, 1}, 0.4)
	b := place(w, 0, []float64{0.5, 0.2}, 0.95)
	require.True(t, w.fight(b))

	snapshot := w.Snapshot()
	assert.Equal(t, 1, snapshot.Islands[0].Encounters)
	assert.Len(t, snapshot.Values(), 2)

	sample := w.SampleStats()
	assert.Equal(t, 1, sample.Islands[0].Encounters)
	assert.Equal(t, 2, sample.Islands[0].Population)
	assert.InDelta(t, 1.35, sample.Islands[0].Energy, 1e-12)
	assert.Equal(t, 0, sample.Islands[0].ReproductionCapable)
	assert.Equal(t, 1, sample.Islands[0].TravelCapable)
	assert.Equal(t, Elite, sample.Islands[2].Tier)

	assert.Zero(t, w.SampleStats().Islands[0].Encounters)
}

func TestCheckInvariantsDetectsCorruption(t *testing.T) {
	w := newTestWorld(t, testParams())
	a := place(w, 0, []float64{0.5, 0.5}, 0.5)
	require.NoError(t, w.CheckInvariants())

	w.islands[1].add(a)
	assert.Error(t, w.CheckInvariants())
	w.islands[1].remove(a)

	a.energy = -1
	assert.Error(t, w.CheckInvariants())
	a.energy = 0.5

	a.elite = true
	assert.Error(t, w.CheckInvariants())
}

func TestStepConservesEnergy(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p := testParams()
	p.WorldSize = 3
	p.PopulationSize = 30
	w, err := NewWorld(p, benchmarks.NewZDT1(3), rand.New(rand.NewPCG(7, 8)))
	require.NoError(t, err)

	w.Reset()
	total := w.TotalEnergy()
	assert.InDelta(t, 3*30*0.5, total, 1e-9)

	for range 50 {
		w.Step(ctx)
		require.NoError(t, w.CheckInvariants(), "step %d", w.CurrentStep())
		require.InDelta(t, total, w.TotalEnergy(), 1e-9, "step %d", w.CurrentStep())
	}
}

func TestOptimize(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	p := DefaultParams()
	p.EliteThreshold = 3
	problem := benchmarks.NewZDT1(3)
	w, err := NewWorld(p, problem, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)

	stats := NewStats(framework.ReferencePoint(problem.Ranges()), benchmarks.FrontVolume(problem, 500))
	var steps []int
	agents, err := w.Optimize(ctx, 60, func(step int, agents []*Agent) {
		steps = append(steps, step)
		require.NotEmpty(t, agents)
		require.NoError(t, w.CheckInvariants(), "step %d", step)
		stats.Update(w.SampleStats())
	})
	require.NoError(t, err)

	require.Len(t, steps, 61)
	for i, step := range steps {
		assert.Equal(t, i, step)
	}
	require.NotEmpty(t, agents)

	// ordinary agents come first
	seenElite := false
	for _, a := range agents {
		if a.Elite() {
			seenElite = true
		} else {
			assert.False(t, seenElite, "ordinary agent listed after an elite one")
		}
	}

	require.Len(t, stats.MaxHypervolume, 61)
	for i := 1; i < len(stats.MaxHypervolume); i++ {
		assert.GreaterOrEqual(t, stats.MaxHypervolume[i], stats.MaxHypervolume[i-1])
		assert.GreaterOrEqual(t, stats.MaxHypervolume[i], stats.Hypervolume[i])
	}
	assert.Greater(t, stats.MaxHypervolume[60], 0.0)
	assert.Greater(t, stats.HypervolumeRatio[60], 0.0)
	assert.NotEmpty(t, ParetoFront(agents))
}

func TestOptimizeFrontHoldsMajority(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	problem := benchmarks.NewZDT1(3)

	for seed := uint64(1); seed <= 3; seed++ {
		w, err := NewWorld(DefaultParams(), problem, rand.New(rand.NewPCG(seed, seed)))
		require.NoError(t, err)

		agents, err := w.Optimize(ctx, 200, nil)
		require.NoError(t, err)
		require.NoError(t, w.CheckInvariants())
		require.NotEmpty(t, agents)

		front := ParetoFront(agents)
		assert.Greater(t, len(front), len(agents)/2, "seed %d: front 0 holds %d of %d agents", seed, len(front), len(agents))
	}
}

func TestOptimizeStopsOnCancel(t *testing.T) {
	_, ctx := ktesting.NewTestContext(t)
	ctx, cancel := context.WithCancel(ctx)
	p := testParams()
	w, err := NewWorld(p, benchmarks.NewZDT2(3), rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	calls := 0
	agents, err := w.Optimize(ctx, 100, func(step int, _ []*Agent) {
		calls++
		if step == 2 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, w.CurrentStep())
	assert.NotEmpty(t, agents)
}
