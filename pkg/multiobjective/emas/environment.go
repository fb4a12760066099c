package emas

import "math"

// Counters are the per-step event tallies of an Environment.
type Counters struct {
	Reproductions     int
	Deaths            int
	Encounters        int
	DecidedEncounters int
	Departures        int
}

// Environment is the view an agent has of its island: the shared parameters,
// the neighbours and the residents, plus the energy primitives.
type Environment struct {
	params *Params
	island *Island

	counters Counters
}

func newEnvironment(params *Params, island *Island) *Environment {
	return &Environment{params: params, island: island}
}

func (e *Environment) Params() *Params { return e.params }
func (e *Environment) ID() int         { return e.island.ID }
func (e *Environment) Tier() Tier      { return e.island.Tier }

// Counters returns the tallies since the last reset.
func (e *Environment) Counters() Counters { return e.counters }

func (e *Environment) resetCounters() { e.counters = Counters{} }

func (e *Environment) canReproduce(a *Agent) bool {
	return a.energy >= e.params.ReproductionThreshold
}

func (e *Environment) canTravel(a *Agent) bool {
	return a.energy >= e.params.TravelThreshold
}

func (e *Environment) mustDie(a *Agent) bool {
	return a.energy < e.params.DeathThreshold
}

// peers returns every resident but a.
func (e *Environment) peers(a *Agent) []*Agent {
	peers := make([]*Agent, 0, len(e.island.residents))
	for _, r := range e.island.residents {
		if r != a {
			peers = append(peers, r)
		}
	}
	return peers
}

// mates returns the residents other than a that can reproduce.
func (e *Environment) mates(a *Agent) []*Agent {
	var mates []*Agent
	for _, r := range e.island.residents {
		if r != a && e.canReproduce(r) {
			mates = append(mates, r)
		}
	}
	return mates
}

// transfer moves up to amount of energy from one agent to another and returns
// what was moved.
func (e *Environment) transfer(from, to *Agent, amount float64) float64 {
	amount = math.Max(0, math.Min(amount, from.energy))
	from.energy -= amount
	to.energy += amount
	return amount
}

// dissipate moves up to amount of energy from a into the island pool.
func (e *Environment) dissipate(a *Agent, amount float64) float64 {
	amount = math.Max(0, math.Min(amount, a.energy))
	a.energy -= amount
	e.island.pool += amount
	return amount
}

// die returns all energy of a to the pool and removes it from the island.
func (e *Environment) die(a *Agent) {
	e.dissipate(a, a.energy)
	e.island.remove(a)
	a.dead = true
	e.counters.Deaths++
}
