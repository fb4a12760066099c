package emas

import (
	"slices"
)

// Tier separates ordinary islands from elite ones.
type Tier int

const (
	Ordinary Tier = iota
	Elite
)

func (t Tier) String() string {
	if t == Elite {
		return "elite"
	}
	return "ordinary"
}

// Island is a node of the topology graph. It holds its residents and a pool
// of free energy collected from dissipation.
type Island struct {
	ID   int
	Tier Tier

	residents []*Agent
	pool      float64

	// neighbour island index -> travel cost, order keeps iteration deterministic
	costs map[int]float64
	order []int
}

func newIsland(id int, tier Tier) *Island {
	return &Island{
		ID:    id,
		Tier:  tier,
		costs: map[int]float64{},
	}
}

func (i *Island) connect(to int, cost float64) {
	if _, ok := i.costs[to]; !ok {
		i.order = append(i.order, to)
	}
	i.costs[to] = cost
}

func (i *Island) add(a *Agent) {
	i.residents = append(i.residents, a)
}

func (i *Island) remove(a *Agent) bool {
	idx := slices.Index(i.residents, a)
	if idx < 0 {
		return false
	}
	i.residents = slices.Delete(i.residents, idx, idx+1)
	return true
}

// Residents returns a copy of the resident list.
func (i *Island) Residents() []*Agent {
	return slices.Clone(i.residents)
}

// Len is the number of residents.
func (i *Island) Len() int {
	return len(i.residents)
}

// Pool is the free energy of the island.
func (i *Island) Pool() float64 {
	return i.pool
}

// Neighbours returns the neighbour indices in insertion order.
func (i *Island) Neighbours() []int {
	return slices.Clone(i.order)
}

// Cost returns the travel cost to neighbour to.
func (i *Island) Cost(to int) (float64, bool) {
	c, ok := i.costs[to]
	return c, ok
}
