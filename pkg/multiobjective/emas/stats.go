package emas

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// IslandSample is the state of one island at a point in time.
type IslandSample struct {
	ID   int
	Tier Tier

	Energy              float64
	FreeEnergy          float64
	Population          int
	ReproductionCapable int
	TravelCapable       int
	Counters

	Values []framework.ObjectiveSpacePoint
}

// Sample is a consistent snapshot of the whole world.
type Sample struct {
	Step    int
	Islands []IslandSample
}

// Values returns the objective values of all sampled agents.
func (s Sample) Values() []framework.ObjectiveSpacePoint {
	var values []framework.ObjectiveSpacePoint
	for _, island := range s.Islands {
		values = append(values, island.Values...)
	}
	return values
}

// Snapshot samples the world without resetting the environment counters.
func (w *World) Snapshot() Sample {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sample()
}

// SampleStats samples the world and resets the environment counters.
func (w *World) SampleStats() Sample {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.sample()
	for _, env := range w.envs {
		env.resetCounters()
	}
	return s
}

func (w *World) sample() Sample {
	s := Sample{Step: w.step, Islands: make([]IslandSample, len(w.islands))}
	for i, island := range w.islands {
		env := w.envs[i]
		is := IslandSample{
			ID:         island.ID,
			Tier:       island.Tier,
			FreeEnergy: island.pool,
			Population: island.Len(),
			Counters:   env.counters,
			Values:     make([]framework.ObjectiveSpacePoint, 0, island.Len()),
		}
		energy := make([]float64, 0, island.Len())
		for _, a := range island.residents {
			energy = append(energy, a.energy)
			if env.canReproduce(a) {
				is.ReproductionCapable++
			}
			if env.canTravel(a) {
				is.TravelCapable++
			}
			is.Values = append(is.Values, a.Value())
		}
		is.Energy = floats.Sum(energy)
		s.Islands[i] = is
	}
	return s
}

// Series is a time series of island or world figures. Event counters of the
// totals are rates per step.
type Series struct {
	Energy              []float64
	FreeEnergy          []float64
	AvgEnergy           []float64
	Population          []float64
	ReproductionCapable []float64
	TravelCapable       []float64
	Reproductions       []float64
	Deaths              []float64
	Encounters          []float64
	DecidedEncounters   []float64
	Departures          []float64
}

func (s *Series) append(energy, free float64, population, reproductionCapable, travelCapable int, events [5]float64) {
	avg := 0.0
	if population > 0 {
		avg = energy / float64(population)
	}
	s.Energy = append(s.Energy, energy)
	s.FreeEnergy = append(s.FreeEnergy, free)
	s.AvgEnergy = append(s.AvgEnergy, avg)
	s.Population = append(s.Population, float64(population))
	s.ReproductionCapable = append(s.ReproductionCapable, float64(reproductionCapable))
	s.TravelCapable = append(s.TravelCapable, float64(travelCapable))
	s.Reproductions = append(s.Reproductions, events[0])
	s.Deaths = append(s.Deaths, events[1])
	s.Encounters = append(s.Encounters, events[2])
	s.DecidedEncounters = append(s.DecidedEncounters, events[3])
	s.Departures = append(s.Departures, events[4])
}

func (c Counters) events() [5]float64 {
	return [5]float64{
		float64(c.Reproductions),
		float64(c.Deaths),
		float64(c.Encounters),
		float64(c.DecidedEncounters),
		float64(c.Departures),
	}
}

// Stats accumulates samples into per-island and total series and tracks
// the hypervolume of the sampled agents.
type Stats struct {
	Time    []int
	Islands map[int]*Series
	Total   Series

	Hypervolume    []float64
	MaxHypervolume []float64
	// HypervolumeRatio relates Hypervolume to the volume of the true front
	HypervolumeRatio []float64

	ref    framework.ObjectiveSpacePoint
	volume float64
}

// NewStats creates Stats measuring hypervolume against ref. volume is the
// hypervolume of the true front, 0 when unknown.
func NewStats(ref framework.ObjectiveSpacePoint, volume float64) *Stats {
	return &Stats{
		Islands: map[int]*Series{},
		ref:     ref,
		volume:  volume,
	}
}

// Update appends a sample.
func (s *Stats) Update(sample Sample) {
	last := -1
	if len(s.Time) > 0 {
		last = s.Time[len(s.Time)-1]
	}
	s.Time = append(s.Time, sample.Step)
	dt := float64(sample.Step - last)
	if dt <= 0 {
		dt = 1
	}

	var (
		energy, free                                   []float64
		population, reproductionCapable, travelCapable int
		events                                         [5]float64
	)
	for _, island := range sample.Islands {
		series, ok := s.Islands[island.ID]
		if !ok {
			series = &Series{}
			s.Islands[island.ID] = series
		}
		islandEvents := island.Counters.events()
		series.append(island.Energy, island.FreeEnergy, island.Population, island.ReproductionCapable, island.TravelCapable, islandEvents)

		energy = append(energy, island.Energy)
		free = append(free, island.FreeEnergy)
		population += island.Population
		reproductionCapable += island.ReproductionCapable
		travelCapable += island.TravelCapable
		floats.AddScaled(events[:], 1/dt, islandEvents[:])
	}
	s.Total.append(floats.Sum(energy), floats.Sum(free), population, reproductionCapable, travelCapable, events)

	hv := framework.Hypervolume(s.ref, sample.Values())
	best := hv
	if n := len(s.MaxHypervolume); n > 0 && s.MaxHypervolume[n-1] > best {
		best = s.MaxHypervolume[n-1]
	}
	s.Hypervolume = append(s.Hypervolume, hv)
	s.MaxHypervolume = append(s.MaxHypervolume, best)
	ratio := 0.0
	if s.volume > 0 {
		ratio = hv / s.volume
	}
	s.HypervolumeRatio = append(s.HypervolumeRatio, ratio)
}

// MeanHypervolume is the mean of the recorded hypervolumes.
func (s *Stats) MeanHypervolume() float64 {
	if len(s.Hypervolume) == 0 {
		return 0
	}
	return stat.Mean(s.Hypervolume, nil)
}

// ParetoFront returns the agents not dominated by any other agent.
func ParetoFront(agents []*Agent) []*Agent {
	fronts, _ := framework.NonDominatedSort(agents, framework.Dominates)
	if len(fronts) == 0 {
		return nil
	}
	return fronts[0]
}
