package framework

import "math/rand/v2"

// ObjectiveFunc defines the interface for objective functions. It must be a pure
// function of the decision vector.
type ObjectiveFunc func([]float64) float64

// ObjectiveSpacePoint represents an N-dimensional point in the objective space.
// As an example, for a problem with 2 objective functions f1 and f2, a point
// in the objective space could be [f1(x'), f2(x')], for the input of x'.
type ObjectiveSpacePoint []float64

// Evaluator maps a decision vector to its point in the objective space.
type Evaluator func([]float64) ObjectiveSpacePoint

// Compose builds a single Evaluator out of one ObjectiveFunc per objective.
// The order of fs is the order of the objective vector components.
func Compose(fs ...ObjectiveFunc) Evaluator {
	return func(x []float64) ObjectiveSpacePoint {
		v := make(ObjectiveSpacePoint, len(fs))
		for i, f := range fs {
			v[i] = f(x)
		}
		return v
	}
}

// Bounds is a closed interval [L, H]. It is used both for decision space
// dimensions and for the expected range of an objective.
type Bounds struct {
	L float64
	H float64
}

// Width returns H - L.
func (b Bounds) Width() float64 {
	return b.H - b.L
}

// Valued is implemented by anything that has a point in the objective space.
type Valued interface {
	Value() ObjectiveSpacePoint
}

// Problem describes the contract a specific multi-objective problem needs to implement.
type Problem interface {
	Name() string

	// Bounds returns the decision space, one interval per variable.
	Bounds() []Bounds
	// Ranges returns the expected extent of every objective. The upper corner is
	// used as the hypervolume reference point.
	Ranges() []Bounds
	ObjectiveFuncs() []ObjectiveFunc

	// TrueParetoFront is optional due to the difficulty of finding the true front
	// in some types of problems. When there isn't a way to find the true front,
	// just return nil.
	TrueParetoFront(int) []ObjectiveSpacePoint
}

// ReferencePoint returns the worst corner of the given objective ranges.
func ReferencePoint(ranges []Bounds) ObjectiveSpacePoint {
	p := make(ObjectiveSpacePoint, len(ranges))
	for i, r := range ranges {
		p[i] = r.H
	}
	return p
}

// RandomPopulation creates size specimens with decision vectors drawn
// uniformly from bounds.
func RandomPopulation(rng *rand.Rand, size int, bounds []Bounds) []*Specimen {
	population := make([]*Specimen, size)
	for i := range size {
		population[i] = NewSpecimen(RandomVector(rng, bounds))
	}
	return population
}
