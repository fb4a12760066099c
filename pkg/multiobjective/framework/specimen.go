package framework

import "fmt"

// Specimen is a single element of a population: an immutable decision vector
// and its objective vector, computed on first use and cached afterwards.
type Specimen struct {
	x     []float64
	value ObjectiveSpacePoint
}

// NewSpecimen copies x into a new Specimen.
func NewSpecimen(x []float64) *Specimen {
	vars := make([]float64, len(x))
	copy(vars, x)
	return &Specimen{x: vars}
}

// Variables returns a copy of the decision vector.
func (s *Specimen) Variables() []float64 {
	vars := make([]float64, len(s.x))
	copy(vars, s.x)
	return vars
}

// At returns the i-th decision variable.
func (s *Specimen) At(i int) float64 { return s.x[i] }

// Len returns the dimension of the decision space.
func (s *Specimen) Len() int { return len(s.x) }

// Evaluate computes the objective vector with f unless it is already known.
// Once set the value never changes.
func (s *Specimen) Evaluate(f Evaluator) ObjectiveSpacePoint {
	if s.value == nil {
		s.value = f(s.x)
	}
	return s.value
}

// Evaluated reports whether the objective vector is cached.
func (s *Specimen) Evaluated() bool {
	return s.value != nil
}

// Value returns the cached objective vector, or nil before Evaluate.
func (s *Specimen) Value() ObjectiveSpacePoint {
	return s.value
}

func (s *Specimen) String() string {
	return fmt.Sprintf("|%v|", s.x)
}

// Values collects the objective vectors of the given items.
func Values[T Valued](items []T) []ObjectiveSpacePoint {
	points := make([]ObjectiveSpacePoint, len(items))
	for i, item := range items {
		points[i] = item.Value()
	}
	return points
}
