package framework

import (
	"math"
	"math/rand/v2"
)

// CrossoverFunc mates two specimens and returns a pair of children.
type CrossoverFunc func(rng *rand.Rand, a, b *Specimen) (*Specimen, *Specimen)

// Lerp interpolates linearly between a and b with weight t.
func Lerp(a, b, t float64) float64 {
	return (1.0-t)*a + t*b
}

// Clamp returns a if it lies in [lo, hi], otherwise the nearest end.
func Clamp(a, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, a))
}

// TossCoin returns true with probability p.
func TossCoin(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// RandomVector returns a vector with components drawn uniformly from bounds.
func RandomVector(rng *rand.Rand, bounds []Bounds) []float64 {
	x := make([]float64, len(bounds))
	for i, b := range bounds {
		x[i] = Lerp(b.L, b.H, rng.Float64())
	}
	return x
}

// MaxChanges returns the per-dimension mutation step limit, scale times the
// width of each interval.
func MaxChanges(bounds []Bounds, scale float64) []float64 {
	changes := make([]float64, len(bounds))
	for i, b := range bounds {
		changes[i] = scale * b.Width()
	}
	return changes
}

// Mutation mutates each component of s with probability p, shifting it by an
// amount drawn uniformly from [-maxChanges[i], maxChanges[i]] and clamping
// the result to bounds. It returns a new specimen.
func Mutation(rng *rand.Rand, s *Specimen, p float64, bounds []Bounds, maxChanges []float64) *Specimen {
	x := s.Variables()
	for i := range x {
		if TossCoin(rng, p) {
			c := maxChanges[i]
			d := Lerp(-c, c, rng.Float64())
			x[i] = Clamp(x[i]+d, bounds[i].L, bounds[i].H)
		}
	}
	return &Specimen{x: x}
}

// Crossover interpolates between the components of a and b. Each child is
// a convex combination of the parents, so bounds are preserved.
func Crossover(rng *rand.Rand, a, b *Specimen) (*Specimen, *Specimen) {
	c1 := make([]float64, a.Len())
	c2 := make([]float64, a.Len())
	for i := range c1 {
		x, y := a.x[i], b.x[i]
		u := rng.Float64()
		c1[i] = 0.5 * ((1-u)*x + (1+u)*y)
		c2[i] = 0.5 * ((1+u)*x + (1-u)*y)
	}
	return &Specimen{x: c1}, &Specimen{x: c2}
}

// SBXCrossover returns a simulated binary crossover clamped to bounds.
func SBXCrossover(bounds []Bounds) CrossoverFunc {
	return func(rng *rand.Rand, a, b *Specimen) (*Specimen, *Specimen) {
		c1 := make([]float64, a.Len())
		c2 := make([]float64, a.Len())
		for i := range c1 {
			beta := 0.0
			if rng.Float64() <= 0.5 {
				beta = math.Pow(2*rng.Float64(), 1.0/3.0)
			} else {
				beta = math.Pow(1.0/(2*(1.0-rng.Float64())), 1.0/3.0)
			}

			c1[i] = 0.5 * ((1+beta)*a.x[i] + (1-beta)*b.x[i])
			c2[i] = 0.5 * ((1-beta)*a.x[i] + (1+beta)*b.x[i])

			// Bound checking
			c1[i] = Clamp(c1[i], bounds[i].L, bounds[i].H)
			c2[i] = Clamp(c2[i], bounds[i].L, bounds[i].H)
		}
		return &Specimen{x: c1}, &Specimen{x: c2}
	}
}

// Select performs n binary tournaments with pressure p. Two distinct members
// are drawn, ordered with worse (true if the first argument is not better
// than the second), and the better one wins with probability p.
func Select[T any](rng *rand.Rand, population []T, worse func(a, b T) bool, n int, p float64) []T {
	if len(population) == 0 {
		return nil
	}
	selected := make([]T, 0, n)
	for range n {
		if len(population) == 1 {
			selected = append(selected, population[0])
			continue
		}
		i := rng.IntN(len(population))
		j := rng.IntN(len(population) - 1)
		if j >= i {
			j++
		}
		a, b := population[i], population[j]
		if worse(a, b) {
			a, b = b, a
		}
		if TossCoin(rng, p) {
			selected = append(selected, a)
		} else {
			selected = append(selected, b)
		}
	}
	return selected
}
