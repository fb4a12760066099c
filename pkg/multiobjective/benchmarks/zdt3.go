package benchmarks

import (
	"math"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// ZDT3 has a disconnected Pareto front
type ZDT3 struct {
	numVars int
}

func NewZDT3(numVars int) *ZDT3 {
	return &ZDT3{numVars: numVars}
}

func (p *ZDT3) Name() string {
	return "ZDT3"
}

func (p *ZDT3) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f1, p.f2}
}

func (p *ZDT3) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT3) f2(x []float64) float64 {
	g := zdtG(x)
	// ZDT3 has a disconnected front due to the sin term
	h := 1.0 - math.Sqrt(x[0]/g) - (x[0]/g)*math.Sin(10*math.Pi*x[0])
	return g * h
}

func (p *ZDT3) Bounds() []framework.Bounds {
	return unitBounds(p.numVars)
}

// Ranges widens the second objective, which goes below zero on the front.
func (p *ZDT3) Ranges() []framework.Bounds {
	return []framework.Bounds{{L: 0, H: 1}, {L: -1, H: 1}}
}

// TrueParetoFront samples the g = 1 curve and keeps its non-dominated part.
func (p *ZDT3) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	xs := frontAbscissae(numPoints)
	points := make([]framework.ObjectiveSpacePoint, len(xs))
	for i, x := range xs {
		f2 := 1.0 - math.Sqrt(x) - x*math.Sin(10*math.Pi*x)
		points[i] = framework.ObjectiveSpacePoint{x, f2}
	}
	return framework.Maximal(points, framework.InverselyDominates)
}
