package benchmarks

import (
	"math"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// ZDT2 has a non-convex Pareto front
type ZDT2 struct {
	numVars int
}

func NewZDT2(numVars int) *ZDT2 {
	return &ZDT2{numVars: numVars}
}

func (p *ZDT2) Name() string {
	return "ZDT2"
}

func (p *ZDT2) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{p.f1, p.f2}
}

func (p *ZDT2) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT2) f2(x []float64) float64 {
	g := zdtG(x)
	return g * (1.0 - math.Pow(x[0]/g, 2))
}

func (p *ZDT2) Bounds() []framework.Bounds {
	return unitBounds(p.numVars)
}

func (p *ZDT2) Ranges() []framework.Bounds {
	return unitBounds(2)
}

func (p *ZDT2) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	xs := frontAbscissae(numPoints)
	points := make([]framework.ObjectiveSpacePoint, len(xs))
	for i, x := range xs {
		points[i] = framework.ObjectiveSpacePoint{x, 1.0 - x*x}
	}
	return points
}
