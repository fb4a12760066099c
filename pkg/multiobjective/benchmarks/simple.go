package benchmarks

import "github.com/intob/moea/pkg/multiobjective/framework"

// Simple is a two variable toy problem, f1 = x and f2 = 1 - xy. Its front is
// the segment x in [0, 1] at y = 1.
type Simple struct{}

func NewSimple() *Simple {
	return &Simple{}
}

func (p *Simple) Name() string {
	return "SIMPLE"
}

func (p *Simple) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		func(x []float64) float64 { return x[0] },
		func(x []float64) float64 { return 1 - x[0]*x[1] },
	}
}

func (p *Simple) Bounds() []framework.Bounds {
	return unitBounds(2)
}

func (p *Simple) Ranges() []framework.Bounds {
	return unitBounds(2)
}

func (p *Simple) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	xs := frontAbscissae(numPoints)
	points := make([]framework.ObjectiveSpacePoint, len(xs))
	for i, x := range xs {
		points[i] = framework.ObjectiveSpacePoint{x, 1 - x}
	}
	return points
}
