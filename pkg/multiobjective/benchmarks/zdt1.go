package benchmarks

import (
	"math"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// ZDT1 is a benchmark function used to test the correctness
// of multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
type ZDT1 struct {
	numVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{
		numVars,
	}
}

func (p *ZDT1) Name() string {
	return "ZDT1"
}

func (p *ZDT1) ObjectiveFuncs() []framework.ObjectiveFunc {
	return []framework.ObjectiveFunc{
		p.f1, p.f2,
	}
}

// f1 is the first ZDT1 benchmark objective
func (p *ZDT1) f1(x []float64) float64 {
	return x[0]
}

// f2 is the second ZDT1 benchmark objective
func (p *ZDT1) f2(x []float64) float64 {
	g := zdtG(x)
	return g * (1.0 - math.Sqrt(x[0]/g))
}

func (p *ZDT1) Bounds() []framework.Bounds {
	return unitBounds(p.numVars)
}

func (p *ZDT1) Ranges() []framework.Bounds {
	return unitBounds(2)
}

// TrueParetoFront generates numPoints points on the true Pareto front for ZDT1
func (p *ZDT1) TrueParetoFront(numPoints int) []framework.ObjectiveSpacePoint {
	xs := frontAbscissae(numPoints)
	points := make([]framework.ObjectiveSpacePoint, len(xs))
	for i, x := range xs {
		points[i] = framework.ObjectiveSpacePoint{
			x, 1.0 - math.Sqrt(x),
		}
	}
	return points
}

// zdtG is the distance function shared by the ZDT family.
func zdtG(x []float64) float64 {
	if len(x) < 2 {
		return 1.0
	}
	g := 1.0
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	return g
}

func unitBounds(n int) []framework.Bounds {
	b := make([]framework.Bounds, n)
	for i := range n {
		b[i] = framework.Bounds{
			L: 0.0,
			H: 1.0,
		}
	}
	return b
}

// frontAbscissae spreads numPoints values evenly over [0, 1]. A single point
// is the left end of the front.
func frontAbscissae(numPoints int) []float64 {
	if numPoints <= 0 {
		return nil
	}
	if numPoints == 1 {
		return []float64{0}
	}
	xs := make([]float64, numPoints)
	for i := range xs {
		xs[i] = float64(i) / float64(numPoints-1)
	}
	return xs
}
