package benchmarks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/intob/moea/pkg/multiobjective/framework"
)

// DefaultNumVars is the decision space dimension used by the ZDT problems
// when none is given.
const DefaultNumVars = 3

var registry = map[string]func(numVars int) framework.Problem{
	"SIMPLE": func(int) framework.Problem { return NewSimple() },
	"ZDT1":   func(n int) framework.Problem { return NewZDT1(n) },
	"ZDT2":   func(n int) framework.Problem { return NewZDT2(n) },
	"ZDT3":   func(n int) framework.Problem { return NewZDT3(n) },
}

// Get returns the problem registered under name (case insensitive). A
// non-positive numVars selects DefaultNumVars.
func Get(name string, numVars int) (framework.Problem, error) {
	newProblem, ok := registry[strings.ToUpper(name)]
	if !ok {
		return nil, fmt.Errorf("unknown problem %q, known problems are %s", name, strings.Join(Names(), ", "))
	}
	if numVars <= 0 {
		numVars = DefaultNumVars
	}
	return newProblem(numVars), nil
}

// Names lists the registered problems.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FrontVolume approximates the hypervolume of the true front of p with
// numPoints samples, relative to the upper corner of p.Ranges(). It returns 0
// when the true front is unknown.
func FrontVolume(p framework.Problem, numPoints int) float64 {
	front := p.TrueParetoFront(numPoints)
	if front == nil {
		return 0
	}
	return framework.Hypervolume(framework.ReferencePoint(p.Ranges()), front)
}
