package framework

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point ObjectiveSpacePoint

func (p point) Value() ObjectiveSpacePoint { return ObjectiveSpacePoint(p) }

func TestDominates(t *testing.T) {
	tests := []struct {
		name string
		a, b ObjectiveSpacePoint
		want bool
	}{
		{"better at one position", ObjectiveSpacePoint{1, 2, 3}, ObjectiveSpacePoint{1, 3, 3}, true},
		{"better at all positions", ObjectiveSpacePoint{1, 2, 3}, ObjectiveSpacePoint{7, 3, 4}, true},
		{"worse at one position", ObjectiveSpacePoint{1, 2, 3}, ObjectiveSpacePoint{7, 1, 9}, false},
		{"equal", ObjectiveSpacePoint{1, 2}, ObjectiveSpacePoint{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dominates(tt.a, tt.b))
			assert.Equal(t, tt.want, InverselyDominates(tt.b, tt.a))
		})
	}
}

func TestDominatesIsAsymmetricAndIrreflexive(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 2000 {
		a := ObjectiveSpacePoint{float64(rng.IntN(4)), float64(rng.IntN(4)), float64(rng.IntN(4))}
		b := ObjectiveSpacePoint{float64(rng.IntN(4)), float64(rng.IntN(4)), float64(rng.IntN(4))}
		assert.False(t, Dominates(a, b) && Dominates(b, a), "%v and %v dominate each other", a, b)
		assert.False(t, Dominates(a, a), "%v dominates itself", a)
	}
}

func TestWeaklyDominates(t *testing.T) {
	assert.True(t, WeaklyDominates(ObjectiveSpacePoint{1, 2}, ObjectiveSpacePoint{1, 2}))
	assert.True(t, WeaklyDominates(ObjectiveSpacePoint{0, 2}, ObjectiveSpacePoint{1, 2}))
	assert.False(t, WeaklyDominates(ObjectiveSpacePoint{0, 3}, ObjectiveSpacePoint{1, 2}))
}

func TestNonDominatedSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	items := make([]point, 60)
	for i := range items {
		a := rng.Float64()
		b := 2 + rng.Float64()
		items[i] = point{a + b, a * b}
	}

	fronts, ranks := NonDominatedSort(items, Dominates)
	require.Len(t, ranks, len(items))

	total := 0
	for _, front := range fronts {
		require.NotEmpty(t, front)
		total += len(front)
	}
	assert.Equal(t, len(items), total, "every item must be in exactly one front")

	for i := range fronts {
		for j := 0; j <= i; j++ {
			for _, p := range fronts[i] {
				for _, q := range fronts[j] {
					assert.False(t, Dominates(p.Value(), q.Value()), "item of front %d dominates item of front %d", i, j)
				}
			}
		}
	}

	for k, item := range items {
		assert.Contains(t, fronts[ranks[k]], item)
	}
}

func TestNonDominatedSortLayers(t *testing.T) {
	items := []point{{3, 3}, {1, 1}, {2, 2}, {0, 4}, {4, 0}, {1, 1}}
	fronts, ranks := NonDominatedSort(items, Dominates)

	assert.Equal(t, [][]point{
		{{1, 1}, {0, 4}, {4, 0}, {1, 1}},
		{{2, 2}},
		{{3, 3}},
	}, fronts)
	assert.Equal(t, []int{2, 0, 1, 0, 0, 0}, ranks)
}

func TestNonDominatedSortEmpty(t *testing.T) {
	fronts, ranks := NonDominatedSort([]point{}, Dominates)
	assert.Empty(t, fronts)
	assert.Empty(t, ranks)
}

func TestMaximal(t *testing.T) {
	points := []ObjectiveSpacePoint{{0.5, 0.5}, {0.75, 0.75}, {0, 1}, {0.5, 0.5}}
	got := Maximal(points, InverselyDominates)
	assert.Equal(t, []ObjectiveSpacePoint{{0.5, 0.5}, {0, 1}}, got)
}
