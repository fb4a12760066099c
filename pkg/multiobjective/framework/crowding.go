package framework

import (
	"math"
	"sort"
)

// CrowdingDistance calculates crowding distance for individuals in a front.
// The result is aligned with front, which is left untouched. When ranges is
// nil the observed extent of the front on every axis is used instead. An axis
// of zero width adds nothing.
func CrowdingDistance[T Valued](front []T, ranges []Bounds) []float64 {
	distance := make([]float64, len(front))
	if len(front) <= 2 {
		for i := range distance {
			distance[i] = math.Inf(1)
		}
		return distance
	}

	values := Values(front)
	numObjectives := len(values[0])
	order := make([]int, len(front))

	for m := 0; m < numObjectives; m++ {
		for i := range order {
			order[i] = i
		}
		// Sort by each objective
		sort.SliceStable(order, func(i, j int) bool {
			return values[order[i]][m] < values[order[j]][m]
		})

		first, last := order[0], order[len(order)-1]
		distance[first] = math.Inf(1)
		distance[last] = math.Inf(1)

		objectiveRange := values[last][m] - values[first][m]
		if ranges != nil {
			objectiveRange = ranges[m].Width()
		}
		if objectiveRange <= 0 {
			continue
		}

		for i := 1; i < len(order)-1; i++ {
			distance[order[i]] += (values[order[i+1]][m] - values[order[i-1]][m]) / objectiveRange
		}
	}
	return distance
}

// SelectByCrowding keeps the n most isolated members of front. Equal crowding
// values keep their input order.
func SelectByCrowding[T any](front []T, distance []float64, n int) []T {
	if n >= len(front) {
		return append([]T(nil), front...)
	}
	if n <= 0 {
		return nil
	}
	order := make([]int, len(front))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return distance[order[i]] > distance[order[j]]
	})

	selected := make([]T, n)
	for i := range n {
		selected[i] = front[order[i]]
	}
	return selected
}
