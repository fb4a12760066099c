package framework

import "slices"

// DominanceFunc is a strict order over objective vectors: it reports whether
// a is better than b.
type DominanceFunc func(a, b ObjectiveSpacePoint) bool

// Dominates checks if a dominates b under minimisation: a is no worse in
// every objective and strictly better in at least one.
func Dominates(a, b ObjectiveSpacePoint) bool {
	better := false
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			better = true
		}
	}
	return better
}

// InverselyDominates is Dominates with the arguments flipped, i.e. dominance
// under maximisation.
func InverselyDominates(a, b ObjectiveSpacePoint) bool {
	return Dominates(b, a)
}

// WeaklyDominates checks if a is no worse than b in every objective.
func WeaklyDominates(a, b ObjectiveSpacePoint) bool {
	for i := 0; i < len(a); i++ {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

// NonDominatedSort partitions items into fronts. No item of front i is
// dominated by an item of a front j < i, and no item dominates another one of
// its own front. ranks[k] is the index of the front holding items[k]. Within a
// front, items keep their input order.
func NonDominatedSort[T Valued](items []T, dominates DominanceFunc) ([][]T, []int) {
	if len(items) == 0 {
		return nil, nil
	}

	dominated := make([][]int, len(items))
	domCount := make([]int, len(items))
	ranks := make([]int, len(items))

	values := Values(items)
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if dominates(values[i], values[j]) {
				dominated[i] = append(dominated[i], j)
				domCount[j]++
			} else if dominates(values[j], values[i]) {
				dominated[j] = append(dominated[j], i)
				domCount[i]++
			}
		}
	}

	// Find first front
	var current []int
	for i := range items {
		if domCount[i] == 0 {
			current = append(current, i)
		}
	}

	var fronts [][]T
	for frontIndex := 0; len(current) > 0; frontIndex++ {
		front := make([]T, len(current))
		var next []int
		for k, idx := range current {
			ranks[idx] = frontIndex
			front[k] = items[idx]
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					next = append(next, dominatedIdx)
				}
			}
		}
		fronts = append(fronts, front)
		slices.Sort(next)
		current = next
	}

	return fronts, ranks
}

// Maximal returns the elements of points that are not beaten by any other
// element under less. Exact duplicates are collapsed to their first occurrence.
func Maximal(points []ObjectiveSpacePoint, less DominanceFunc) []ObjectiveSpacePoint {
	var result []ObjectiveSpacePoint
outer:
	for i, x := range points {
		for j, y := range points {
			if i == j {
				continue
			}
			if less(x, y) {
				continue outer
			}
			if j < i && equal(x, y) {
				continue outer
			}
		}
		result = append(result, x)
	}
	return result
}

func equal(a, b ObjectiveSpacePoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
