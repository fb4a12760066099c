package framework

import "math"

// Hypervolume computes the volume of the union of the boxes spanned by each
// point and the reference point ref. Objectives are minimised, so ref is the
// worst corner. Points that are not strictly better than ref on every axis
// span nothing and are ignored, as are dominated points.
//
// The computation is exact. Every maximal point starts as the lower vertex of
// the box [x, ref). A vertex is popped from a stack, the cell between it and
// its opposite vertex is added unless a remaining box already covers it, and
// the rest of its box is split into slabs, one per axis, which are pushed
// back. The slab spawned along axis i is capped at the opposite vertex on
// every axis below i, so slabs never overlap. Slabs already inside a single
// remaining box are dropped.
func Hypervolume(ref ObjectiveSpacePoint, points []ObjectiveSpacePoint) float64 {
	inside := make([]ObjectiveSpacePoint, 0, len(points))
	for _, p := range points {
		if strictlyBelow(p, ref) {
			inside = append(inside, p)
		}
	}

	maximal := Maximal(inside, InverselyDominates)
	stack := make([]box, len(maximal))
	for i, x := range maximal {
		stack[i] = box{lo: x, hi: ref}
	}

	volume := 0.0
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v := oppositeVertex(top, stack)
		if !coveredPoint(top.lo, stack) {
			volume += volumeBetween(top.lo, v)
		}

		// Spawned vertices go to the bottom of the stack.
		spawned := spawns(top, v, stack)
		if len(spawned) > 0 {
			stack = append(spawned, stack...)
		}
	}
	return volume
}

// HypervolumeRatio returns Hypervolume(ref, points) / volume, where volume is
// the hypervolume of the true front of the problem.
func HypervolumeRatio(ref ObjectiveSpacePoint, points []ObjectiveSpacePoint, volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return Hypervolume(ref, points) / volume
}

// box is the half-open region [lo, hi).
type box struct {
	lo ObjectiveSpacePoint
	hi ObjectiveSpacePoint
}

func (b box) contains(p ObjectiveSpacePoint) bool {
	for i := range p {
		if p[i] < b.lo[i] || p[i] >= b.hi[i] {
			return false
		}
	}
	return true
}

func (b box) encloses(o box) bool {
	for i := range b.lo {
		if o.lo[i] < b.lo[i] || o.hi[i] > b.hi[i] {
			return false
		}
	}
	return true
}

func strictlyBelow(p, ref ObjectiveSpacePoint) bool {
	for i := range ref {
		if !(p[i] < ref[i]) {
			return false
		}
	}
	return true
}

// volumeBetween computes the volume of the box spanned by a and b.
func volumeBetween(a, b ObjectiveSpacePoint) float64 {
	v := 1.0
	for i := range a {
		v *= math.Abs(a[i] - b[i])
	}
	return v
}

// oppositeVertex finds, for every axis, the smallest corner coordinate of
// the remaining boxes that is strictly greater than b's lower vertex,
// defaulting to b's own upper corner. No remaining box boundary crosses the
// cell between b.lo and the result.
func oppositeVertex(b box, rest []box) ObjectiveSpacePoint {
	v := make(ObjectiveSpacePoint, len(b.lo))
	for i := range b.lo {
		best := b.hi[i]
		for _, r := range rest {
			if r.lo[i] > b.lo[i] && r.lo[i] < best {
				best = r.lo[i]
			}
			if r.hi[i] > b.lo[i] && r.hi[i] < best {
				best = r.hi[i]
			}
		}
		v[i] = best
	}
	return v
}

func coveredPoint(p ObjectiveSpacePoint, rest []box) bool {
	for _, r := range rest {
		if r.contains(p) {
			return true
		}
	}
	return false
}

// spawns splits b minus the cell [b.lo, v) into disjoint slabs and keeps the
// non-empty ones that no remaining box encloses.
func spawns(b box, v ObjectiveSpacePoint, rest []box) []box {
	var result []box
	for i := range b.lo {
		if v[i] >= b.hi[i] {
			continue
		}
		lo := make(ObjectiveSpacePoint, len(b.lo))
		copy(lo, b.lo)
		lo[i] = v[i]

		hi := make(ObjectiveSpacePoint, len(b.hi))
		copy(hi, b.hi)
		copy(hi[:i], v[:i])

		slab := box{lo: lo, hi: hi}
		if slab.empty() {
			continue
		}

		enclosed := false
		for _, r := range rest {
			if r.encloses(slab) {
				enclosed = true
				break
			}
		}
		if !enclosed {
			result = append(result, slab)
		}
	}
	return result
}

func (b box) empty() bool {
	for i := range b.lo {
		if b.lo[i] >= b.hi[i] {
			return true
		}
	}
	return false
}
