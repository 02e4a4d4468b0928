package simplify

import (
	"math"

	"github.com/pkg/errors"

	"github.com/planbiir/gsimplify/internal/trace"
)

// span is a closed range [start, end] of trace positions still to be examined.
type span struct {
	start, end int
}

// Simplify reduces points with the Douglas-Peucker algorithm so that every
// removed point lies within epsilon of the chord replacing it. The first and
// last points are always kept.
func Simplify(points []trace.Point, epsilon float64) ([]trace.Point, error) {
	indices, err := Indices(points, epsilon)
	if err != nil {
		return nil, err
	}
	return trace.Select(points, indices), nil
}

// Indices runs the same reduction as Simplify but returns the positions of
// the retained points in ascending order.
func Indices(points []trace.Point, epsilon float64) ([]int, error) {
	if len(points) < 2 {
		return nil, errors.Wrapf(trace.ErrInvalidInput, "need at least 2 points, got %d", len(points))
	}
	if !(epsilon > 0) || math.IsInf(epsilon, 1) {
		return nil, errors.Wrapf(trace.ErrInvalidInput, "epsilon must be positive and finite, got %v", epsilon)
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true
	found := 2

	// Ranges are independent once split, so a work list visits the same
	// ranges the recursive formulation would and marks the same points.
	stack := []span{{0, len(points) - 1}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		index, dmax := farthest(points, s)
		if dmax > epsilon {
			keep[index] = true
			found++
			stack = append(stack, span{index, s.end}, span{s.start, index})
		}
	}

	out := make([]int, 0, found)
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}
	return out, nil
}

// farthest returns the first interior point with the largest perpendicular
// distance to the anchor of s. A degenerate anchor reports distance 0 for
// every interior point.
func farthest(points []trace.Point, s span) (int, float64) {
	if s.end-s.start < 2 {
		return s.start, 0
	}

	chord, err := trace.NewChord(points[s.start], points[s.end])
	if err != nil {
		return s.start, 0
	}

	index, dmax := s.start, 0.0
	for i := s.start + 1; i < s.end; i++ {
		if d := chord.Distance(points[i]); d > dmax {
			index, dmax = i, d
		}
	}
	return index, dmax
}

// MaxDeviation returns the largest perpendicular distance between a removed
// point and the chord of its retained neighbours. kept must be ascending
// positions into points that include the first and last point.
//
// Between coinciding neighbours, such as the ends of a collapsed loop, the
// distance to the shared point is used instead of the zero the simplifier
// assumes.
func MaxDeviation(points []trace.Point, kept []int) float64 {
	var worst float64
	for k := 1; k < len(kept); k++ {
		s := span{kept[k-1], kept[k]}
		if points[s.start] == points[s.end] {
			worst = math.Max(worst, radius(points, s))
			continue
		}
		_, d := farthest(points, s)
		worst = math.Max(worst, d)
	}
	return worst
}

// radius is the largest planar distance from an interior point of s to its
// start.
func radius(points []trace.Point, s span) float64 {
	var r float64
	a := points[s.start]
	for i := s.start + 1; i < s.end; i++ {
		r = math.Max(r, math.Hypot(points[i].Lat-a.Lat, points[i].Lon-a.Lon))
	}
	return r
}
