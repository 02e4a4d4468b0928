package trace

import (
	"time"

	"github.com/pkg/errors"
)

// Point is a (latitude, longitude) pair. Two points with equal coordinates
// are indistinguishable.
type Point struct {
	Lat float64
	Lon float64
}

// TimedPoint is a trace point as delivered by a trace reader. A zero Time
// means the point carries no timestamp.
type TimedPoint struct {
	Point
	Time time.Time
}

var (
	// ErrInvalidInput reports input that has no defined simplification or
	// aggregation (too few points, bad tolerance, empty speeds).
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeometryDegenerate reports an anchor segment whose endpoints coincide.
	ErrGeometryDegenerate = errors.New("degenerate anchor segment")

	// ErrAggregation reports a simplified trace that is not a subsequence of
	// the full trace it is aggregated against.
	ErrAggregation = errors.New("simplified trace does not match full trace")
)

// Points strips timestamps.
func Points(tps []TimedPoint) []Point {
	out := make([]Point, len(tps))
	for i, tp := range tps {
		out[i] = tp.Point
	}
	return out
}

// Select returns the points at the given positions.
func Select(points []Point, indices []int) []Point {
	out := make([]Point, len(indices))
	for i, idx := range indices {
		out[i] = points[idx]
	}
	return out
}
