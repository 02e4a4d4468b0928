package speed

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/planbiir/gsimplify/internal/trace"
)

// Profile holds one averaged speed (m/s) per edge of a simplified trace,
// together with the extremes a renderer needs for colour normalisation.
type Profile struct {
	Speeds []float64 `json:"speeds_ms"`
	Min    float64   `json:"min_speed_ms"`
	Max    float64   `json:"max_speed_ms"`
}

// Mean is the unweighted mean of the segment speeds.
func (p Profile) Mean() float64 {
	if len(p.Speeds) == 0 {
		return 0
	}
	return lo.Sum(p.Speeds) / float64(len(p.Speeds))
}

// EdgeSpeeds computes the speed of every consecutive pair of points as 2D
// distance over elapsed time. Pairs without a positive elapsed time (missing
// or equal timestamps, clock going backwards) get speed 0.
func EdgeSpeeds(points []trace.TimedPoint) []float64 {
	if len(points) < 2 {
		return nil
	}

	speeds := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		if prev.Time.IsZero() || curr.Time.IsZero() {
			continue
		}
		dt := curr.Time.Sub(prev.Time).Seconds()
		if dt <= 0 {
			continue
		}
		speeds[i-1] = trace.HaversineMeters(prev.Point, curr.Point) / dt
	}
	return speeds
}

// Aggregate averages edgeSpeeds over every edge of simplified by walking the
// full trace once and treating each point whose coordinates equal the next
// expected simplified point as a boundary.
//
// Points after the last boundary that repeat the final simplified point fold
// into the last segment. Matching is by value: a full trace that revisits a
// retained coordinate before its true position can be cut early, which is
// reported as ErrAggregation when other edges are left over.
// AggregateIndices has no such ambiguity.
func Aggregate(points []trace.Point, edgeSpeeds []float64, simplified []trace.Point) (Profile, error) {
	if err := checkSpeeds(points, edgeSpeeds); err != nil {
		return Profile{}, err
	}
	if len(simplified) < 2 {
		return Profile{}, errors.Wrapf(trace.ErrInvalidInput, "simplified trace needs at least 2 points, got %d", len(simplified))
	}
	if simplified[0] != points[0] {
		return Profile{}, errors.Wrapf(trace.ErrAggregation, "simplified trace starts at %v, full trace at %v", simplified[0], points[0])
	}

	indices := make([]int, 1, len(simplified))
	next := 1
	for i := 1; i < len(points) && next < len(simplified); i++ {
		if points[i] == simplified[next] {
			indices = append(indices, i)
			next++
		}
	}

	if next < len(simplified) {
		return Profile{}, errors.Wrapf(trace.ErrAggregation, "matched %d of %d simplified points", next, len(simplified))
	}
	// A device standing still repeats its final fix; those edges belong to
	// the last segment. Anything else after the last boundary was cut early.
	last := indices[len(indices)-1]
	for i := last + 1; i < len(points); i++ {
		if points[i] != simplified[len(simplified)-1] {
			return Profile{}, errors.Wrapf(trace.ErrAggregation, "last boundary matched at point %d, %d edges unaccounted", last, len(points)-1-last)
		}
	}
	indices[len(indices)-1] = len(points) - 1

	return fold(edgeSpeeds, indices), nil
}

// AggregateIndices averages edgeSpeeds over the edges between consecutive
// retained positions. indices must start at 0, end at len(edgeSpeeds) and be
// strictly increasing.
func AggregateIndices(edgeSpeeds []float64, indices []int) (Profile, error) {
	if len(edgeSpeeds) == 0 {
		return Profile{}, errors.Wrap(trace.ErrInvalidInput, "no edge speeds")
	}
	if len(indices) < 2 {
		return Profile{}, errors.Wrapf(trace.ErrInvalidInput, "need at least 2 retained positions, got %d", len(indices))
	}
	if indices[0] != 0 || indices[len(indices)-1] != len(edgeSpeeds) {
		return Profile{}, errors.Wrapf(trace.ErrAggregation, "retained positions span [%d, %d], trace spans [0, %d]",
			indices[0], indices[len(indices)-1], len(edgeSpeeds))
	}
	for k := 1; k < len(indices); k++ {
		if indices[k] <= indices[k-1] {
			return Profile{}, errors.Wrapf(trace.ErrAggregation, "retained positions not increasing at %d", k)
		}
	}

	return fold(edgeSpeeds, indices), nil
}

func checkSpeeds(points []trace.Point, edgeSpeeds []float64) error {
	if len(edgeSpeeds) == 0 {
		return errors.Wrap(trace.ErrInvalidInput, "no edge speeds")
	}
	if len(edgeSpeeds) != len(points)-1 {
		return errors.Wrapf(trace.ErrInvalidInput, "%d edge speeds for %d points", len(edgeSpeeds), len(points))
	}
	return nil
}

// fold reduces validated boundaries into per-segment means and their range.
func fold(edgeSpeeds []float64, indices []int) Profile {
	speeds := make([]float64, len(indices)-1)
	for k := 1; k < len(indices); k++ {
		span := edgeSpeeds[indices[k-1]:indices[k]]
		speeds[k-1] = lo.Sum(span) / float64(len(span))
	}
	return Profile{
		Speeds: speeds,
		Min:    lo.Min(speeds),
		Max:    lo.Max(speeds),
	}
}
