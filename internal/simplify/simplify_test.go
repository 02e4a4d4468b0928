package simplify

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gsimplify/internal/trace"
)

// recursive is the textbook formulation, kept here to check the work-list
// version against.
func recursive(points []trace.Point, epsilon float64) []trace.Point {
	end := len(points) - 1
	dmax, index := 0.0, 0
	if chord, err := trace.NewChord(points[0], points[end]); err == nil {
		for i := 1; i < end; i++ {
			if d := chord.Distance(points[i]); d > dmax {
				index, dmax = i, d
			}
		}
	}
	if dmax > epsilon {
		left := recursive(points[:index+1], epsilon)
		right := recursive(points[index:], epsilon)
		return append(left[:len(left)-1:len(left)-1], right...)
	}
	return []trace.Point{points[0], points[end]}
}

func randomWalk(rng *rand.Rand, n int) []trace.Point {
	points := make([]trace.Point, n)
	lat, lon := 46.0, 7.0
	for i := range points {
		lat += (rng.Float64() - 0.5) * 0.002
		lon += (rng.Float64() - 0.3) * 0.002
		points[i] = trace.Point{Lat: lat, Lon: lon}
	}
	return points
}

func TestSimplifyKeepsOutlier(t *testing.T) {
	points := []trace.Point{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {5, 1.5}, {0, 4}, {0, 5}}

	got, err := Simplify(points, 1.0)
	require.NoError(t, err)

	assert.Contains(t, got, trace.Point{Lat: 0, Lon: 0})
	assert.Contains(t, got, trace.Point{Lat: 5, Lon: 1.5})
	assert.Contains(t, got, trace.Point{Lat: 0, Lon: 5})
	assert.Less(t, len(got), len(points))
}

func TestSimplifyCollinear(t *testing.T) {
	points := []trace.Point{{0, 0}, {0, 1}, {0, 2}}

	got, err := Simplify(points, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []trace.Point{{0, 0}, {0, 2}}, got)
}

func TestSimplifyTwoPoints(t *testing.T) {
	points := []trace.Point{{1, 2}, {3, 4}}

	got, err := Simplify(points, 0.1)
	require.NoError(t, err)
	assert.Equal(t, points, got)
}

func TestSimplifyTieKeepsFirst(t *testing.T) {
	// Both interior points are 2 away from the anchor; the earlier one is the
	// split point, after which the later one falls within tolerance.
	points := []trace.Point{{0, 0}, {2, 1}, {2, 2}, {0, 3}}

	indices, err := Indices(points, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, indices)
}

func TestSimplifyDegenerateAnchor(t *testing.T) {
	// A closed loop: first and last points coincide.
	points := []trace.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}

	got, err := Simplify(points, 0.1)
	require.NoError(t, err)
	assert.Equal(t, []trace.Point{{0, 0}, {0, 0}}, got)
}

func TestSimplifyLoopMatchesRecursive(t *testing.T) {
	points := []trace.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}, {2, 2}}

	got, err := Simplify(points, 0.1)
	require.NoError(t, err)
	assert.Equal(t, recursive(points, 0.1), got)
}

func TestSimplifyInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		points  []trace.Point
		epsilon float64
	}{
		{"empty", nil, 1},
		{"single point", []trace.Point{{1, 1}}, 1},
		{"zero epsilon", []trace.Point{{0, 0}, {1, 1}}, 0},
		{"negative epsilon", []trace.Point{{0, 0}, {1, 1}}, -1},
		{"nan epsilon", []trace.Point{{0, 0}, {1, 1}}, math.NaN()},
		{"infinite epsilon", []trace.Point{{0, 0}, {1, 1}}, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simplify(tt.points, tt.epsilon)
			assert.ErrorIs(t, err, trace.ErrInvalidInput)
		})
	}
}

func TestSimplifyMatchesRecursive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, eps := range []float64{0.0001, 0.0005, 0.001, 0.005} {
		points := randomWalk(rng, 500)

		got, err := Simplify(points, eps)
		require.NoError(t, err)
		assert.Equal(t, recursive(points, eps), got, "epsilon %v", eps)
	}
}

func TestSimplifyProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		points := randomWalk(rng, 2+rng.Intn(300))
		eps := 0.0001 + rng.Float64()*0.003

		indices, err := Indices(points, eps)
		require.NoError(t, err)
		simplified := trace.Select(points, indices)

		// endpoints survive
		assert.Equal(t, points[0], simplified[0])
		assert.Equal(t, points[len(points)-1], simplified[len(simplified)-1])

		// every removed point lies within epsilon of its chord
		assert.LessOrEqual(t, MaxDeviation(points, indices), eps)

		// re-simplifying changes nothing
		again, err := Simplify(simplified, eps)
		require.NoError(t, err)
		assert.Equal(t, simplified, again)

		// a looser tolerance never keeps more points
		looser, err := Simplify(points, eps*2)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(simplified), len(looser))

		for k := 1; k < len(indices); k++ {
			assert.Less(t, indices[k-1], indices[k])
		}
	}
}

func TestSimplifyLongTrace(t *testing.T) {
	// A zigzag with no removable points; every split peels a single point off
	// the front, the deepest possible recursion.
	n := 20_000
	points := make([]trace.Point, n)
	for i := range points {
		points[i] = trace.Point{Lat: float64(i), Lon: float64(i%2) * 10}
	}

	indices, err := Indices(points, 1)
	require.NoError(t, err)
	assert.Len(t, indices, n)
}

func TestMaxDeviation(t *testing.T) {
	points := []trace.Point{{0, 0}, {0, 1}, {0.3, 2}, {0, 3}}

	assert.InDelta(t, 0.3, MaxDeviation(points, []int{0, 3}), 1e-12)
	assert.Zero(t, MaxDeviation(points, []int{0, 1, 2, 3}))
}

func TestMaxDeviationCollapsedLoop(t *testing.T) {
	points := []trace.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}

	indices, err := Indices(points, 0.1)
	require.NoError(t, err)
	require.Equal(t, []int{0, 4}, indices)

	// The loop collapsed to a point; its corners are still that far away
	assert.InDelta(t, math.Sqrt2, MaxDeviation(points, indices), 1e-12)
}
