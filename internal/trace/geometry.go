package trace

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Chord is the infinite planar line through two distinct points. Latitude
// plays x and longitude plays y.
type Chord struct {
	x1, y1, x2, y2 float64
	norm           float64
}

// NewChord returns the line through a and b, or ErrGeometryDegenerate when
// a and b coincide.
func NewChord(a, b Point) (Chord, error) {
	dx := b.Lat - a.Lat
	dy := b.Lon - a.Lon
	norm := math.Sqrt(dy*dy + dx*dx)
	if norm == 0 {
		return Chord{}, ErrGeometryDegenerate
	}
	return Chord{x1: a.Lat, y1: a.Lon, x2: b.Lat, y2: b.Lon, norm: norm}, nil
}

// Distance returns the perpendicular distance from p to the chord line.
func (c Chord) Distance(p Point) float64 {
	x0, y0 := p.Lat, p.Lon
	num := math.Abs((c.y2-c.y1)*x0 - (c.x2-c.x1)*y0 + c.x2*c.y1 - c.y2*c.x1)
	return num / c.norm
}

// PerpendicularDistance returns the distance from p to the line through a
// and b.
func PerpendicularDistance(p, a, b Point) (float64, error) {
	c, err := NewChord(a, b)
	if err != nil {
		return 0, err
	}
	return c.Distance(p), nil
}

// HaversineMeters is the 2D great-circle distance between a and b in meters.
// Only used for speeds and statistics; the simplifier stays planar.
func HaversineMeters(a, b Point) float64 {
	return geo.DistanceHaversine(a.orb(), b.orb())
}

// Length is the summed haversine length of a trace in meters.
func Length(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += HaversineMeters(points[i-1], points[i])
	}
	return total
}

// orb points are (lon, lat).
func (p Point) orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Orb converts a trace to an orb line string.
func Orb(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = p.orb()
	}
	return ls
}
