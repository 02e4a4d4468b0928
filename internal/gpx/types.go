package gpx

import (
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/planbiir/gsimplify/internal/trace"
)

// Point represents a GPS track point flattened out of its track and segment
type Point struct {
	Lat  float64
	Lon  float64
	Time time.Time

	// Position in the source document, used to rebuild it
	TrackIdx, SegIdx, PtIdx int
}

// Timed converts to the form the reduction pipeline consumes
func (p Point) Timed() trace.TimedPoint {
	return trace.TimedPoint{
		Point: trace.Point{Lat: p.Lat, Lon: p.Lon},
		Time:  p.Time,
	}
}

// Document wraps a parsed GPX file. All attributes of the source points
// (elevation, extensions, names) survive a rebuild untouched.
type Document struct {
	gpx *gpxgo.GPX
}

// NewDocument wraps an already parsed GPX tree
func NewDocument(g *gpxgo.GPX) *Document {
	return &Document{gpx: g}
}

// Tracks returns the number of tracks in the document
func (d *Document) Tracks() int {
	return len(d.gpx.Tracks)
}
