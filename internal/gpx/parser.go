package gpx

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/planbiir/gsimplify/internal/trace"
)

// Parse reads and parses a GPX file
func Parse(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*Document, error) {
	g, err := gpxgo.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse GPX")
	}

	if g.Version == "" {
		g.Version = "1.1"
	}
	if g.Creator == "" {
		g.Creator = "gsimplify"
	}

	return NewDocument(g), nil
}

// Write saves the document to a file
func (d *Document) Write(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	if err := d.WriteTo(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteTo writes the document as GPX 1.1 XML
func (d *Document) WriteTo(w io.Writer) error {
	data, err := d.gpx.ToXml(gpxgo.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return errors.Wrap(err, "failed to encode GPX")
	}

	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write GPX")
	}
	return nil
}

// FlattenPoints returns all points from all tracks and segments in order
func (d *Document) FlattenPoints() []Point {
	var points []Point

	for trackIdx, track := range d.gpx.Tracks {
		for segIdx, segment := range track.Segments {
			for ptIdx, p := range segment.Points {
				points = append(points, Point{
					Lat:      p.Latitude,
					Lon:      p.Longitude,
					Time:     p.Timestamp,
					TrackIdx: trackIdx,
					SegIdx:   segIdx,
					PtIdx:    ptIdx,
				})
			}
		}
	}

	return points
}

// TimedPoints converts flattened points for the reduction pipeline
func TimedPoints(points []Point) []trace.TimedPoint {
	return lo.Map(points, func(p Point, _ int) trace.TimedPoint {
		return p.Timed()
	})
}

// RebuildFromIndices keeps only the flattened points at the given positions,
// dropping segments and tracks that end up empty.
func (d *Document) RebuildFromIndices(indices []int) {
	flat := d.FlattenPoints()

	// Group retained points back into their original track/segment structure
	kept := make(map[int]map[int][]gpxgo.GPXPoint)
	for _, idx := range indices {
		p := flat[idx]
		if kept[p.TrackIdx] == nil {
			kept[p.TrackIdx] = make(map[int][]gpxgo.GPXPoint)
		}
		src := d.gpx.Tracks[p.TrackIdx].Segments[p.SegIdx].Points[p.PtIdx]
		kept[p.TrackIdx][p.SegIdx] = append(kept[p.TrackIdx][p.SegIdx], src)
	}

	var newTracks []gpxgo.GPXTrack
	for trackIdx, track := range d.gpx.Tracks {
		segmentMap, exists := kept[trackIdx]
		if !exists {
			continue
		}

		var newSegments []gpxgo.GPXTrackSegment
		for segIdx, segment := range track.Segments {
			if points := segmentMap[segIdx]; len(points) > 0 {
				segment.Points = points
				newSegments = append(newSegments, segment)
			}
		}

		if len(newSegments) > 0 {
			track.Segments = newSegments
			newTracks = append(newTracks, track)
		}
	}

	d.gpx.Tracks = newTracks
}

// Stats returns basic statistics about the document
func (d *Document) Stats() (pointCount int, trackCount int, segmentCount int, duration time.Duration, distance float64) {
	points := d.FlattenPoints()
	pointCount = len(points)
	trackCount = d.Tracks()

	for _, track := range d.gpx.Tracks {
		segmentCount += len(track.Segments)
	}

	if len(points) >= 2 {
		duration = points[len(points)-1].Time.Sub(points[0].Time)
		distance = trace.Length(trace.Points(TimedPoints(points))) / 1000
	}

	return
}
