package render

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	polyline "github.com/twpayne/go-polyline"

	"github.com/planbiir/gsimplify/internal/speed"
	"github.com/planbiir/gsimplify/internal/trace"
)

// GeoJSON encodes one LineString feature per simplified segment, carrying
// its averaged speed and the speed normalised against the profile's range.
func GeoJSON(pts []trace.Point, profile speed.Profile) ([]byte, error) {
	if len(profile.Speeds) != len(pts)-1 {
		return nil, errors.Wrapf(trace.ErrInvalidInput, "%d segment speeds for %d points", len(profile.Speeds), len(pts))
	}

	ls := trace.Orb(pts)
	fc := geojson.NewFeatureCollection()
	for i, v := range profile.Speeds {
		f := geojson.NewFeature(orb.LineString{ls[i], ls[i+1]})
		f.Properties["index"] = i
		f.Properties["speed_ms"] = v
		f.Properties["speed_norm"] = Normalize(v, profile.Min, profile.Max)
		fc.Append(f)
	}

	data, err := fc.MarshalJSON()
	return data, errors.Wrap(err, "encode GeoJSON")
}

// Polyline encodes the trace in Google's encoded polyline format.
func Polyline(pts []trace.Point) string {
	coords := make([][]float64, len(pts))
	for i, p := range pts {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}
