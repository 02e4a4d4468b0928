package gpx

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoSegments = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
	<trk>
		<name>Test Track</name>
		<trkseg>
			<trkpt lat="46.0" lon="7.0">
				<ele>1000</ele>
				<time>2025-01-01T10:00:00Z</time>
			</trkpt>
			<trkpt lat="46.001" lon="7.001">
				<ele>1005</ele>
				<time>2025-01-01T10:01:00Z</time>
			</trkpt>
			<trkpt lat="46.002" lon="7.002">
				<ele>1010</ele>
				<time>2025-01-01T10:02:00Z</time>
			</trkpt>
		</trkseg>
		<trkseg>
			<trkpt lat="46.003" lon="7.003">
				<ele>1015</ele>
				<time>2025-01-01T10:03:00Z</time>
			</trkpt>
		</trkseg>
	</trk>
</gpx>`

func parseString(t *testing.T, content string) *Document {
	t.Helper()
	doc, err := ParseReader(strings.NewReader(content))
	require.NoError(t, err)
	return doc
}

func TestParseReader(t *testing.T) {
	doc := parseString(t, twoSegments)

	assert.Equal(t, 1, doc.Tracks())

	points := doc.FlattenPoints()
	require.Len(t, points, 4)

	assert.Equal(t, 46.0, points[0].Lat)
	assert.Equal(t, 7.0, points[0].Lon)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), points[0].Time.UTC())
}

func TestParseReaderInvalid(t *testing.T) {
	_, err := ParseReader(strings.NewReader("<gpx><trk>"))
	assert.Error(t, err)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.gpx"))
	assert.ErrorContains(t, err, "failed to open file")
}

func TestFlattenPoints(t *testing.T) {
	points := parseString(t, twoSegments).FlattenPoints()

	// Check indices are set correctly
	assert.Equal(t, [3]int{0, 0, 0}, [3]int{points[0].TrackIdx, points[0].SegIdx, points[0].PtIdx})
	assert.Equal(t, [3]int{0, 0, 2}, [3]int{points[2].TrackIdx, points[2].SegIdx, points[2].PtIdx})
	assert.Equal(t, [3]int{0, 1, 0}, [3]int{points[3].TrackIdx, points[3].SegIdx, points[3].PtIdx})
}

func TestTimedPoints(t *testing.T) {
	timed := TimedPoints(parseString(t, twoSegments).FlattenPoints())

	require.Len(t, timed, 4)
	assert.Equal(t, 46.003, timed[3].Lat)
	assert.Equal(t, 7.003, timed[3].Lon)
	assert.False(t, timed[3].Time.IsZero())
}

func TestRebuildFromIndices(t *testing.T) {
	doc := parseString(t, twoSegments)

	// Drop the middle point of the first segment
	doc.RebuildFromIndices([]int{0, 2, 3})

	points := doc.FlattenPoints()
	require.Len(t, points, 3)
	assert.Equal(t, 46.002, points[1].Lat)
	assert.Equal(t, 1, points[2].SegIdx)

	// Track name and elevation survive the round trip
	var buf bytes.Buffer
	require.NoError(t, doc.WriteTo(&buf))
	assert.Contains(t, buf.String(), "Test Track")
	assert.Contains(t, buf.String(), "1010")
	assert.NotContains(t, buf.String(), "1005")
}

func TestRebuildDropsEmptySegments(t *testing.T) {
	doc := parseString(t, twoSegments)

	doc.RebuildFromIndices([]int{0, 2})

	_, trackCount, segmentCount, _, _ := doc.Stats()
	assert.Equal(t, 1, trackCount)
	assert.Equal(t, 1, segmentCount)
}

func TestWriteAndParse(t *testing.T) {
	doc := parseString(t, twoSegments)
	path := filepath.Join(t.TempDir(), "out.gpx")

	require.NoError(t, doc.Write(path))

	again, err := Parse(path)
	require.NoError(t, err)

	want, got := doc.FlattenPoints(), again.FlattenPoints()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Lat, got[i].Lat)
		assert.Equal(t, want[i].Lon, got[i].Lon)
		assert.True(t, want[i].Time.Equal(got[i].Time))
	}
}

func TestStats(t *testing.T) {
	pointCount, trackCount, segmentCount, duration, distance := parseString(t, twoSegments).Stats()

	assert.Equal(t, 4, pointCount)
	assert.Equal(t, 1, trackCount)
	assert.Equal(t, 2, segmentCount)
	assert.Equal(t, 3*time.Minute, duration)
	assert.InDelta(t, 0.41, distance, 0.03)
}
