package reduce

import (
	"time"

	"github.com/pkg/errors"

	"github.com/planbiir/gsimplify/internal/speed"
	"github.com/planbiir/gsimplify/internal/trace"
)

// MatchMode selects how segment speeds are lined up with the simplified trace
type MatchMode string

const (
	// MatchIndex aggregates over the positions the simplifier retained
	MatchIndex MatchMode = "index"
	// MatchValue finds boundaries by coordinate equality against the full trace
	MatchValue MatchMode = "value"
)

// ParseMatchMode accepts "index" or "value"
func ParseMatchMode(s string) (MatchMode, error) {
	switch m := MatchMode(s); m {
	case MatchIndex, MatchValue:
		return m, nil
	}
	return "", errors.Errorf("unknown matching mode %q (want %q or %q)", s, MatchIndex, MatchValue)
}

// Config holds reduction parameters
type Config struct {
	// Epsilon is the largest perpendicular deviation, in degrees, a removed
	// point may have from the chord replacing it
	Epsilon float64

	Matching MatchMode
}

// DefaultConfig returns the configuration used when the caller has no
// per-trace preference
func DefaultConfig() Config {
	return Config{
		Epsilon:  0.001, // ~110m of latitude
		Matching: MatchIndex,
	}
}

// Stats represents reduction results and metrics
type Stats struct {
	// Input
	OriginalPoints   int     `json:"original_points"`
	OriginalDistance float64 `json:"original_distance_km"`

	// Results
	FinalPoints     int     `json:"final_points"`
	PointsRemoved   int     `json:"points_removed"`
	PointsPercent   float64 `json:"points_removed_percent"`
	FinalDistance   float64 `json:"final_distance_km"`
	DistancePercent float64 `json:"distance_reduced_percent"`
	MaxDeviation    float64 `json:"max_deviation"`

	// Segment speeds
	MinSpeed  float64 `json:"min_speed_ms"`
	MaxSpeed  float64 `json:"max_speed_ms"`
	MeanSpeed float64 `json:"mean_speed_ms"`

	// Parameters
	Epsilon  float64   `json:"epsilon"`
	Matching MatchMode `json:"matching"`

	// Performance
	ProcessingTime time.Duration `json:"processing_time_ns"`
}

// Result contains the simplified trace, its speed profile and statistics
type Result struct {
	Points  []trace.Point
	Indices []int
	Profile speed.Profile
	Stats   Stats
}
