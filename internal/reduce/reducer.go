package reduce

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/planbiir/gsimplify/internal/simplify"
	"github.com/planbiir/gsimplify/internal/speed"
	"github.com/planbiir/gsimplify/internal/trace"
)

var log = logrus.WithField("module", "reduce")

// Reduce simplifies a timestamped trace and averages its edge speeds over the
// retained segments. Nothing is returned on failure.
func Reduce(points []trace.TimedPoint, config Config) (Result, error) {
	if len(points) < 2 {
		return Result{}, errors.Wrapf(trace.ErrInvalidInput, "need at least 2 points, got %d", len(points))
	}

	if config.Matching == "" {
		config.Matching = MatchIndex
	}
	if _, err := ParseMatchMode(string(config.Matching)); err != nil {
		return Result{}, err
	}

	startTime := time.Now()

	full := trace.Points(points)
	edgeSpeeds := speed.EdgeSpeeds(points)

	log.WithFields(logrus.Fields{
		"points":  len(full),
		"epsilon": config.Epsilon,
	}).Debug("simplifying trace")

	indices, err := simplify.Indices(full, config.Epsilon)
	if err != nil {
		return Result{}, errors.Wrap(err, "simplify")
	}
	simplified := trace.Select(full, indices)

	var profile speed.Profile
	if config.Matching == MatchValue {
		profile, err = speed.Aggregate(full, edgeSpeeds, simplified)
	} else {
		profile, err = speed.AggregateIndices(edgeSpeeds, indices)
	}
	if err != nil {
		return Result{}, errors.Wrap(err, "aggregate speeds")
	}

	originalDistance := trace.Length(full)
	finalDistance := trace.Length(simplified)

	stats := Stats{
		OriginalPoints:   len(full),
		OriginalDistance: originalDistance / 1000, // convert to km
		FinalPoints:      len(simplified),
		PointsRemoved:    len(full) - len(simplified),
		PointsPercent:    float64(len(full)-len(simplified)) / float64(len(full)) * 100,
		FinalDistance:    finalDistance / 1000, // convert to km
		MaxDeviation:     simplify.MaxDeviation(full, indices),
		MinSpeed:         profile.Min,
		MaxSpeed:         profile.Max,
		MeanSpeed:        profile.Mean(),
		Epsilon:          config.Epsilon,
		Matching:         config.Matching,
		ProcessingTime:   time.Since(startTime),
	}
	if originalDistance > 0 {
		stats.DistancePercent = (originalDistance - finalDistance) / originalDistance * 100
	}

	log.WithFields(logrus.Fields{
		"original": stats.OriginalPoints,
		"final":    stats.FinalPoints,
		"removed%": stats.PointsPercent,
		"elapsed":  stats.ProcessingTime,
	}).Info("trace reduced")

	return Result{
		Points:  simplified,
		Indices: indices,
		Profile: profile,
		Stats:   stats,
	}, nil
}
