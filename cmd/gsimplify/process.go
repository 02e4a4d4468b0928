package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/planbiir/gsimplify/internal/config"
	"github.com/planbiir/gsimplify/internal/gpx"
	"github.com/planbiir/gsimplify/internal/reduce"
	"github.com/planbiir/gsimplify/internal/render"
)

// report is the outcome for one input file
type report struct {
	input  string
	output string
	result reduce.Result
}

type fileStats struct {
	Input  string       `json:"input"`
	Output string       `json:"output,omitempty"`
	Stats  reduce.Stats `json:"stats"`
}

func (r report) fileStats() fileStats {
	return fileStats{Input: r.input, Output: r.output, Stats: r.result.Stats}
}

// run processes every input, at most cfg.Workers at a time. The first
// failure cancels files that have not started yet.
func run(cfg config.Config, opts options) ([]report, error) {
	reports := make([]report, len(opts.inputs))

	var bar *progressbar.ProgressBar
	if len(opts.inputs) > 1 {
		bar = progressbar.NewOptions(len(opts.inputs),
			progressbar.OptionSetDescription("simplifying"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Workers)

	for i, input := range opts.inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			r, err := processFile(input, cfg, opts)
			if err != nil {
				return errors.Wrap(err, input)
			}
			reports[i] = r

			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// processFile reads, reduces and writes the outputs for one GPX file
func processFile(input string, cfg config.Config, opts options) (report, error) {
	log := logrus.WithField("file", filepath.Base(input))

	log.Debug("reading GPX file")
	doc, err := gpx.Parse(input)
	if err != nil {
		return report{}, err
	}

	pointCount, trackCount, segmentCount, duration, distance := doc.Stats()
	log.WithFields(logrus.Fields{
		"points":      pointCount,
		"tracks":      trackCount,
		"segments":    segmentCount,
		"duration":    duration,
		"distance_km": distance,
	}).Info("track loaded")

	points := doc.FlattenPoints()

	result, err := reduce.Reduce(gpx.TimedPoints(points), cfg.Reduce)
	if err != nil {
		return report{}, err
	}

	r := report{input: input, result: result}
	if opts.dryRun {
		return r, nil
	}

	r.output = opts.outputFile
	if r.output == "" {
		r.output = strings.TrimSuffix(input, filepath.Ext(input)) + "_simplified" + filepath.Ext(input)
	}
	// Side outputs sit next to the GPX output and share its name
	base := strings.TrimSuffix(r.output, filepath.Ext(r.output))

	if opts.png {
		if err := cfg.Render.Validate(); err != nil {
			return report{}, err
		}
	}

	doc.RebuildFromIndices(result.Indices)
	if err := doc.Write(r.output); err != nil {
		return report{}, err
	}
	log.WithField("output", r.output).Info("simplified track written")

	if opts.png {
		if err := writePNG(base+".png", result, cfg.Render); err != nil {
			return report{}, err
		}
	}
	if opts.geojson {
		data, err := render.GeoJSON(result.Points, result.Profile)
		if err != nil {
			return report{}, err
		}
		if err := os.WriteFile(base+".geojson", data, 0o644); err != nil {
			return report{}, errors.Wrap(err, "write GeoJSON")
		}
	}
	if opts.polyline {
		encoded := render.Polyline(result.Points) + "\n"
		if err := os.WriteFile(base+".polyline", []byte(encoded), 0o644); err != nil {
			return report{}, errors.Wrap(err, "write polyline")
		}
	}

	return r, nil
}

func writePNG(path string, result reduce.Result, opts render.Options) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create PNG")
	}
	defer file.Close()

	if err := render.PNG(file, result.Points, result.Profile, opts); err != nil {
		return err
	}
	return file.Close()
}
