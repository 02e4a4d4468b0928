package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/planbiir/gsimplify/internal/config"
	"github.com/planbiir/gsimplify/internal/logger"
	"github.com/planbiir/gsimplify/internal/reduce"
)

const version = "v1.0.0"

// inputList collects repeated -i flags
type inputList []string

func (l *inputList) String() string { return strings.Join(*l, ",") }

func (l *inputList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// options are the command-line settings that are not part of config.Config
type options struct {
	inputs     []string
	outputFile string
	png        bool
	geojson    bool
	polyline   bool
	dryRun     bool
	showStats  bool
	statsJSON  bool
}

func main() {
	var (
		inputs     inputList
		outputFile = flag.String("o", "", "Output GPX file (default: <input>_simplified.gpx, single input only)")
		configFile = flag.String("config", "", "YAML configuration file")
		epsilon    = flag.Float64("epsilon", 0, "Simplification tolerance in degrees (default from config: 0.001)")
		matching   = flag.String("matching", "", "Segment speed matching: index or value")
		workers    = flag.Int("workers", 0, "Files processed concurrently")
		logLevel   = flag.String("log-level", "", "Log level [debug, info, warn, error]")
		png        = flag.Bool("png", false, "Plot the simplified trace coloured by speed (<input>_simplified.png)")
		geojson    = flag.Bool("geojson", false, "Write per-segment speeds as GeoJSON (<input>_simplified.geojson)")
		polyline   = flag.Bool("polyline", false, "Write the simplified trace as an encoded polyline (<input>_simplified.polyline)")
		dryRun     = flag.Bool("dry-run", false, "Show statistics without writing output files")
		showStats  = flag.Bool("stats", false, "Show detailed statistics")
		statsJSON  = flag.Bool("stats-json", false, "Output statistics as JSON")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Var(&inputs, "i", "Input GPX file (repeatable; positional arguments are inputs too)")

	flag.Usage = func() {
		fmt.Printf("gsimplify - Simplify GPX tracks and colour them by speed\n\n")
		fmt.Printf("usage: gsimplify -i /path/to/file.gpx [more.gpx ...]\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  gsimplify -i track.gpx\n")
		fmt.Printf("  gsimplify -epsilon 0.0002 -png -i \"My Activity.gpx\"\n")
		fmt.Printf("  gsimplify -stats-json -dry-run rides/*.gpx\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVer {
		fmt.Printf("gsimplify %s - GPX track simplifier\n", version)
		os.Exit(0)
	}

	all := lo.Uniq(append(inputs, flag.Args()...))
	if len(all) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *outputFile != "" && len(all) > 1 {
		fmt.Fprintf(os.Stderr, "Error: -o can only be used with a single input\n")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "epsilon":
			cfg.Reduce.Epsilon = *epsilon
		case "matching":
			cfg.Reduce.Matching = reduce.MatchMode(*matching)
		case "workers":
			cfg.Workers = *workers
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	closer, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	opts := options{
		inputs:     all,
		outputFile: *outputFile,
		png:        *png,
		geojson:    *geojson,
		polyline:   *polyline,
		dryRun:     *dryRun,
		showStats:  *showStats,
		statsJSON:  *statsJSON,
	}

	reports, err := run(cfg, opts)
	if err != nil {
		logrus.WithError(err).Error("simplification failed")
		closer.Close()
		os.Exit(1)
	}

	if opts.statsJSON {
		var payload any = lo.Map(reports, func(r report, _ int) fileStats { return r.fileStats() })
		if len(reports) == 1 {
			payload = reports[0].fileStats()
		}
		jsonData, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling stats: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	} else if opts.showStats || opts.dryRun {
		for _, r := range reports {
			fmt.Println(renderStats(r))
		}
	}

	if opts.dryRun {
		fmt.Printf("🔍 Dry run completed - no files written\n")
		return
	}

	for _, r := range reports {
		fmt.Printf("✅ %s → %s\n", filepath.Base(r.input), r.output)
		fmt.Printf("   %d → %d points (%.1f%% removed)\n",
			r.result.Stats.OriginalPoints, r.result.Stats.FinalPoints, r.result.Stats.PointsPercent)
	}
}
