package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/planbiir/gsimplify/internal/logger"
	"github.com/planbiir/gsimplify/internal/reduce"
	"github.com/planbiir/gsimplify/internal/render"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "GSIMPLIFY_"

// Config is the application configuration
type Config struct {
	Reduce  reduce.Config
	Render  render.Options
	Log     logger.Config
	Workers int // files processed concurrently
}

// File mirrors Config for YAML parsing. Zero values mean "keep the default".
type File struct {
	Epsilon  float64 `yaml:"epsilon"`
	Matching string  `yaml:"matching"`
	Workers  int     `yaml:"workers"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   *bool  `yaml:"compress"`
	} `yaml:"log"`

	Render struct {
		Width      int     `yaml:"width"`
		Height     int     `yaml:"height"`
		Padding    float64 `yaml:"padding"`
		LineWidth  float64 `yaml:"line_width"`
		Background string  `yaml:"background"`
		SlowColor  string  `yaml:"slow_color"`
		FastColor  string  `yaml:"fast_color"`
		Title      string  `yaml:"title"`
		GridLines  *int    `yaml:"grid_lines"`
	} `yaml:"render"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Reduce:  reduce.DefaultConfig(),
		Render:  render.DefaultOptions(),
		Log:     logger.DefaultConfig(),
		Workers: 4,
	}
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and GSIMPLIFY_* environment variables, in increasing
// order of precedence. Command-line flags are applied by the caller.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := loadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "load config %s", path)
		}
		f.apply(&cfg)
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func loadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse YAML")
	}
	return &f, nil
}

func (f *File) apply(cfg *Config) {
	if f.Epsilon != 0 {
		cfg.Reduce.Epsilon = f.Epsilon
	}
	if f.Matching != "" {
		cfg.Reduce.Matching = reduce.MatchMode(f.Matching)
	}
	if f.Workers != 0 {
		cfg.Workers = f.Workers
	}

	setString(&cfg.Log.Level, f.Log.Level)
	setString(&cfg.Log.File, f.Log.File)
	setInt(&cfg.Log.MaxSize, f.Log.MaxSize)
	setInt(&cfg.Log.MaxBackups, f.Log.MaxBackups)
	setInt(&cfg.Log.MaxAge, f.Log.MaxAge)
	if f.Log.Compress != nil {
		cfg.Log.Compress = *f.Log.Compress
	}

	r := f.Render
	setInt(&cfg.Render.Width, r.Width)
	setInt(&cfg.Render.Height, r.Height)
	setFloat(&cfg.Render.Padding, r.Padding)
	setFloat(&cfg.Render.LineWidth, r.LineWidth)
	setString(&cfg.Render.Background, r.Background)
	setString(&cfg.Render.SlowColor, r.SlowColor)
	setString(&cfg.Render.FastColor, r.FastColor)
	setString(&cfg.Render.Title, r.Title)
	if r.GridLines != nil {
		cfg.Render.GridLines = *r.GridLines
	}
}

func applyEnv(cfg *Config) error {
	if v, ok := lookup("EPSILON"); ok {
		eps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(err, "%sEPSILON", EnvPrefix)
		}
		cfg.Reduce.Epsilon = eps
	}
	if v, ok := lookup("MATCHING"); ok {
		cfg.Reduce.Matching = reduce.MatchMode(v)
	}
	if v, ok := lookup("WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%sWORKERS", EnvPrefix)
		}
		cfg.Workers = n
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("LOG_FILE"); ok {
		cfg.Log.File = v
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate rejects configurations the pipeline cannot run with
func (c Config) Validate() error {
	if !(c.Reduce.Epsilon > 0) {
		return errors.Errorf("epsilon must be positive, got %v", c.Reduce.Epsilon)
	}
	if _, err := reduce.ParseMatchMode(string(c.Reduce.Matching)); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return c.Render.Validate()
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}
