package pipeline

import (
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// PlotPair names two feature columns to render as a class-colored
// scatter plot.
type PlotPair struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
}

// Config holds every knob of a report run. Zero values are filled by
// Default; a YAML file or command-line flags overlay it.
type Config struct {
	DataPath string `yaml:"data_path"`
	OutDir   string `yaml:"out_dir"`

	Seed          uint64  `yaml:"seed"`
	TrainFraction float64 `yaml:"train_fraction"`

	Trees    int   `yaml:"trees"`
	Folds    int   `yaml:"folds"`
	Repeats  int   `yaml:"repeats"`
	Workers  int   `yaml:"workers"`
	LeafSize int   `yaml:"leaf_size"`
	Grid     []int `yaml:"grid"`

	PlotPairs []PlotPair `yaml:"plot_pairs"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration of the published analysis: the
// seed, split fraction, tree count and resampling scheme it used, and
// a feature-subset grid spanning the whole sensible range (smallest,
// square-root-ish midpoint, all features).
func Default() Config {
	return Config{
		DataPath:      "data/pml-training.csv",
		OutDir:        "out",
		Seed:          134,
		TrainFraction: 0.6,
		Trees:         500,
		Folds:         10,
		Repeats:       3,
		Workers:       runtime.NumCPU(),
		Grid:          []int{2, 27, 52},
		PlotPairs: []PlotPair{
			{X: "roll_belt", Y: "pitch_forearm"},
			{X: "magnet_dumbbell_y", Y: "roll_forearm"},
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the default configuration. Fields absent
// from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %q", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return errors.NewValidationError("data_path", "must not be empty", c.DataPath)
	}
	if c.OutDir == "" {
		return errors.NewValidationError("out_dir", "must not be empty", c.OutDir)
	}
	if c.TrainFraction <= 0 || c.TrainFraction >= 1 {
		return errors.NewValidationError("train_fraction", "must be in (0, 1)", c.TrainFraction)
	}
	if c.Trees < 1 {
		return errors.NewValidationError("trees", "must be at least 1", c.Trees)
	}
	if c.Folds < 2 {
		return errors.NewValidationError("folds", "must be at least 2", c.Folds)
	}
	if c.Repeats < 1 {
		return errors.NewValidationError("repeats", "must be at least 1", c.Repeats)
	}
	if c.Workers < 1 {
		return errors.NewValidationError("workers", "must be at least 1", c.Workers)
	}
	if len(c.Grid) == 0 {
		return errors.NewValidationError("grid", "must name at least one feature-subset size", c.Grid)
	}
	for _, g := range c.Grid {
		if g < 1 {
			return errors.NewValidationError("grid", "feature-subset sizes must be positive", g)
		}
	}
	return nil
}
