// Package config defines the pipeline configuration and how it is loaded.
//
// Conventions:
//   - New(ctx) returns the defaults; with nothing else set the program reads
//     files_needed/ and writes data_clean/ relative to the working directory.
//   - Load(ctx) layers an optional YAML file and WCPREP_* env vars on top.
//   - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"path/filepath"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MatchesPath and TournamentsPath locate the two input tables.
	MatchesPath     string `koanf:"matches_path" validate:"required"`
	TournamentsPath string `koanf:"tournaments_path" validate:"required"`

	// OutputDir is created on demand; TrainFile and TestFile are relative to it.
	OutputDir string `koanf:"output_dir" validate:"required"`
	TrainFile string `koanf:"train_file" validate:"required,nefield=TestFile"`
	TestFile  string `koanf:"test_file" validate:"required"`

	// NamePattern is the literal substring selecting tournaments by name.
	NamePattern string `koanf:"name_pattern" validate:"required"`

	// TrainFromYear and TrainToYear bound the train subset (inclusive);
	// TestYear selects the test subset.
	TrainFromYear int `koanf:"train_from_year" validate:"gt=0"`
	TrainToYear   int `koanf:"train_to_year" validate:"gtefield=TrainFromYear"`
	TestYear      int `koanf:"test_year" validate:"gt=0"`

	// Optional extra sinks; empty disables them.
	SQLitePath  string `koanf:"sqlite_path"`
	XLSXPath    string `koanf:"xlsx_path"`
	MetricsPath string `koanf:"metrics_path"`
}

// Defaults.
const (
	DefaultInputDir    = "files_needed"
	DefaultOutputDir   = "data_clean"
	DefaultTrainFile   = "matches_train.csv"
	DefaultTestFile    = "matches_test.csv"
	DefaultNamePattern = "FIFA Men's World Cup"
)

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		MatchesPath:     filepath.Join(DefaultInputDir, "matches.csv"),
		TournamentsPath: filepath.Join(DefaultInputDir, "tournaments.csv"),
		OutputDir:       DefaultOutputDir,
		TrainFile:       DefaultTrainFile,
		TestFile:        DefaultTestFile,
		NamePattern:     DefaultNamePattern,
		TrainFromYear:   1930,
		TrainToYear:     2018,
		TestYear:        2022,
	}
}

// TrainPath returns the full path of the train output file.
func (c *Config) TrainPath() string { return filepath.Join(c.OutputDir, c.TrainFile) }

// TestPath returns the full path of the test output file.
func (c *Config) TestPath() string { return filepath.Join(c.OutputDir, c.TestFile) }
