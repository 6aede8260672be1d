// Package app wires the pipeline stages together: load, filter+join,
// normalize, split, write.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/wcprep/internal/adapters/csvio"
	"github.com/okian/wcprep/internal/adapters/sqlite"
	"github.com/okian/wcprep/internal/adapters/xlsx"
	"github.com/okian/wcprep/internal/config"
	"github.com/okian/wcprep/internal/domain/normalize"
	"github.com/okian/wcprep/internal/domain/split"
	"github.com/okian/wcprep/internal/domain/table"
	"github.com/okian/wcprep/internal/domain/worldcup"
	"github.com/okian/wcprep/pkg/logger"
	"github.com/okian/wcprep/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// Stage names used in logs and metrics.
const (
	StageLoad      = "load"
	StageFilter    = "filter_join"
	StageNormalize = "normalize"
	StageSplit     = "split"
	StageWrite     = "write"
)

// Output subset names.
const (
	SubsetTrain = "train"
	SubsetTest  = "test"
)

// Pipeline runs one data preparation pass.
type Pipeline struct {
	cfg     *config.Config
	logger  logger.Logger
	metrics *metrics.Manager
	report  io.Writer
	runID   string
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithConfig sets the configuration. Defaults come from config.New.
func WithConfig(cfg *config.Config) Option {
	return func(p *Pipeline) {
		if cfg != nil {
			p.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithReport sets where the output paths are announced. Defaults to stdout.
func WithReport(w io.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.report = w
		}
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		if id != "" {
			p.runID = id
		}
	}
}

// Result describes a completed run.
type Result struct {
	RunID      string
	TrainPath  string
	TestPath   string
	TrainRows  int
	TestRows   int
	Filter     worldcup.Stats
	Normalized normalize.Report
}

// New constructs a Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     config.New(context.Background()),
		metrics: metrics.Default(),
		report:  os.Stdout,
		runID:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}
	p.logger = p.logger.With(logger.String("run_id", p.runID))
	return p
}

// RunID returns the id attached to every log entry of this pipeline.
func (p *Pipeline) RunID() string { return p.runID }

// Run executes every stage in order. The first error aborts the run; no
// output is promised in that case.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	res, err := p.run(ctx)
	p.metrics.RecordRun(err == nil, float64(time.Now().Unix()))
	if err != nil {
		p.logger.Error(ctx, "pipeline failed", logger.Error(err))
	}
	if p.cfg.MetricsPath != "" {
		if werr := p.metrics.WriteTextfile(p.cfg.MetricsPath); werr != nil {
			p.logger.Warn(ctx, "metrics textfile not written", logger.String("path", p.cfg.MetricsPath), logger.Error(werr))
		}
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context) (Result, error) {
	res := Result{RunID: p.runID, TrainPath: p.cfg.TrainPath(), TestPath: p.cfg.TestPath()}
	p.logger.Info(ctx, "pipeline started",
		logger.String("matches", p.cfg.MatchesPath),
		logger.String("tournaments", p.cfg.TournamentsPath),
		logger.String("output_dir", p.cfg.OutputDir),
	)

	var matches, tournaments *table.Table
	err := p.stage(ctx, StageLoad, func() error {
		var err error
		if matches, err = csvio.Read(ctx, p.cfg.MatchesPath); err != nil {
			return err
		}
		if tournaments, err = csvio.Read(ctx, p.cfg.TournamentsPath); err != nil {
			return err
		}
		p.metrics.RecordRowsLoaded("matches", matches.Len())
		p.metrics.RecordRowsLoaded("tournaments", tournaments.Len())
		p.logger.Debug(ctx, "inputs loaded",
			logger.Int("matches", matches.Len()),
			logger.Int("tournaments", tournaments.Len()),
		)
		return nil
	})
	if err != nil {
		return res, err
	}

	var enriched *table.Table
	err = p.stage(ctx, StageFilter, func() error {
		var err error
		enriched, res.Filter, err = worldcup.FilterMensWorldCup(ctx, matches, tournaments,
			worldcup.WithNamePattern(p.cfg.NamePattern))
		if err != nil {
			return err
		}
		p.metrics.RecordFilter(res.Filter.TournamentsQualifying, res.Filter.MatchesKept)
		p.logger.Info(ctx, "matches filtered",
			logger.Int("tournaments_qualifying", res.Filter.TournamentsQualifying),
			logger.Int("matches_kept", res.Filter.MatchesKept),
		)
		return nil
	})
	if err != nil {
		return res, err
	}

	err = p.stage(ctx, StageNormalize, func() error {
		var err error
		enriched, res.Normalized, err = normalize.Normalize(ctx, enriched)
		if err != nil {
			return err
		}
		for _, c := range res.Normalized.Columns {
			p.metrics.RecordNormalized(c.Column, c.Missing, c.Coerced)
			if c.Coerced > 0 {
				p.logger.Warn(ctx, "unparseable values replaced",
					logger.String("column", c.Column), logger.Int("count", c.Coerced))
			}
		}
		if len(res.Normalized.Skipped) > 0 {
			p.logger.Debug(ctx, "columns absent, not normalized", logger.Any("columns", res.Normalized.Skipped))
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	var train, test *table.Table
	err = p.stage(ctx, StageSplit, func() error {
		var err error
		train, test, err = split.Split(ctx, enriched,
			split.WithTrainRange(p.cfg.TrainFromYear, p.cfg.TrainToYear),
			split.WithTestYear(p.cfg.TestYear),
		)
		return err
	})
	if err != nil {
		return res, err
	}
	res.TrainRows, res.TestRows = train.Len(), test.Len()

	err = p.stage(ctx, StageWrite, func() error {
		return p.write(ctx, res, train, test)
	})
	if err != nil {
		return res, err
	}

	p.logger.Info(ctx, "pipeline finished",
		logger.Int("train_rows", res.TrainRows),
		logger.Int("test_rows", res.TestRows),
	)
	return res, nil
}

func (p *Pipeline) write(ctx context.Context, res Result, train, test *table.Table) error {
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := csvio.Write(ctx, res.TrainPath, train); err != nil {
		return fmt.Errorf("%s: %w", res.TrainPath, err)
	}
	if err := csvio.Write(ctx, res.TestPath, test); err != nil {
		return fmt.Errorf("%s: %w", res.TestPath, err)
	}
	p.metrics.RecordRowsWritten(SubsetTrain, train.Len())
	p.metrics.RecordRowsWritten(SubsetTest, test.Len())

	subsets := []table.Named{
		{Name: "matches_" + SubsetTrain, Table: train},
		{Name: "matches_" + SubsetTest, Table: test},
	}
	if p.cfg.SQLitePath != "" {
		if err := sqlite.Export(ctx, p.cfg.SQLitePath, subsets...); err != nil {
			return err
		}
		p.logger.Info(ctx, "sqlite mirror written", logger.String("path", p.cfg.SQLitePath))
	}
	if p.cfg.XLSXPath != "" {
		sheets := []table.Named{
			{Name: SubsetTrain, Table: train},
			{Name: SubsetTest, Table: test},
		}
		if err := xlsx.Export(ctx, p.cfg.XLSXPath, sheets...); err != nil {
			return err
		}
		p.logger.Info(ctx, "workbook written", logger.String("path", p.cfg.XLSXPath))
	}

	_, _ = fmt.Fprintf(p.report, "Wrote train set to: %s\n", res.TrainPath)
	_, _ = fmt.Fprintf(p.report, "Wrote test set to:  %s\n", res.TestPath)
	return nil
}

// stage runs fn, timing it and tagging any error with the stage name.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.RecordStageDuration(name, float64(elapsed.Nanoseconds())/nanosecondsPerMillisecond)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug(ctx, "stage done", logger.String("stage", name), logger.Duration("elapsed", elapsed))
	return nil
}
