package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	app "github.com/okian/wcprep/internal/app"
	"github.com/okian/wcprep/internal/config"
	"github.com/okian/wcprep/pkg/logger"
	"github.com/okian/wcprep/pkg/metrics"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

// run executes one pipeline pass and returns the process exit code.
func run(stdout, stderr io.Writer) int {
	if err := logger.InitWithWriter(stderr); err != nil {
		// Use a raw write for initialization errors since logger isn't available yet
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return 1
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			_, _ = io.WriteString(stderr, "failed to sync logger: "+err.Error()+"\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Every series of this run carries its id.
	runID := uuid.NewString()
	manager := metrics.NewManager(
		metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
		metrics.WithConstLabels(map[string]string{"run_id": runID}),
	)

	pipeline := app.New(
		app.WithConfig(cfg),
		app.WithLogger(loggerInstance),
		app.WithMetrics(manager),
		app.WithReport(stdout),
		app.WithRunID(runID),
	)
	if _, err := pipeline.Run(ctx); err != nil {
		_, _ = io.WriteString(stderr, "fatal: "+err.Error()+"\n")
		return 1
	}
	return 0
}
