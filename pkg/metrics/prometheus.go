// Package metrics provides Prometheus metrics for the data preparation run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stage duration buckets in milliseconds.
var defaultDurationBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Manager manages all Prometheus metrics for one pipeline process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	// Input volume
	rowsLoaded *prometheus.GaugeVec

	// Filter+join
	tournamentsQualifying prometheus.Gauge
	matchesKept           prometheus.Gauge

	// Normalization quality
	valuesMissing *prometheus.CounterVec
	valuesCoerced *prometheus.CounterVec

	// Output volume
	rowsWritten *prometheus.GaugeVec

	// Timing and outcome
	stageDuration *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "wcprep",
		subsystem:        "pipeline",
		histogramBuckets: defaultDurationBuckets,
		enabled:          true,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
		gatherer:         prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_loaded",
		Help:        "Rows read from each input table",
		ConstLabels: m.constLabels,
	}, []string{"table"})

	m.tournamentsQualifying = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tournaments_qualifying",
		Help:        "Distinct tournament ids whose name matched the pattern",
		ConstLabels: m.constLabels,
	})

	m.matchesKept = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_kept",
		Help:        "Match rows left after the tournament filter",
		ConstLabels: m.constLabels,
	})

	m.valuesMissing = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "values_missing_total",
		Help:        "Values that were missing before normalization, by column",
		ConstLabels: m.constLabels,
	}, []string{"column"})

	m.valuesCoerced = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "values_coerced_total",
		Help:        "Present values that failed to convert and were replaced, by column",
		ConstLabels: m.constLabels,
	}, []string{"column"})

	m.rowsWritten = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_written",
		Help:        "Rows written to each output subset",
		ConstLabels: m.constLabels,
	}, []string{"subset"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "runs_total",
		Help:        "Pipeline runs by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.lastSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_success_timestamp_seconds",
		Help:        "Unix time of the last successful run",
		ConstLabels: m.constLabels,
	})
}

// RecordRowsLoaded sets the row count of an input table.
func (m *Manager) RecordRowsLoaded(table string, rows int) {
	if m.enabled {
		m.rowsLoaded.WithLabelValues(table).Set(float64(rows))
	}
}

// RecordFilter sets the filter+join outcome.
func (m *Manager) RecordFilter(qualifying, kept int) {
	if m.enabled {
		m.tournamentsQualifying.Set(float64(qualifying))
		m.matchesKept.Set(float64(kept))
	}
}

// RecordNormalized adds the missing and coerced counts of one column.
func (m *Manager) RecordNormalized(column string, missing, coerced int) {
	if m.enabled {
		m.valuesMissing.WithLabelValues(column).Add(float64(missing))
		m.valuesCoerced.WithLabelValues(column).Add(float64(coerced))
	}
}

// RecordRowsWritten sets the row count of an output subset.
func (m *Manager) RecordRowsWritten(subset string, rows int) {
	if m.enabled {
		m.rowsWritten.WithLabelValues(subset).Set(float64(rows))
	}
}

// RecordStageDuration observes the duration of a stage in milliseconds.
func (m *Manager) RecordStageDuration(stage string, ms float64) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(ms)
	}
}

// RecordRun counts a finished run. A successful run also stamps the
// last-success gauge with unixSeconds.
func (m *Manager) RecordRun(ok bool, unixSeconds float64) {
	if !m.enabled {
		return
	}
	if !ok {
		m.runs.WithLabelValues("failure").Inc()
		return
	}
	m.runs.WithLabelValues("success").Inc()
	m.lastSuccess.Set(unixSeconds)
}

// WriteTextfile writes every metric of the manager's registry to path in the
// text exposition format, for the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	g := m.gatherer
	if g == nil {
		return fmt.Errorf("%w: registry cannot be gathered", ErrWriteTextfile)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteTextfile, err)
	}
	return nil
}

// Default returns the process-wide manager bound to the custom registry.
func Default() *Manager { return globalManager }

// GetRegistry returns the custom registry used by the default manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
