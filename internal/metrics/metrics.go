// Package metrics collects release run metrics and exports them in the
// Prometheus text format for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "releasetrain"

// Metrics holds the collectors of one process.
type Metrics struct {
	reg *prometheus.Registry

	runs            *prometheus.CounterVec
	packages        *prometheus.CounterVec
	publishDuration prometheus.Histogram
	checks          *prometheus.CounterVec
	bumpFiles       prometheus.Counter
	lastRun         prometheus.Gauge
	cursor          prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Publish runs by final state.",
		}, []string{"state", "dry_run"}),
		packages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packages_total",
			Help:      "Package publish steps by outcome.",
		}, []string{"outcome"}),
		publishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "publish_step_seconds",
			Help:      "Duration of one package publish step, including the post-publish wait.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Pre-publish check results.",
		}, []string{"check", "status"}),
		bumpFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bump_files_written_total",
			Help:      "Files rewritten by version bumps.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last publish run finished.",
		}),
		cursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_cursor",
			Help:      "Plan index of the last completed package of the last run, -1 if none.",
		}),
	}
	m.reg.MustRegister(m.runs, m.packages, m.publishDuration, m.checks, m.bumpFiles, m.lastRun, m.cursor)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(state string, dryRun bool, cursor int, at time.Time) {
	m.runs.WithLabelValues(state, strconv.FormatBool(dryRun)).Inc()
	m.cursor.Set(float64(cursor))
	m.lastRun.Set(float64(at.Unix()))
}

// ObservePackage records one publish step.
func (m *Metrics) ObservePackage(outcome string, d time.Duration) {
	m.packages.WithLabelValues(outcome).Inc()
	m.publishDuration.Observe(d.Seconds())
}

// ObserveCheck records one check result.
func (m *Metrics) ObserveCheck(name, status string) {
	m.checks.WithLabelValues(name, status).Inc()
}

// ObserveBump records the number of files a bump wrote.
func (m *Metrics) ObserveBump(files int) {
	m.bumpFiles.Add(float64(files))
}

// WriteTextfile atomically writes every metric to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
