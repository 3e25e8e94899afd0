// Package metrics exports scan reports as Prometheus metrics in the textfile
// collector format.
package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skipfinder/skipfinder/internal/report"
	"github.com/skipfinder/skipfinder/internal/scan"
)

// Collector holds the gauges describing one report.
type Collector struct {
	registry          *prometheus.Registry
	skippedTests      *prometheus.GaugeVec
	tests             *prometheus.GaugeVec
	filesWithSkipped  prometheus.Gauge
	scannedFiles      prometheus.Gauge
	lastScanTimestamp prometheus.Gauge
}

// New creates a Collector with its own registry.
func New() (*Collector, error) {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		skippedTests: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "skipfinder_skipped_tests",
			Help: "Number of skipped tests by language",
		}, []string{"language"}),
		tests: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "skipfinder_tests",
			Help: "Number of tests by language and status",
		}, []string{"language", "status"}),
		filesWithSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skipfinder_files_with_skipped_tests",
			Help: "Number of files containing at least one skipped test",
		}),
		scannedFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skipfinder_scanned_files",
			Help: "Number of source files scanned",
		}),
		lastScanTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skipfinder_last_scan_timestamp_seconds",
			Help: "Unix time of the last scan",
		}),
	}
	if err := errors.Join(
		c.registry.Register(c.skippedTests),
		c.registry.Register(c.tests),
		c.registry.Register(c.filesWithSkipped),
		c.registry.Register(c.scannedFiles),
		c.registry.Register(c.lastScanTimestamp),
	); err != nil {
		return nil, fmt.Errorf("could not register metrics: %w", err)
	}
	return c, nil
}

// Observe replaces the current metric values with the values of r.
func (c *Collector) Observe(r *report.Report) {
	c.skippedTests.Reset()
	c.tests.Reset()

	summary := r.Summary()
	for _, l := range summary.Languages {
		c.skippedTests.WithLabelValues(l.Language).Set(float64(l.Skipped))
		c.tests.WithLabelValues(l.Language, string(scan.StatusSkipped)).Set(float64(l.Skipped))
		c.tests.WithLabelValues(l.Language, string(scan.StatusRunnable)).Set(float64(l.Runnable))
	}
	c.filesWithSkipped.Set(float64(len(summary.Files)))
	c.scannedFiles.Set(float64(r.Files))
	c.lastScanTimestamp.Set(float64(r.GeneratedAt.Unix()))
}

// Gatherer exposes the registry of the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteFile writes the current metrics to path. The file is replaced
// atomically so a textfile collector never reads partial output.
func (c *Collector) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("could not write metrics file %q: %w", path, err)
	}
	return nil
}

// Write observes r and writes the metrics to path.
func Write(path string, r *report.Report) error {
	c, err := New()
	if err != nil {
		return err
	}
	c.Observe(r)
	return c.WriteFile(path)
}
