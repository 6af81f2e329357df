// Package observability provides metrics for the picturedesk shell.
package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/picturedesk/picturedesk/internal/errors"
	"github.com/picturedesk/picturedesk/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry  *prometheus.Registry
	Bootstrap *metrics.BootstrapMetrics
}

// NewMetrics creates a private registry and all collectors on it.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	bootstrapMetrics, err := metrics.NewBootstrapMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create bootstrap metrics: %w", err)
	}

	return &Metrics{
		registry:  registry,
		Bootstrap: bootstrapMetrics,
	}, nil
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current metric values in the text exposition format,
// suitable for the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.New(err).
			Component("observability").
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "write_metrics_textfile").
			Build()
	}
	return nil
}
