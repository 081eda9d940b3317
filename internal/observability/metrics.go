// Package observability provides Prometheus metrics functionality for
// monitoring the pcmring playback pipeline.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tphakala/pcmring/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Buffer   *metrics.BufferMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all metric
// collectors. It returns an error if any collector fails to initialize.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	bufferMetrics, err := metrics.NewBufferMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Buffer:   bufferMetrics,
	}, nil
}

// RegisterHandlers registers the metrics endpoint on the given mux.
func (m *Metrics) RegisterHandlers(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
