// Package metrics provides custom Prometheus metrics for the pcmring
// buffer and playback components.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// BufferMetrics contains all Prometheus metrics related to ring buffer operations.
type BufferMetrics struct {
	OccupancyGauge    *prometheus.GaugeVec
	CapacityGauge     *prometheus.GaugeVec
	WritesTotal       *prometheus.CounterVec
	WriteBytesTotal   *prometheus.CounterVec
	ReadsTotal        *prometheus.CounterVec
	ReadBytesTotal    *prometheus.CounterVec
	DiscardsTotal     *prometheus.CounterVec
	DiscardBytesTotal *prometheus.CounterVec
	GrowthsTotal      *prometheus.CounterVec
	UnderrunsTotal    *prometheus.CounterVec
	registry          *prometheus.Registry
}

// NewBufferMetrics creates a new instance of BufferMetrics.
// It requires a Prometheus registry to register the metrics.
// It returns an error if metric registration fails.
func NewBufferMetrics(registry *prometheus.Registry) (*BufferMetrics, error) {
	m := &BufferMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize buffer metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register buffer metrics: %w", err)
	}
	return m, nil
}

// initMetrics initializes all metrics for BufferMetrics.
func (m *BufferMetrics) initMetrics() error {
	m.OccupancyGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pcmring_buffer_occupancy_bytes",
		Help: "Current number of valid unread bytes in the ring buffer",
	}, []string{"source"})

	m.CapacityGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pcmring_buffer_capacity_bytes",
		Help: "Current storage capacity of the ring buffer",
	}, []string{"source"})

	m.WritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_writes_total",
		Help: "Total number of ring buffer write operations",
	}, []string{"source"})

	m.WriteBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_write_bytes_total",
		Help: "Total number of bytes written to the ring buffer",
	}, []string{"source"})

	m.ReadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_reads_total",
		Help: "Total number of ring buffer read operations",
	}, []string{"source"})

	m.ReadBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_read_bytes_total",
		Help: "Total number of bytes read from the ring buffer",
	}, []string{"source"})

	m.DiscardsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_discards_total",
		Help: "Total number of ring buffer discard operations",
	}, []string{"source"})

	m.DiscardBytesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_discard_bytes_total",
		Help: "Total number of bytes discarded from the ring buffer",
	}, []string{"source"})

	m.GrowthsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_buffer_growths_total",
		Help: "Total number of ring buffer storage reallocations",
	}, []string{"source"})

	m.UnderrunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pcmring_playback_underruns_total",
		Help: "Total number of playback callbacks that found fewer buffered bytes than requested",
	}, []string{"source"})

	return nil
}

// RecordWrite records a write operation and its size in bytes.
func (m *BufferMetrics) RecordWrite(source string, bytes int) {
	m.WritesTotal.WithLabelValues(source).Inc()
	m.WriteBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// RecordRead records a read operation and its size in bytes.
func (m *BufferMetrics) RecordRead(source string, bytes int) {
	m.ReadsTotal.WithLabelValues(source).Inc()
	m.ReadBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// RecordDiscard records a discard operation and its size in bytes.
func (m *BufferMetrics) RecordDiscard(source string, bytes int) {
	m.DiscardsTotal.WithLabelValues(source).Inc()
	m.DiscardBytesTotal.WithLabelValues(source).Add(float64(bytes))
}

// RecordGrowth records a storage reallocation triggered by a write.
func (m *BufferMetrics) RecordGrowth(source string) {
	m.GrowthsTotal.WithLabelValues(source).Inc()
}

// RecordUnderrun records a playback callback that ran short of data.
func (m *BufferMetrics) RecordUnderrun(source string) {
	m.UnderrunsTotal.WithLabelValues(source).Inc()
}

// UpdateState updates the occupancy and capacity gauges for a source.
func (m *BufferMetrics) UpdateState(source string, occupancy, capacity int) {
	m.OccupancyGauge.WithLabelValues(source).Set(float64(occupancy))
	m.CapacityGauge.WithLabelValues(source).Set(float64(capacity))
}

// Describe implements the prometheus.Collector interface.
func (m *BufferMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.OccupancyGauge.Describe(ch)
	m.CapacityGauge.Describe(ch)
	m.WritesTotal.Describe(ch)
	m.WriteBytesTotal.Describe(ch)
	m.ReadsTotal.Describe(ch)
	m.ReadBytesTotal.Describe(ch)
	m.DiscardsTotal.Describe(ch)
	m.DiscardBytesTotal.Describe(ch)
	m.GrowthsTotal.Describe(ch)
	m.UnderrunsTotal.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *BufferMetrics) Collect(ch chan<- prometheus.Metric) {
	m.OccupancyGauge.Collect(ch)
	m.CapacityGauge.Collect(ch)
	m.WritesTotal.Collect(ch)
	m.WriteBytesTotal.Collect(ch)
	m.ReadsTotal.Collect(ch)
	m.ReadBytesTotal.Collect(ch)
	m.DiscardsTotal.Collect(ch)
	m.DiscardBytesTotal.Collect(ch)
	m.GrowthsTotal.Collect(ch)
	m.UnderrunsTotal.Collect(ch)
}
