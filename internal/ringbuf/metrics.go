package ringbuf

import (
	"sync"

	"github.com/tphakala/pcmring/internal/observability/metrics"
)

// Package-level metrics are set once at startup and read concurrently by
// every registry operation afterwards. A nil value disables recording.
var (
	bufferMetrics      *metrics.BufferMetrics
	bufferMetricsMutex sync.RWMutex
	bufferMetricsOnce  sync.Once
)

// SetMetrics assigns the metrics collector used by registry operations.
// Only the first call has an effect.
func SetMetrics(m *metrics.BufferMetrics) {
	bufferMetricsOnce.Do(func() {
		bufferMetricsMutex.Lock()
		defer bufferMetricsMutex.Unlock()
		bufferMetrics = m
	})
}

func getMetrics() *metrics.BufferMetrics {
	bufferMetricsMutex.RLock()
	defer bufferMetricsMutex.RUnlock()
	return bufferMetrics
}
