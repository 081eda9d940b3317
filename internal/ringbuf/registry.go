package ringbuf

import (
	"sync"

	"github.com/tphakala/pcmring/internal/errors"
)

// Per-source buffer registry. Producers and consumers address buffers by
// source name so neither side holds a direct reference across restarts.
var (
	buffers  map[string]*Buffer
	regMutex sync.RWMutex
)

func init() {
	buffers = make(map[string]*Buffer)
}

// maxAllocation guards against absurd capacity requests (1 GB).
const maxAllocation = 1 << 30

// Allocate creates a ring buffer for a single source.
// It returns an error if one already exists or if the input is invalid.
func Allocate(source string, capacity int) error {
	if source == "" {
		return errors.Newf("empty source name provided").
			Component("ringbuf").
			Category(errors.CategoryValidation).
			Build()
	}
	if capacity > maxAllocation {
		return errors.Newf("requested buffer size too large: %d bytes (>1GB)", capacity).
			Component("ringbuf").
			Category(errors.CategoryValidation).
			Context("source", source).
			Context("capacity", capacity).
			Build()
	}

	regMutex.Lock()
	defer regMutex.Unlock()

	if _, exists := buffers[source]; exists {
		return errors.Newf("buffer already exists for source: %s", source).
			Component("ringbuf").
			Category(errors.CategoryConflict).
			Context("source", source).
			Build()
	}

	b := New(capacity)
	buffers[source] = b

	if m := getMetrics(); m != nil {
		m.UpdateState(source, b.Length(), b.Capacity())
	}
	return nil
}

// AllocateIfNeeded creates a buffer for the source unless one exists.
func AllocateIfNeeded(source string, capacity int) error {
	if Has(source) {
		return nil
	}
	err := Allocate(source, capacity)
	if errors.IsCategory(err, errors.CategoryConflict) {
		// Lost the race to another allocator, the buffer is there.
		return nil
	}
	return err
}

// Remove drops the buffer for a source from the registry.
func Remove(source string) error {
	regMutex.Lock()
	defer regMutex.Unlock()

	if _, exists := buffers[source]; !exists {
		return errors.Newf("no buffer found for source: %s", source).
			Component("ringbuf").
			Category(errors.CategoryNotFound).
			Context("source", source).
			Build()
	}

	delete(buffers, source)
	return nil
}

// Has checks if a buffer exists for the given source.
func Has(source string) bool {
	regMutex.RLock()
	defer regMutex.RUnlock()
	_, exists := buffers[source]
	return exists
}

// Get returns the buffer for a source.
func Get(source string) (*Buffer, bool) {
	regMutex.RLock()
	defer regMutex.RUnlock()
	b, exists := buffers[source]
	return b, exists
}

// WriteTo appends PCM data to the buffer for a given source.
func WriteTo(source string, p []byte) error {
	b, exists := Get(source)
	if !exists {
		return errors.Newf("no buffer found for source: %s", source).
			Component("ringbuf").
			Category(errors.CategoryNotFound).
			Context("source", source).
			Build()
	}

	capBefore := b.Capacity()
	b.Write(p)

	if m := getMetrics(); m != nil {
		m.RecordWrite(source, len(p))
		capAfter := b.Capacity()
		if capAfter > capBefore {
			m.RecordGrowth(source)
		}
		m.UpdateState(source, b.Length(), capAfter)
	}
	return nil
}

// ReadFrom drains up to len(p) bytes from the buffer for a given source
// and returns the number of bytes read. Zero means no data buffered yet.
func ReadFrom(source string, p []byte) (int, error) {
	b, exists := Get(source)
	if !exists {
		return 0, errors.Newf("no buffer found for source: %s", source).
			Component("ringbuf").
			Category(errors.CategoryNotFound).
			Context("source", source).
			Build()
	}

	n := b.Read(p)

	if m := getMetrics(); m != nil {
		m.RecordRead(source, n)
		m.UpdateState(source, b.Length(), b.Capacity())
	}
	return n, nil
}

// DiscardFrom drops up to n oldest bytes from the buffer for a given
// source and returns the number of bytes actually discarded.
func DiscardFrom(source string, n int) (int, error) {
	b, exists := Get(source)
	if !exists {
		return 0, errors.Newf("no buffer found for source: %s", source).
			Component("ringbuf").
			Category(errors.CategoryNotFound).
			Context("source", source).
			Build()
	}

	dropped := b.Discard(n)

	if m := getMetrics(); m != nil {
		m.RecordDiscard(source, dropped)
		m.UpdateState(source, b.Length(), b.Capacity())
	}
	return dropped, nil
}

// Reset empties the buffer for a given source without reallocating.
func Reset(source string) error {
	b, exists := Get(source)
	if !exists {
		return errors.Newf("no buffer found for source: %s", source).
			Component("ringbuf").
			Category(errors.CategoryNotFound).
			Context("source", source).
			Build()
	}

	b.Clear()

	if m := getMetrics(); m != nil {
		m.UpdateState(source, 0, b.Capacity())
	}
	return nil
}

// Occupancy returns the advisory occupancy for a source, or zero when the
// source is unknown.
func Occupancy(source string) int {
	b, exists := Get(source)
	if !exists {
		return 0
	}
	return b.Length()
}
