// Package ringbuf implements a thread-safe, dynamically growing circular
// byte buffer for decoupling a PCM producer from a playback consumer.
//
// The buffer never drops data that fits its current occupancy: writes that
// would overflow trigger a reallocation instead of blocking or failing.
// Callers are responsible for any upstream pacing.
package ringbuf

import (
	"sync"
	"sync/atomic"
)

const (
	// DefaultCapacity is the initial storage size used when no capacity is given.
	DefaultCapacity = 2048

	// alignment is the granularity all storage sizes are rounded up to.
	// Matches typical audio backend period sizes so repeated small writes
	// amortize into few reallocations.
	alignment = 2048
)

// alignCapacity rounds n up to the nearest multiple of the alignment size.
func alignCapacity(n int) int {
	return ((n + alignment - 1) / alignment) * alignment
}

// Buffer is a circular byte buffer guarded by a single mutex. Valid data
// lives in [head, tail) modulo the storage length; when occupancy is zero
// both cursors are reset to the canonical empty state head == tail == 0.
type Buffer struct {
	data   []byte
	head   int
	tail   int
	length atomic.Int64
	lock   sync.Mutex
}

// New creates a buffer whose initial capacity is rounded up to the nearest
// multiple of 2048 bytes. A capacity of zero or less selects DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{data: make([]byte, alignCapacity(capacity))}
}

// Length returns the number of valid, unread bytes currently buffered.
// The value is read without taking the buffer lock and may be stale the
// instant it is returned; treat it as an advisory sizing hint. Read's
// clamping tolerates the race.
func (b *Buffer) Length() int {
	return int(b.length.Load())
}

// Capacity returns the current storage size in bytes.
func (b *Buffer) Capacity() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.data)
}

// Clear discards all buffered data without reallocating storage.
func (b *Buffer) Clear() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.head = 0
	b.tail = 0
	b.length.Store(0)
}

// Discard drops up to n bytes from the front of the buffer, oldest first,
// and returns the number of bytes actually dropped. Discarding more than
// is buffered simply empties the buffer.
func (b *Buffer) Discard(n int) int {
	b.lock.Lock()
	defer b.lock.Unlock()

	occupied := int(b.length.Load())
	if n > occupied {
		n = occupied
	}
	if n <= 0 {
		return 0
	}

	b.head = (b.head + n) % len(b.data)
	occupied -= n
	b.length.Store(int64(occupied))

	// Reset cursors on empty so head/tail do not drift across many cycles.
	if occupied == 0 {
		b.head = 0
		b.tail = 0
	}
	return n
}

// Write appends p to the buffer, growing storage first if the data would
// not fit. The capacity check, any growth and the copy all happen under
// one lock acquisition, so a write is atomic with respect to concurrent
// readers and writers. Write never fails and never blocks waiting for
// space; the only fatal condition is allocation failure during growth.
func (b *Buffer) Write(p []byte) {
	if len(p) == 0 {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	occupied := int(b.length.Load())
	if occupied+len(p) > len(b.data) {
		b.grow(alignCapacity(occupied + len(p)))
	}

	n := copy(b.data[b.tail:], p)
	if n < len(p) {
		copy(b.data, p[n:])
	}

	b.tail = (b.tail + len(p)) % len(b.data)
	b.length.Store(int64(occupied + len(p)))
}

// Read copies up to len(p) buffered bytes into p and returns the number of
// bytes read. A short count, including zero, means the data is not yet
// available; it is not an error. Read never blocks waiting for data.
func (b *Buffer) Read(p []byte) int {
	if len(p) == 0 {
		return 0
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	occupied := int(b.length.Load())
	n := len(p)
	if n > occupied {
		n = occupied
	}
	if n == 0 {
		return 0
	}

	first := copy(p[:n], b.data[b.head:])
	if first < n {
		copy(p[first:n], b.data)
	}

	b.head = (b.head + n) % len(b.data)
	occupied -= n
	b.length.Store(int64(occupied))

	if occupied == 0 {
		b.head = 0
		b.tail = 0
	}
	return n
}

// grow replaces storage with a larger region and re-linearizes the payload
// so that head == 0 and tail == occupancy. Caller must hold the lock and
// pass a capacity not smaller than the current occupancy.
func (b *Buffer) grow(newCapacity int) {
	occupied := int(b.length.Load())
	data := make([]byte, newCapacity)

	if occupied > 0 {
		if b.head < b.tail {
			copy(data, b.data[b.head:b.tail])
		} else {
			n := copy(data, b.data[b.head:])
			copy(data[n:], b.data[:b.tail])
		}
	}

	b.data = data
	b.head = 0
	b.tail = occupied
}
