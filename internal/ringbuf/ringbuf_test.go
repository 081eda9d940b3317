package ringbuf

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// seqBytes returns n bytes of a repeating pattern offset by seed, so
// mixed-up regions show as mismatches.
func seqBytes(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = seed + byte(i)
	}
	return out
}

func TestNewAlignsCapacity(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		requested int
		expected  int
	}{
		{"zero_selects_default", 0, 2048},
		{"negative_selects_default", -5, 2048},
		{"small_rounds_up", 1, 2048},
		{"exact_multiple", 2048, 2048},
		{"one_past_multiple", 2049, 4096},
		{"mid_range", 3000, 4096},
		{"large", 100_000, 100_352},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b := New(tc.requested)
			assert.Equal(t, tc.expected, b.Capacity())
			assert.Equal(t, 0, b.Length())
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	b := New(2048)
	data := seqBytes(1500, 1)
	b.Write(data)
	require.Equal(t, 1500, b.Length())

	out := make([]byte, 1500)
	n := b.Read(out)
	require.Equal(t, 1500, n)
	assert.Equal(t, data, out)
	assert.Equal(t, 0, b.Length())
}

func TestEmptyOperations(t *testing.T) {
	t.Parallel()

	b := New(0)

	// Reads and discards on an empty buffer are no-ops
	assert.Equal(t, 0, b.Read(make([]byte, 100)))
	assert.Equal(t, 0, b.Discard(100))

	// Zero-length writes and reads do nothing
	b.Write(nil)
	b.Write([]byte{})
	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 0, b.Read(nil))
}

// Reproduces the wrap-around sequence: fill most of a 2048 byte buffer,
// drain past the midpoint, then write so the payload spans the storage
// boundary, and verify the drain preserves order.
func TestWrapAroundRoundTrip(t *testing.T) {
	t.Parallel()

	b := New(2048)
	a := seqBytes(2040, 1)
	bb := seqBytes(100, 101)

	b.Write(a)
	require.Equal(t, 2040, b.Length())

	out := make([]byte, 2000)
	n := b.Read(out)
	require.Equal(t, 2000, n)
	assert.Equal(t, a[:2000], out)
	assert.Equal(t, 40, b.Length())

	// occupied(40)+100 = 140 <= 2048, so this wraps without growing
	b.Write(bb)
	assert.Equal(t, 140, b.Length())
	assert.Equal(t, 2048, b.Capacity())

	rest := make([]byte, 140)
	n = b.Read(rest)
	require.Equal(t, 140, n)
	assert.Equal(t, a[2000:], rest[:40])
	assert.Equal(t, bb, rest[40:])
	assert.Equal(t, 0, b.Length())
}

func TestGrowth(t *testing.T) {
	t.Parallel()

	b := New(2048)
	data := seqBytes(3000, 7)
	b.Write(data)

	assert.Equal(t, 4096, b.Capacity(), "3000 bytes should grow storage to the next multiple of 2048")
	assert.Equal(t, 3000, b.Length())

	out := make([]byte, 3000)
	n := b.Read(out)
	require.Equal(t, 3000, n)
	assert.Equal(t, data, out)
}

func TestGrowthWhileWrapped(t *testing.T) {
	t.Parallel()

	b := New(2048)
	a := seqBytes(2040, 1)
	b.Write(a)
	require.Equal(t, 2000, b.Read(make([]byte, 2000)))

	// Buffer now holds 40 bytes near the end of storage. This write wraps
	// first, the next one grows while the payload spans the boundary.
	bb := seqBytes(100, 101)
	b.Write(bb)
	require.Equal(t, 140, b.Length())

	c := seqBytes(3000, 201)
	b.Write(c)
	assert.Equal(t, 4096, b.Capacity())
	require.Equal(t, 3140, b.Length())

	out := make([]byte, 3140)
	n := b.Read(out)
	require.Equal(t, 3140, n)
	assert.Equal(t, a[2000:], out[:40])
	assert.Equal(t, bb, out[40:140])
	assert.Equal(t, c, out[140:])
}

func TestGrowthRepeatedSmallWrites(t *testing.T) {
	t.Parallel()

	b := New(2048)
	var want []byte
	for i := 0; i < 100; i++ {
		chunk := seqBytes(100, byte(i))
		b.Write(chunk)
		want = append(want, chunk...)
	}

	require.Equal(t, 10_000, b.Length())
	assert.Equal(t, 10_240, b.Capacity(), "capacity should be the smallest multiple of 2048 that fits")

	out := make([]byte, 10_000)
	require.Equal(t, 10_000, b.Read(out))
	assert.Equal(t, want, out)
}

func TestReadMoreThanOccupied(t *testing.T) {
	t.Parallel()

	b := New(2048)
	data := seqBytes(500, 3)
	b.Write(data)

	out := make([]byte, 1000)
	n := b.Read(out)
	assert.Equal(t, 500, n, "short read should return exactly the occupancy")
	assert.Equal(t, data, out[:500])
	assert.Equal(t, 0, b.Length())

	// Buffer is empty and canonical again, a full-capacity write must not wrap
	full := seqBytes(2048, 9)
	b.Write(full)
	assert.Equal(t, 2048, b.Length())
	assert.Equal(t, 2048, b.Capacity())
}

func TestClear(t *testing.T) {
	t.Parallel()

	b := New(2048)
	b.Write(seqBytes(1000, 1))
	b.Clear()

	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 2048, b.Capacity(), "clear must not reallocate")
	assert.Equal(t, 0, b.Read(make([]byte, 10)))

	// Clearing an empty buffer stays empty
	b.Clear()
	assert.Equal(t, 0, b.Length())
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	b := New(2048)
	data := seqBytes(1000, 1)
	b.Write(data)

	assert.Equal(t, 300, b.Discard(300))
	assert.Equal(t, 700, b.Length())

	out := make([]byte, 700)
	require.Equal(t, 700, b.Read(out))
	assert.Equal(t, data[300:], out, "discard must drop the oldest bytes")

	b.Write(data)
	assert.Equal(t, 1000, b.Discard(5000), "over-discard empties the buffer")
	assert.Equal(t, 0, b.Length())

	assert.Equal(t, 0, b.Discard(0))
	assert.Equal(t, 0, b.Discard(-3))
}

func TestDiscardAcrossWrap(t *testing.T) {
	t.Parallel()

	b := New(2048)
	a := seqBytes(2040, 1)
	b.Write(a)
	require.Equal(t, 2000, b.Read(make([]byte, 2000)))
	bb := seqBytes(100, 101)
	b.Write(bb)

	// Drop the 40 pre-wrap bytes plus 20 post-wrap bytes
	assert.Equal(t, 60, b.Discard(60))
	assert.Equal(t, 80, b.Length())

	out := make([]byte, 80)
	require.Equal(t, 80, b.Read(out))
	assert.Equal(t, bb[20:], out)
}

// Conservation: with a concurrent producer and consumer, bytes read never
// exceed bytes written, no data is reordered and everything written is
// eventually drained.
func TestConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const total = 1 << 20
	b := New(2048)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		remaining := total
		var next byte
		for remaining > 0 {
			n := 1500
			if n > remaining {
				n = remaining
			}
			b.Write(seqBytes(n, next))
			next += byte(n)
			remaining -= n
		}
	}()

	got := make([]byte, 0, total)
	buf := make([]byte, 4096)
	for len(got) < total {
		n := b.Read(buf)
		got = append(got, buf[:n]...)
	}
	wg.Wait()

	require.Len(t, got, total)
	assert.Equal(t, 0, b.Length())
	for i, v := range got {
		if v != byte(i) {
			t.Fatalf("byte %d out of order: got %d, want %d", i, v, byte(i))
		}
	}
}

// The advisory occupancy may race with readers, but a clamped read must
// tolerate it: the read result is authoritative, not the hint.
func TestAdvisoryLength(t *testing.T) {
	t.Parallel()

	b := New(2048)
	b.Write(seqBytes(100, 1))

	hint := b.Length()
	out := make([]byte, hint+50)
	n := b.Read(out)
	assert.LessOrEqual(t, n, hint+50)
	assert.Equal(t, 100, n)
}
