package ringbuf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/pcmring/internal/errors"
)

func TestRegistryLifecycle(t *testing.T) {
	// Not parallel, the registry is package-global

	testCases := []struct {
		name     string
		source   string
		capacity int
	}{
		{"default_capacity", "lifecycle_source_1", 0},
		{"explicit_capacity", "lifecycle_source_2", 8192},
		{"unaligned_capacity", "lifecycle_source_3", 3000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Allocate(tc.source, tc.capacity)
			require.NoError(t, err, "first allocation should succeed")

			err = Allocate(tc.source, tc.capacity)
			assert.Error(t, err, "second allocation should fail")
			assert.Contains(t, err.Error(), "already exists")
			assert.True(t, errors.IsCategory(err, errors.CategoryConflict))

			require.NoError(t, Remove(tc.source), "buffer removal should succeed")
		})
	}
}

func TestRegistryAllocateValidation(t *testing.T) {
	err := Allocate("", 1024)
	assert.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))

	err = Allocate("huge", 2<<30)
	assert.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestRegistryAllocateIfNeeded(t *testing.T) {
	source := "if_needed_source"

	require.NoError(t, AllocateIfNeeded(source, 2048))
	assert.True(t, Has(source))

	assert.NoError(t, AllocateIfNeeded(source, 2048), "existing buffer should not error")

	require.NoError(t, Remove(source))
	assert.False(t, Has(source))

	require.NoError(t, AllocateIfNeeded(source, 2048), "reallocation after removal should succeed")
	require.NoError(t, Remove(source))
}

func TestRegistryRemoveUnknown(t *testing.T) {
	err := Remove("never_allocated")
	assert.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))
}

func TestRegistryWriteRead(t *testing.T) {
	source := "write_read_source"
	require.NoError(t, Allocate(source, 2048))
	defer func() { require.NoError(t, Remove(source)) }()

	data := seqBytes(3000, 1)
	require.NoError(t, WriteTo(source, data))
	assert.Equal(t, 3000, Occupancy(source))

	out := make([]byte, 3000)
	n, err := ReadFrom(source, out)
	require.NoError(t, err)
	require.Equal(t, 3000, n)
	assert.Equal(t, data, out)
	assert.Equal(t, 0, Occupancy(source))
}

func TestRegistryUnknownSourceOperations(t *testing.T) {
	err := WriteTo("missing", []byte{1, 2, 3})
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))

	_, err = ReadFrom("missing", make([]byte, 4))
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))

	_, err = DiscardFrom("missing", 4)
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))

	err = Reset("missing")
	assert.True(t, errors.IsCategory(err, errors.CategoryNotFound))

	assert.Equal(t, 0, Occupancy("missing"))
}

func TestRegistryDiscardAndReset(t *testing.T) {
	source := "discard_source"
	require.NoError(t, Allocate(source, 2048))
	defer func() { require.NoError(t, Remove(source)) }()

	require.NoError(t, WriteTo(source, seqBytes(1000, 1)))

	dropped, err := DiscardFrom(source, 400)
	require.NoError(t, err)
	assert.Equal(t, 400, dropped)
	assert.Equal(t, 600, Occupancy(source))

	require.NoError(t, Reset(source))
	assert.Equal(t, 0, Occupancy(source))
}

func TestRegistryManySources(t *testing.T) {
	sources := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		source := fmt.Sprintf("multi_source_%d", i)
		require.NoError(t, Allocate(source, 2048))
		sources = append(sources, source)
	}

	for i, source := range sources {
		require.NoError(t, WriteTo(source, seqBytes(100+i, byte(i))))
	}
	for i, source := range sources {
		assert.Equal(t, 100+i, Occupancy(source))
		require.NoError(t, Remove(source))
	}
}
