package ringbuf

import "unsafe"

// Sample covers the fixed-size PCM element types the buffer is used with.
type Sample interface {
	~uint8 | ~int16 | ~int32 | ~float32 | ~float64
}

// WriteSamples appends count elements of src starting at offset. The
// element count is scaled to bytes at this boundary; the buffer itself is
// element-type-agnostic. Mixing element types on one buffer is a caller
// contract violation, use a consistent granularity for its lifetime.
func WriteSamples[T Sample](b *Buffer, src []T, offset, count int) {
	if count <= 0 {
		return
	}
	b.Write(asBytes(src[offset : offset+count]))
}

// ReadSamples fills up to count elements of dst starting at offset and
// returns the number of whole elements read. As with WriteSamples the
// count is in elements, not bytes; both directions use the same scaling
// so a write of N elements reads back as N elements.
func ReadSamples[T Sample](b *Buffer, dst []T, offset, count int) int {
	if count <= 0 {
		return 0
	}
	n := b.Read(asBytes(dst[offset : offset+count]))
	return n / int(unsafe.Sizeof(dst[offset]))
}

// asBytes reinterprets a sample slice as its native-endian byte layout,
// the same layout the audio backend presents PCM frames in. No copy.
func asBytes[T Sample](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}
