package common

import (
	"encoding/binary"
	"unsafe"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Uint32sToBytes packs cell states little-endian into a freshly allocated byte slice.
// Unlike SliceToBytes the result does not alias the input, so it is safe to hand to a queue write
// while the source buffer keeps changing.
//
// Parameters:
//   - data: the values to pack
//
// Returns:
//   - []byte: 4 bytes per value
func Uint32sToBytes(data []uint32) []byte {
	out := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// BytesToUint32s unpacks little-endian bytes read back from the GPU into dst.
// Trailing bytes that do not fill a whole value are ignored.
//
// Parameters:
//   - dst: destination slice, filled up to min(len(dst), len(src)/4) values
//   - src: the raw bytes
//
// Returns:
//   - int: the number of values written
func BytesToUint32s(dst []uint32, src []byte) int {
	n := min(len(dst), len(src)/4)
	for i := range n {
		dst[i] = binary.LittleEndian.Uint32(src[i*4:])
	}
	return n
}
