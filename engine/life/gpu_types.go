package life

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCellIndexSource is the WGSL helper that maps a wrapped cell coordinate to its linear index.
// It reads the grid size from the module-scope `grid` uniform.
//
//go:embed assets/cell_index.wgsl
var GPUCellIndexSource string

// GPUGridUniform is the GPU representation of the grid uniform (WGSL vec2f).
// Size: 8 bytes.
type GPUGridUniform struct {
	Width  float32 // offset 0
	Height float32 // offset 4
}

// Size returns the size of the GPUGridUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (8)
func (g *GPUGridUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUGridUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUGridUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(g.Width))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(g.Height))
	return buf
}
