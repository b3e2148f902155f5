package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 0, 3, 4))
	assert.Equal(t, "title", Coalesce("", "title"))
	assert.Equal(t, 0, Coalesce(0, 0))
}

func TestUint32sRoundTrip(t *testing.T) {
	cells := []uint32{0, 1, 1, 0, 0xdeadbeef}
	raw := Uint32sToBytes(cells)
	assert.Equal(t, []byte{0, 0, 0, 0, 1, 0, 0, 0}, raw[:8])

	dst := make([]uint32, len(cells))
	assert.Equal(t, len(cells), BytesToUint32s(dst, raw))
	assert.Equal(t, cells, dst)
}

func TestBytesToUint32sShortInput(t *testing.T) {
	dst := []uint32{9, 9, 9}
	n := BytesToUint32s(dst, []byte{1, 0, 0, 0, 2, 0})
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint32{1, 9, 9}, dst)
}

func TestSliceToBytesAliases(t *testing.T) {
	assert.Nil(t, SliceToBytes([]uint32{}))
	src := []uint32{1}
	raw := SliceToBytes(src)
	assert.Len(t, raw, 4)
	src[0] = 2
	assert.Equal(t, byte(2), raw[0])
}
