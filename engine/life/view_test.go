package life

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkgroupCount(t *testing.T) {
	assert.Equal(t, [3]uint32{4, 4, 1}, WorkgroupCount(32, 32, [3]uint32{8, 8, 1}))
	assert.Equal(t, [3]uint32{5, 2, 1}, WorkgroupCount(33, 9, [3]uint32{8, 8, 1}))
	assert.Equal(t, [3]uint32{1, 1, 1}, WorkgroupCount(1, 1, [3]uint32{16, 16, 1}))
	assert.Equal(t, [3]uint32{3, 2, 1}, WorkgroupCount(3, 2, [3]uint32{0, 0, 0}))
}

func TestPickCell(t *testing.T) {
	tests := []struct {
		name   string
		px, py float32
		x, y   int
		ok     bool
	}{
		{name: "top left", px: 0, py: 0, x: 0, y: 31, ok: true},
		{name: "bottom left", px: 0, py: 639, x: 0, y: 0, ok: true},
		{name: "bottom right", px: 639, py: 639, x: 31, y: 0, ok: true},
		{name: "centre", px: 320, py: 320, x: 16, y: 16, ok: true},
		{name: "outside right", px: 640, py: 10},
		{name: "negative", px: -1, py: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := PickCell(tt.px, tt.py, 640, 640, 32, 32)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.x, x)
				assert.Equal(t, tt.y, y)
			}
		})
	}

	_, _, ok := PickCell(1, 1, 0, 0, 32, 32)
	assert.False(t, ok)
}

func TestCellColor(t *testing.T) {
	assert.Equal(t, [4]float32{1, 0, 0, 1}, CellColor(0, 0, 4, 4))
	assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, CellColor(2, 2, 4, 4))
	assert.Equal(t, "#ff0000", CellColorHex(0, 0, 4, 4))
	assert.Equal(t, "#808080", CellColorHex(2, 2, 4, 4))
}
