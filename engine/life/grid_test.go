package life

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		opts          []GridBuilderOption
		want          error
	}{
		{name: "zero width", width: 0, height: 3, want: ErrInvalidDimensions},
		{name: "negative height", width: 3, height: -2, want: ErrInvalidDimensions},
		{name: "density above one", width: 3, height: 3, opts: []GridBuilderOption{WithDensity(1.5)}, want: ErrInvalidArgument},
		{name: "negative density", width: 3, height: 3, opts: []GridBuilderOption{WithDensity(-0.1)}, want: ErrInvalidArgument},
		{name: "short cells", width: 3, height: 3, opts: []GridBuilderOption{WithCells(make([]uint32, 8))}, want: ErrInvalidArgument},
		{name: "non binary cells", width: 2, height: 1, opts: []GridBuilderOption{WithCells([]uint32{0, 2})}, want: ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.width, tt.height, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, g)
		})
	}
}

func TestGridPingPong(t *testing.T) {
	cells := cellsFrom(4, 4, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2})
	g, err := NewGrid(4, 4, WithCells(cells))
	require.NoError(t, err)

	assert.Equal(t, uint64(0), g.Generation())
	assert.Equal(t, 0, g.Parity())
	assert.Equal(t, cells, g.BufferA())
	assert.Equal(t, make([]uint32, 16), g.BufferB(), "buffer B starts zeroed")
	assert.Same(t, &g.BufferA()[0], &g.Current()[0])
	assert.Same(t, &g.BufferB()[0], &g.Next()[0])

	s := newTestStepper(t, 4, 4)
	g.Advance(s)
	assert.Equal(t, uint64(1), g.Generation())
	assert.Equal(t, 1, g.Parity())
	assert.Same(t, &g.BufferB()[0], &g.Current()[0])
	assert.Equal(t, cells, g.BufferB())

	g.Advance(s)
	assert.Equal(t, 0, g.Parity())
	assert.Same(t, &g.BufferA()[0], &g.Current()[0])

	g.Swap()
	assert.Equal(t, uint64(3), g.Generation())
	assert.Equal(t, 1, g.Parity())
}

func TestGridSeedIsDeterministic(t *testing.T) {
	a, err := NewGrid(32, 32, WithSeed(99))
	require.NoError(t, err)
	b, err := NewGrid(32, 32, WithSeed(99))
	require.NoError(t, err)
	assert.Equal(t, a.Current(), b.Current())

	b.Reseed(100)
	assert.NotEqual(t, a.Current(), b.Current())
}

func TestGridDensity(t *testing.T) {
	empty, err := NewGrid(16, 16, WithDensity(0))
	require.NoError(t, err)
	assert.Zero(t, empty.Population())

	full, err := NewGrid(16, 16, WithDensity(1))
	require.NoError(t, err)
	assert.Equal(t, 256, full.Population())

	def, err := NewGrid(100, 100, WithSeed(7))
	require.NoError(t, err)
	assert.InDelta(t, 4000, def.Population(), 500, "default density keeps roughly 40%% of cells alive")
}

func TestGridCellEditing(t *testing.T) {
	g, err := NewGrid(5, 4, WithDensity(0))
	require.NoError(t, err)

	g.SetCell(-1, -1, true)
	assert.Equal(t, uint32(1), g.Cell(4, 3), "negative coordinates wrap")
	assert.Equal(t, uint32(1), g.Current()[3*5+4])

	assert.Equal(t, uint32(1), g.Toggle(6, 0))
	assert.Equal(t, uint32(1), g.Cell(1, 0))
	assert.Equal(t, uint32(0), g.Toggle(1, 0))
	assert.Equal(t, 1, g.Population())

	g.SetCell(4, 3, false)
	assert.Zero(t, g.Population())
}

func TestGridLoadAndReset(t *testing.T) {
	start := cellsFrom(3, 3, [2]int{0, 0})
	g, err := NewGrid(3, 3, WithCells(start))
	require.NoError(t, err)

	other := cellsFrom(3, 3, [2]int{2, 2}, [2]int{1, 1})
	require.NoError(t, g.Load(other))
	assert.Equal(t, other, g.Snapshot())
	assert.ErrorIs(t, g.Load(make([]uint32, 4)), ErrInvalidArgument)

	g.Advance(newTestStepper(t, 3, 3))
	g.Reset()
	assert.Equal(t, uint64(0), g.Generation())
	assert.Equal(t, start, g.Current())
	assert.Equal(t, make([]uint32, 9), g.BufferB())

	g.Clear()
	assert.Zero(t, g.Population())
}

func TestGridSnapshotIsACopy(t *testing.T) {
	g, err := NewGrid(2, 2, WithDensity(1))
	require.NoError(t, err)
	snap := g.Snapshot()
	snap[0] = 0
	assert.Equal(t, uint32(1), g.Cell(0, 0))
}

func TestPatterns(t *testing.T) {
	assert.Equal(t, []string{"blinker", "block", "glider", "r-pentomino"}, PatternNames())

	_, err := LookupPattern("spaceship")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	block, err := LookupPattern("BLOCK")
	require.NoError(t, err)
	g, err := NewGrid(6, 6, WithPattern(block))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Population())
	for _, c := range [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		assert.Equal(t, uint32(1), g.Cell(c[0], c[1]), "block is centered at %v", c)
	}
}

func TestGPUGridUniformMarshal(t *testing.T) {
	u := GPUGridUniform{Width: 1080, Height: 720}
	buf := u.Marshal()
	require.Len(t, buf, 8)
	assert.Equal(t, float32(1080), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(720), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
}
