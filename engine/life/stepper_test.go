package life

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cellsFrom builds a width*height buffer with the given (x, y) cells alive.
func cellsFrom(width, height int, alive ...[2]int) []uint32 {
	cells := make([]uint32, width*height)
	for _, c := range alive {
		cells[c[1]*width+c[0]] = 1
	}
	return cells
}

func newTestStepper(t *testing.T, width, height int, opts ...StepperBuilderOption) Stepper {
	t.Helper()
	s, err := NewStepper(width, height, opts...)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func step(t *testing.T, width, height int, current []uint32) []uint32 {
	t.Helper()
	next := make([]uint32, len(current))
	newTestStepper(t, width, height).Step(current, next)
	return next
}

func requireInvalidArgument(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
	}()
	fn()
}

func TestNextState(t *testing.T) {
	for n := uint32(0); n <= 8; n++ {
		for _, cur := range []uint32{0, 1} {
			t.Run(fmt.Sprintf("state=%d/neighbors=%d", cur, n), func(t *testing.T) {
				got := NextState(cur, n)
				switch n {
				case 2:
					assert.Equal(t, cur, got)
				case 3:
					assert.Equal(t, uint32(1), got)
				default:
					assert.Equal(t, uint32(0), got)
				}
			})
		}
	}
}

func TestStepThreeNeighborsBirthAndSurvival(t *testing.T) {
	// (2,2) is dead with three live neighbors above it.
	cells := cellsFrom(5, 5, [2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1})
	next := step(t, 5, 5, cells)
	assert.Equal(t, uint32(1), next[2*5+2], "dead cell with 3 neighbors is born")

	cells = cellsFrom(5, 5, [2]int{2, 2}, [2]int{1, 1}, [2]int{2, 1}, [2]int{3, 1})
	next = step(t, 5, 5, cells)
	assert.Equal(t, uint32(1), next[2*5+2], "live cell with 3 neighbors survives")
}

func TestStepTwoNeighborsKeepsState(t *testing.T) {
	// (2,2) has neighbors (1,1) and (3,3) only.
	dead := cellsFrom(5, 5, [2]int{1, 1}, [2]int{3, 3})
	assert.Equal(t, uint32(0), step(t, 5, 5, dead)[2*5+2])

	alive := cellsFrom(5, 5, [2]int{2, 2}, [2]int{1, 1}, [2]int{3, 3})
	assert.Equal(t, uint32(1), step(t, 5, 5, alive)[2*5+2])
}

func TestStepOtherCountsDie(t *testing.T) {
	ring := [][2]int{{1, 1}, {2, 1}, {3, 1}, {1, 2}, {3, 2}, {1, 3}, {2, 3}, {3, 3}}
	for _, n := range []int{0, 1, 4, 5, 6, 7, 8} {
		t.Run(fmt.Sprintf("neighbors=%d", n), func(t *testing.T) {
			alive := append([][2]int{{2, 2}}, ring[:n]...)
			cells := cellsFrom(7, 7, alive...)
			require.Equal(t, uint32(n), LiveNeighbors(cells, 7, 7, 2, 2))
			assert.Equal(t, uint32(0), step(t, 7, 7, cells)[2*7+2])
		})
	}
}

func TestToroidalWraparound(t *testing.T) {
	cells := cellsFrom(4, 4, [2]int{0, 0}, [2]int{3, 3})
	assert.Equal(t, uint32(1), LiveNeighbors(cells, 4, 4, 0, 0), "(w-1,h-1) is a diagonal neighbor of (0,0)")
	assert.Equal(t, uint32(1), LiveNeighbors(cells, 4, 4, 3, 3), "(0,0) is a diagonal neighbor of (w-1,h-1)")

	// (0,0) is born from three neighbors that are only adjacent through the edges.
	cells = cellsFrom(5, 5, [2]int{4, 4}, [2]int{0, 4}, [2]int{4, 0})
	next := step(t, 5, 5, cells)
	assert.Equal(t, uint32(1), next[0])
}

func TestAllDeadStaysDead(t *testing.T) {
	g, err := NewGrid(9, 7, WithDensity(0))
	require.NoError(t, err)
	s := newTestStepper(t, 9, 7)
	for range 10 {
		g.Advance(s)
		assert.Zero(t, g.Population())
	}
}

func TestBlockIsStillLife(t *testing.T) {
	cells := cellsFrom(4, 4, [2]int{1, 1}, [2]int{1, 2}, [2]int{2, 1}, [2]int{2, 2})
	assert.Equal(t, cells, step(t, 4, 4, cells))
}

func TestIsolatedCenterDies(t *testing.T) {
	cells := cellsFrom(3, 3, [2]int{1, 1})
	assert.Equal(t, make([]uint32, 9), step(t, 3, 3, cells))
}

func TestBlinkerOscillates(t *testing.T) {
	horizontal := cellsFrom(5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})
	vertical := cellsFrom(5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})

	next := step(t, 5, 5, horizontal)
	assert.Equal(t, vertical, next)
	assert.Equal(t, horizontal, step(t, 5, 5, next))
}

func TestGliderTravelsAcrossEdges(t *testing.T) {
	glider, err := LookupPattern("glider")
	require.NoError(t, err)

	g, err := NewGrid(8, 8, WithDensity(0))
	require.NoError(t, err)
	glider.Stamp(g, 6, 6)
	s := newTestStepper(t, 8, 8)

	// A glider moves one cell down and right every four generations.
	for range 4 {
		g.Advance(s)
	}

	want, err := NewGrid(8, 8, WithDensity(0))
	require.NoError(t, err)
	glider.Stamp(want, 7, 7)
	assert.Equal(t, want.Current(), g.Current())
	assert.Equal(t, 5, g.Population())
}

func TestStepDoesNotModifyCurrent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	cells := make([]uint32, 32*32)
	Randomize(cells, 0.4, rng)
	before := append([]uint32(nil), cells...)

	step(t, 32, 32, cells)
	assert.Equal(t, before, cells)
}

func TestParallelMatchesSequential(t *testing.T) {
	const w, h = 67, 61
	rng := rand.New(rand.NewPCG(42, 7))
	start := make([]uint32, w*h)
	Randomize(start, 0.4, rng)

	seq, err := NewGrid(w, h, WithCells(start))
	require.NoError(t, err)
	par, err := NewGrid(w, h, WithCells(start))
	require.NoError(t, err)

	seqStepper := newTestStepper(t, w, h, WithWorkers(1))
	parStepper := newTestStepper(t, w, h, WithWorkers(4), WithMinBandRows(1))

	for gen := range 25 {
		seq.Advance(seqStepper)
		par.Advance(parStepper)
		require.Equal(t, seq.Current(), par.Current(), "generation %d", gen+1)
	}
}

func TestSteppersShareBandWorkers(t *testing.T) {
	const w, h = 8, 8
	blinker := cellsFrom(w, h, [2]int{3, 4}, [2]int{4, 4}, [2]int{5, 4})
	want := cellsFrom(w, h, [2]int{4, 3}, [2]int{4, 4}, [2]int{4, 5})

	stepOnce := func() {
		s, err := NewStepper(w, h, WithWorkers(4), WithMinBandRows(1))
		require.NoError(t, err)
		defer s.Close()
		next := make([]uint32, w*h)
		s.Step(blinker, next)
		require.Equal(t, want, next)
	}

	stepOnce()
	baseline := runtime.NumGoroutine()
	for range 20 {
		stepOnce()
	}
	assert.LessOrEqual(t, runtime.NumGoroutine(), baseline)
}

func TestBands(t *testing.T) {
	s := &stepper{width: 10, height: 10, workers: 3, minBandRows: 1}
	assert.Equal(t, [][2]int{{0, 4}, {4, 7}, {7, 10}}, s.bands())

	s = &stepper{width: 10, height: 10, workers: 8, minBandRows: 16}
	assert.Equal(t, [][2]int{{0, 10}}, s.bands(), "small grids are stepped inline")

	s = &stepper{width: 10, height: 100, workers: 8, minBandRows: 20}
	assert.Len(t, s.bands(), 5)
}

func TestStepShapeMismatchPanics(t *testing.T) {
	s := newTestStepper(t, 4, 4)

	requireInvalidArgument(t, func() { s.Step(make([]uint32, 15), make([]uint32, 16)) })
	requireInvalidArgument(t, func() { s.Step(make([]uint32, 16), make([]uint32, 17)) })
	requireInvalidArgument(t, func() { s.Step(nil, nil) })
}

func TestStepAliasedBuffersPanic(t *testing.T) {
	s := newTestStepper(t, 4, 4)
	buf := make([]uint32, 17)

	requireInvalidArgument(t, func() { s.Step(buf[:16], buf[:16]) })
	requireInvalidArgument(t, func() { s.Step(buf[:16], buf[1:17]) })
}

func TestNewStepperInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 4}, {4, 0}, {-1, 3}} {
		_, err := NewStepper(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
}
