package life

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// grid is the implementation of the Grid interface.
type grid struct {
	width, height int

	// a and b are the ping-pong buffers. a is current on even generations.
	a, b []uint32

	generation uint64

	density float32
	seed    uint64
	pattern Pattern
	cells   []uint32
}

// Grid is a fixed-size toroidal Game of Life board stored as two ping-pong buffers.
//
// The generation counter's parity selects the current buffer: buffer A is current on even
// generations and buffer B on odd ones. Advancing never mutates the current buffer in place;
// the next generation is written to the other buffer and the counter is incremented.
type Grid interface {
	// Width returns the grid width in cells.
	Width() int

	// Height returns the grid height in cells.
	Height() int

	// Size returns the number of cells in each buffer (Width()*Height()).
	Size() int

	// Generation returns the number of generations advanced since creation or the last Reset.
	Generation() uint64

	// Parity returns 0 when buffer A is current and 1 when buffer B is current.
	Parity() int

	// BufferA returns ping-pong buffer A.
	BufferA() []uint32

	// BufferB returns ping-pong buffer B.
	BufferB() []uint32

	// Current returns the buffer holding the current generation.
	Current() []uint32

	// Next returns the buffer the following generation will be written into.
	Next() []uint32

	// Advance steps the grid by one generation using the given Stepper, then swaps buffer roles.
	//
	// Parameters:
	//   - s: the stepper to compute the next generation with; its shape must match the grid
	Advance(s Stepper)

	// Swap increments the generation counter without computing anything. It is used by drivers
	// that compute the next generation elsewhere (for example on the GPU) but still need the
	// grid's parity to track which buffer is current.
	Swap()

	// Cell returns the value of the cell at (x, y) in the current generation.
	// Coordinates wrap around the torus.
	Cell(x, y int) uint32

	// SetCell sets the cell at (x, y) in the current generation. Coordinates wrap around the torus.
	SetCell(x, y int, alive bool)

	// Toggle flips the cell at (x, y) in the current generation and returns its new value.
	Toggle(x, y int) uint32

	// Population returns the number of live cells in the current generation.
	Population() int

	// Load replaces the current generation with the given cells.
	//
	// Returns:
	//   - error: an error wrapping ErrInvalidArgument if cells has the wrong length or a value other than 0 or 1
	Load(cells []uint32) error

	// Clear kills every cell in both buffers and resets the generation counter.
	Clear()

	// Reset restores the grid's initial state: the configured cells or pattern, or a fresh random
	// fill with the configured density. Buffer B is zeroed and the generation counter resets to 0.
	Reset()

	// Reseed changes the random seed and resets the grid with it.
	Reseed(seed uint64)

	// Snapshot returns a copy of the current generation.
	Snapshot() []uint32
}

var _ Grid = &grid{}

// NewGrid allocates a grid of the given shape. Buffer A is filled from the options (explicit cells,
// a pattern, or a random fill with DefaultDensity) and buffer B starts zeroed.
//
// Parameters:
//   - width: the grid width in cells (must be positive)
//   - height: the grid height in cells (must be positive)
//   - opts: variadic GridBuilderOption functions to configure the grid
//
// Returns:
//   - Grid: the new grid
//   - error: an error wrapping ErrInvalidDimensions or ErrInvalidArgument if the configuration is invalid
func NewGrid(width, height int, opts ...GridBuilderOption) (Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	g := &grid{
		width:   width,
		height:  height,
		a:       make([]uint32, width*height),
		b:       make([]uint32, width*height),
		density: DefaultDensity,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.density < 0 || g.density > 1 {
		return nil, fmt.Errorf("%w: density %.3f outside [0, 1]", ErrInvalidArgument, g.density)
	}
	if g.cells != nil {
		if err := validateCells(g.cells, width*height); err != nil {
			return nil, err
		}
	}
	if g.seed == 0 {
		g.seed = uint64(time.Now().UnixNano())
	}
	g.Reset()
	return g, nil
}

func (g *grid) Width() int {
	return g.width
}

func (g *grid) Height() int {
	return g.height
}

func (g *grid) Size() int {
	return g.width * g.height
}

func (g *grid) Generation() uint64 {
	return g.generation
}

func (g *grid) Parity() int {
	return int(g.generation % 2)
}

func (g *grid) BufferA() []uint32 {
	return g.a
}

func (g *grid) BufferB() []uint32 {
	return g.b
}

func (g *grid) Current() []uint32 {
	if g.Parity() == 0 {
		return g.a
	}
	return g.b
}

func (g *grid) Next() []uint32 {
	if g.Parity() == 0 {
		return g.b
	}
	return g.a
}

func (g *grid) Advance(s Stepper) {
	s.Step(g.Current(), g.Next())
	g.generation++
}

func (g *grid) Swap() {
	g.generation++
}

func (g *grid) index(x, y int) int {
	x = ((x % g.width) + g.width) % g.width
	y = ((y % g.height) + g.height) % g.height
	return y*g.width + x
}

func (g *grid) Cell(x, y int) uint32 {
	return g.Current()[g.index(x, y)]
}

func (g *grid) SetCell(x, y int, alive bool) {
	var v uint32
	if alive {
		v = 1
	}
	g.Current()[g.index(x, y)] = v
}

func (g *grid) Toggle(x, y int) uint32 {
	cur := g.Current()
	i := g.index(x, y)
	cur[i] ^= 1
	return cur[i]
}

func (g *grid) Population() int {
	return Population(g.Current())
}

func (g *grid) Load(cells []uint32) error {
	if err := validateCells(cells, g.Size()); err != nil {
		return err
	}
	copy(g.Current(), cells)
	return nil
}

func (g *grid) Clear() {
	clear(g.a)
	clear(g.b)
	g.generation = 0
}

func (g *grid) Reset() {
	g.Clear()
	switch {
	case g.cells != nil:
		copy(g.a, g.cells)
	case g.pattern.Name != "":
		g.pattern.Stamp(g, (g.width-g.pattern.Width)/2, (g.height-g.pattern.Height)/2)
	default:
		Randomize(g.a, g.density, rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15)))
	}
}

func (g *grid) Reseed(seed uint64) {
	g.seed = seed
	g.Reset()
}

func (g *grid) Snapshot() []uint32 {
	out := make([]uint32, g.Size())
	copy(out, g.Current())
	return out
}

// Randomize fills cells so each one is alive with the given probability.
//
// Parameters:
//   - cells: the buffer to fill
//   - density: the probability in [0, 1] that a cell starts alive
//   - rng: the random source
func Randomize(cells []uint32, density float32, rng *rand.Rand) {
	for i := range cells {
		if rng.Float32() < density {
			cells[i] = 1
		} else {
			cells[i] = 0
		}
	}
}

// Population counts the live cells in a buffer.
//
// Parameters:
//   - cells: the buffer to count
//
// Returns:
//   - int: the number of cells with value 1
func Population(cells []uint32) int {
	n := 0
	for _, c := range cells {
		n += int(c)
	}
	return n
}

func validateCells(cells []uint32, size int) error {
	if len(cells) != size {
		return fmt.Errorf("%w: got %d cells, want %d", ErrInvalidArgument, len(cells), size)
	}
	for i, c := range cells {
		if c > 1 {
			return fmt.Errorf("%w: cell %d has value %d, want 0 or 1", ErrInvalidArgument, i, c)
		}
	}
	return nil
}
