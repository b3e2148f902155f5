package life

// DefaultDensity is the probability a cell starts alive when a grid is filled randomly.
const DefaultDensity float32 = 0.4

// GridBuilderOption is a functional option used to configure a Grid during construction.
type GridBuilderOption func(*grid)

// WithSeed sets the random seed for the initial fill. A seed of 0 selects a time based seed.
//
// Parameters:
//   - seed: the seed for the random source
//
// Returns:
//   - GridBuilderOption: a function that applies the seed to a grid
func WithSeed(seed uint64) GridBuilderOption {
	return func(g *grid) {
		g.seed = seed
	}
}

// WithDensity sets the probability that a cell starts alive in a random fill.
//
// Parameters:
//   - density: a probability in [0, 1]
//
// Returns:
//   - GridBuilderOption: a function that applies the density to a grid
func WithDensity(density float32) GridBuilderOption {
	return func(g *grid) {
		g.density = density
	}
}

// WithCells sets an explicit initial state for buffer A. The slice is copied on every Reset
// and must have exactly width*height values of 0 or 1.
//
// Parameters:
//   - cells: the initial cell states in row-major order
//
// Returns:
//   - GridBuilderOption: a function that applies the initial cells to a grid
func WithCells(cells []uint32) GridBuilderOption {
	return func(g *grid) {
		g.cells = append([]uint32(nil), cells...)
	}
}

// WithPattern centers a named pattern on an otherwise empty grid instead of a random fill.
//
// Parameters:
//   - p: the pattern to stamp
//
// Returns:
//   - GridBuilderOption: a function that applies the pattern to a grid
func WithPattern(p Pattern) GridBuilderOption {
	return func(g *grid) {
		g.pattern = p
	}
}
