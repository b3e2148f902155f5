package life

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern is a small arrangement of live cells that can be stamped onto a grid.
type Pattern struct {
	Name          string
	Width, Height int
	// Cells holds the live cell offsets as (x, y) pairs relative to the pattern's top-left corner.
	Cells [][2]int
}

var patterns = map[string]Pattern{
	"block": {
		Name: "block", Width: 2, Height: 2,
		Cells: [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	"blinker": {
		Name: "blinker", Width: 3, Height: 1,
		Cells: [][2]int{{0, 0}, {1, 0}, {2, 0}},
	},
	"glider": {
		Name: "glider", Width: 3, Height: 3,
		Cells: [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}},
	},
	"r-pentomino": {
		Name: "r-pentomino", Width: 3, Height: 3,
		Cells: [][2]int{{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
}

// LookupPattern returns the built-in pattern with the given name.
//
// Parameters:
//   - name: the pattern name, case-insensitive
//
// Returns:
//   - Pattern: the pattern
//   - error: an error wrapping ErrInvalidArgument if no pattern has that name
func LookupPattern(name string) (Pattern, error) {
	p, ok := patterns[strings.ToLower(name)]
	if !ok {
		return Pattern{}, fmt.Errorf("%w: unknown pattern %q (known: %s)", ErrInvalidArgument, name, strings.Join(PatternNames(), ", "))
	}
	return p, nil
}

// PatternNames returns the names of all built-in patterns in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for n := range patterns {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Stamp sets the pattern's live cells in the grid's current generation with the pattern's
// top-left corner at (x, y). Cells outside the pattern are left untouched and coordinates wrap.
//
// Parameters:
//   - g: the grid to stamp onto
//   - x: the column of the pattern's left edge
//   - y: the row of the pattern's top edge
func (p Pattern) Stamp(g Grid, x, y int) {
	for _, c := range p.Cells {
		g.SetCell(x+c[0], y+c[1], true)
	}
}
