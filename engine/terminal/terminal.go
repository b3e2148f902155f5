// Package terminal draws generations as text for headless runs.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/muesli/termenv"
)

// Terminal redraws a grid in place on a terminal.
type Terminal interface {
	// Draw renders one generation. The first call clears the screen and hides the cursor,
	// later calls overwrite the previous frame.
	//
	// Parameters:
	//   - cells: width*height cell states, row-major with row 0 at the bottom
	//   - width, height: the grid size in cells
	//   - generation: the generation shown in the status line
	//
	// Returns:
	//   - error: an error if cells does not match the grid size or writing fails
	Draw(cells []uint32, width, height int, generation uint64) error

	// Close restores the cursor.
	Close()
}

type terminal struct {
	out *termenv.Output

	profile    termenv.Profile
	maxColumns int
	maxRows    int
	alive      string
	dead       string

	started bool
	colors  map[string]termenv.Color
}

var _ Terminal = &terminal{}

// NewTerminal creates a Terminal writing to w. The colour profile is detected from w unless
// WithProfile is given.
//
// Parameters:
//   - w: the output, usually os.Stdout
//   - options: variadic TerminalBuilderOption functions
//
// Returns:
//   - Terminal: the terminal renderer
func NewTerminal(w io.Writer, options ...TerminalBuilderOption) Terminal {
	t := &terminal{
		profile:    -1,
		maxColumns: 120,
		maxRows:    60,
		alive:      "█",
		dead:       " ",
		colors:     make(map[string]termenv.Color),
	}
	for _, opt := range options {
		opt(t)
	}

	if t.profile < 0 {
		t.out = termenv.NewOutput(w)
	} else {
		t.out = termenv.NewOutput(w, termenv.WithProfile(t.profile))
	}
	return t
}

func (t *terminal) Draw(cells []uint32, width, height int, generation uint64) error {
	if width <= 0 || height <= 0 || len(cells) != width*height {
		return fmt.Errorf("%w: %d cells for a %dx%d grid", life.ErrInvalidArgument, len(cells), width, height)
	}

	if !t.started {
		t.out.HideCursor()
		t.out.ClearScreen()
		t.started = true
	}
	t.out.MoveCursor(1, 1)

	_, err := io.WriteString(t.out, t.frame(cells, width, height, generation))
	return err
}

// frame renders the visible part of the grid, top row first, followed by a status line.
func (t *terminal) frame(cells []uint32, width, height int, generation uint64) string {
	cols := min(width, t.maxColumns)
	rows := min(height, t.maxRows)

	var b strings.Builder
	for y := height - 1; y >= height-rows; y-- {
		for x := range cols {
			if cells[y*width+x] == 0 {
				b.WriteString(t.dead)
				continue
			}
			b.WriteString(t.out.String(t.alive).Foreground(t.color(x, y, width, height)).String())
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "generation %d | population %d", generation, life.Population(cells))
	if cols < width || rows < height {
		fmt.Fprintf(&b, " | showing %dx%d of %dx%d", cols, rows, width, height)
	}
	b.WriteString("\n")
	return b.String()
}

func (t *terminal) color(x, y, width, height int) termenv.Color {
	hex := life.CellColorHex(x, y, width, height)
	c, ok := t.colors[hex]
	if !ok {
		c = t.out.Color(hex)
		t.colors[hex] = c
	}
	return c
}

func (t *terminal) Close() {
	if t.started {
		t.out.ShowCursor()
	}
}
