package terminal

import "github.com/muesli/termenv"

// TerminalBuilderOption is a functional option for configuring a Terminal.
type TerminalBuilderOption func(*terminal)

// WithProfile forces a colour profile instead of detecting one. termenv.Ascii disables colour.
//
// Parameters:
//   - p: the termenv colour profile
//
// Returns:
//   - TerminalBuilderOption: option function to apply
func WithProfile(p termenv.Profile) TerminalBuilderOption {
	return func(t *terminal) {
		t.profile = p
	}
}

// WithMaxSize bounds the drawn area. Larger grids show their top-left corner.
//
// Parameters:
//   - columns: the maximum number of cells per line (default 120)
//   - rows: the maximum number of lines (default 60)
//
// Returns:
//   - TerminalBuilderOption: option function to apply
func WithMaxSize(columns, rows int) TerminalBuilderOption {
	return func(t *terminal) {
		if columns > 0 {
			t.maxColumns = columns
		}
		if rows > 0 {
			t.maxRows = rows
		}
	}
}

// WithGlyphs sets the strings drawn for live and dead cells.
func WithGlyphs(alive, dead string) TerminalBuilderOption {
	return func(t *terminal) {
		t.alive = alive
		t.dead = dead
	}
}
