package life

import (
	"fmt"

	"github.com/chewxy/math32"
)

// WorkgroupCount returns the number of workgroups needed to cover a width x height grid
// with two-dimensional workgroups of the given size.
//
// Parameters:
//   - width: the grid width in cells
//   - height: the grid height in cells
//   - size: the workgroup size in x, y and z; a zero dimension is treated as 1
//
// Returns:
//   - [3]uint32: the dispatch size in x, y and z
func WorkgroupCount(width, height int, size [3]uint32) [3]uint32 {
	sx, sy := max(size[0], 1), max(size[1], 1)
	return [3]uint32{
		(uint32(width) + sx - 1) / sx,
		(uint32(height) + sy - 1) / sy,
		1,
	}
}

// PickCell maps a position in the drawable surface to the grid cell drawn there.
// The grid is stretched over the whole surface with row 0 at the bottom, the way the
// cell vertex shader places instances.
//
// Parameters:
//   - px, py: the position in pixels, with the origin at the top-left of the surface
//   - viewWidth, viewHeight: the surface size in pixels
//   - gridWidth, gridHeight: the grid size in cells
//
// Returns:
//   - int, int: the cell column and row
//   - bool: false if the position is outside the surface
func PickCell(px, py, viewWidth, viewHeight float32, gridWidth, gridHeight int) (int, int, bool) {
	if viewWidth <= 0 || viewHeight <= 0 || px < 0 || py < 0 || px >= viewWidth || py >= viewHeight {
		return 0, 0, false
	}
	x := int(math32.Floor(px / viewWidth * float32(gridWidth)))
	y := int(math32.Floor((1 - py/viewHeight) * float32(gridHeight)))
	// py == 0 maps exactly onto the top edge
	x = min(max(x, 0), gridWidth-1)
	y = min(max(y, 0), gridHeight-1)
	return x, y, true
}

// CellColor returns the colour the fragment shader gives a live cell at (x, y) as RGBA in [0, 1].
// Red fades out to the right, green fades in to the right and blue fades in towards the top row.
//
// Parameters:
//   - x, y: the cell coordinates
//   - gridWidth, gridHeight: the grid size in cells
//
// Returns:
//   - [4]float32: the colour
func CellColor(x, y, gridWidth, gridHeight int) [4]float32 {
	cx := unit(float32(x) / float32(gridWidth))
	cy := unit(float32(y) / float32(gridHeight))
	return [4]float32{1 - cx, cx, cy, 1}
}

func unit(v float32) float32 {
	return math32.Min(math32.Max(v, 0), 1)
}

// CellColorHex formats CellColor as a #rrggbb string for terminal output.
func CellColorHex(x, y, gridWidth, gridHeight int) string {
	c := CellColor(x, y, gridWidth, gridHeight)
	channel := func(v float32) uint8 {
		return uint8(math32.Round(v * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c[0]), channel(c[1]), channel(c[2]))
}
