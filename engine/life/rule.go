package life

// NextState applies the Game of Life rule to a single cell.
// Two live neighbors keep the cell as it is, three make it alive, anything else kills it.
//
// Parameters:
//   - current: the cell's current value (0 or 1)
//   - liveNeighbors: the number of live cells in the cell's Moore neighborhood (0-8)
//
// Returns:
//   - uint32: the cell's value in the next generation (0 or 1)
func NextState(current uint32, liveNeighbors uint32) uint32 {
	switch liveNeighbors {
	case 2:
		return current
	case 3:
		return 1
	default:
		return 0
	}
}

// LiveNeighbors counts the live cells in the Moore neighborhood of (x, y) with toroidal wraparound.
// Neighbor coordinates wrap independently on each axis, so on grids narrower than three cells
// the same physical cell may be counted more than once.
//
// Parameters:
//   - cells: the generation to read from, laid out row-major (y*width + x)
//   - width: the grid width in cells
//   - height: the grid height in cells
//   - x: the column of the cell
//   - y: the row of the cell
//
// Returns:
//   - uint32: the number of live neighbors (0-8)
func LiveNeighbors(cells []uint32, width, height, x, y int) uint32 {
	xm := (x + width - 1) % width
	xp := (x + 1) % width
	up := ((y + height - 1) % height) * width
	row := y * width
	down := ((y + 1) % height) * width

	return cells[up+xm] + cells[up+x] + cells[up+xp] +
		cells[row+xm] + cells[row+xp] +
		cells[down+xm] + cells[down+x] + cells[down+xp]
}
