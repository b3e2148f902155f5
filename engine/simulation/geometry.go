package simulation

// quadExtent is the half size of a live cell's quad in cell space, where a cell spans [-1, 1].
// Leaving a gap between neighbouring quads keeps the grid readable.
const quadExtent = 0.8

// quadVertices are the corners of one cell quad as (x, y) pairs.
var quadVertices = []float32{
	-quadExtent, -quadExtent,
	quadExtent, -quadExtent,
	quadExtent, quadExtent,
	-quadExtent, quadExtent,
}

// quadIndices draw the quad as two counter-clockwise triangles.
var quadIndices = []uint32{0, 1, 2, 0, 2, 3}
