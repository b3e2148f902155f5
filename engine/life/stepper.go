package life

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// stepper is the implementation of the Stepper interface.
type stepper struct {
	width, height int

	// workers is the number of row bands a generation is split into.
	workers int
	// minBandRows is the smallest band worth handing to the pool. Grids with fewer rows
	// than workers*minBandRows are stepped on the calling goroutine.
	minBandRows int
}

var (
	bandPoolOnce sync.Once
	bandPool     worker.DynamicWorkerPool
)

// sharedBandPool returns the pool every stepper submits its bands to. It is created on the first
// parallel step, so single-threaded runs never spawn goroutines, and its workers live until the
// process exits.
func sharedBandPool() worker.DynamicWorkerPool {
	bandPoolOnce.Do(func() {
		n := max(runtime.NumCPU(), 1)
		bandPool = worker.NewDynamicWorkerPool(n, 4*n, 1*time.Second)
	})
	return bandPool
}

// Stepper advances a toroidal grid of a fixed shape by one Game of Life generation.
//
// A Stepper holds no per-generation state: every call reads only from current and writes
// only to next, so the caller owns both buffers and decides when their roles swap.
type Stepper interface {
	// Width returns the grid width the stepper was created for.
	//
	// Returns:
	//   - int: the width in cells
	Width() int

	// Height returns the grid height the stepper was created for.
	//
	// Returns:
	//   - int: the height in cells
	Height() int

	// Step writes the generation following current into next. current is never modified.
	// The work is split into disjoint row bands across the stepper's worker pool; Step
	// returns once every band has been written.
	//
	// Step panics with an error wrapping ErrInvalidArgument if either buffer's length is not
	// Width()*Height() or if the two buffers share memory.
	//
	// Parameters:
	//   - current: the generation to read from
	//   - next: the buffer to write the following generation into
	Step(current, next []uint32)

	// Close releases the stepper. The band workers are shared by every stepper in the
	// process and keep running. The stepper must not be used afterwards.
	Close()
}

var _ Stepper = &stepper{}

// NewStepper creates a Stepper for grids of the given shape.
//
// Parameters:
//   - width: the grid width in cells (must be positive)
//   - height: the grid height in cells (must be positive)
//   - opts: variadic StepperBuilderOption functions to configure the stepper
//
// Returns:
//   - Stepper: the configured stepper
//   - error: an error wrapping ErrInvalidDimensions if width or height is not positive
func NewStepper(width, height int, opts ...StepperBuilderOption) (Stepper, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	s := &stepper{
		width:       width,
		height:      height,
		workers:     max(runtime.NumCPU()-1, 1),
		minBandRows: 16,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *stepper) Width() int {
	return s.width
}

func (s *stepper) Height() int {
	return s.height
}

func (s *stepper) Step(current, next []uint32) {
	s.validate(current, next)

	bands := s.bands()
	if len(bands) == 1 {
		stepRows(current, next, s.width, s.height, 0, s.height)
		return
	}

	pool := sharedBandPool()

	// pool.Wait() also waits on tasks submitted by other steppers, so a WaitGroup scoped
	// to this generation is the barrier.
	var wg sync.WaitGroup
	wg.Add(len(bands))
	for i, b := range bands {
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				stepRows(current, next, s.width, s.height, b[0], b[1])
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *stepper) Close() {}

// validate panics when the buffers break the stepper's contract.
func (s *stepper) validate(current, next []uint32) {
	size := s.width * s.height
	if len(current) != size {
		panic(fmt.Errorf("%w: current buffer has %d cells, want %d (%dx%d)", ErrInvalidArgument, len(current), size, s.width, s.height))
	}
	if len(next) != size {
		panic(fmt.Errorf("%w: next buffer has %d cells, want %d (%dx%d)", ErrInvalidArgument, len(next), size, s.width, s.height))
	}
	if overlaps(current, next) {
		panic(fmt.Errorf("%w: current and next buffers share memory", ErrInvalidArgument))
	}
}

// bands splits the grid rows into at most s.workers contiguous [start, end) ranges.
func (s *stepper) bands() [][2]int {
	n := s.workers
	if limit := s.height / max(s.minBandRows, 1); limit < n {
		n = limit
	}
	if n <= 1 {
		return [][2]int{{0, s.height}}
	}

	out := make([][2]int, 0, n)
	rows := s.height / n
	extra := s.height % n
	start := 0
	for i := range n {
		end := start + rows
		if i < extra {
			end++
		}
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

// stepRows computes rows [y0, y1) of the next generation.
func stepRows(current, next []uint32, width, height, y0, y1 int) {
	for y := y0; y < y1; y++ {
		row := y * width
		for x := range width {
			i := row + x
			next[i] = NextState(current[i], LiveNeighbors(current, width, height, x, y))
		}
	}
}

// overlaps reports whether two non-empty slices share any backing memory.
func overlaps(a, b []uint32) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	const cell = unsafe.Sizeof(uint32(0))
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	aEnd := aStart + uintptr(len(a))*cell
	bEnd := bStart + uintptr(len(b))*cell
	return aStart < bEnd && bStart < aEnd
}
