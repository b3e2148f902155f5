package simulation

import (
	"fmt"
	"sync"

	"github.com/Shotz5/Game-Of-Life-WebGPU/common"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/bind_group_provider"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/pipeline"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/shader"
)

// Backend selects where generations are computed.
type Backend string

const (
	// BackendGPU steps generations with a compute shader over two GPU ping-pong buffers.
	BackendGPU Backend = "gpu"
	// BackendCPU steps generations with a life.Stepper and uploads each generation for drawing.
	BackendCPU Backend = "cpu"
)

// Simulation is a Game of Life board that advances on one goroutine and draws on another.
//
// RequestStep is called by the fixed-rate update loop. Everything that touches the GPU (Sync,
// PrepareCompute, DrawCalls, Snapshot, Release) is called from the render goroutine. Edits
// (Toggle, Reset, Reseed, Clear) may come from any goroutine and are applied on the next Sync.
type Simulation interface {
	// Init creates the simulation's pipelines and GPU buffers and uploads the initial generation.
	//
	// Parameters:
	//   - r: the renderer to create GPU resources with
	//
	// Returns:
	//   - error: an error if pipeline or buffer creation fails
	Init(r renderer.Renderer) error

	// Backend returns where generations are computed.
	Backend() Backend

	// Width returns the grid width in cells.
	Width() int

	// Height returns the grid height in cells.
	Height() int

	// Generation returns the number of generations computed since the last reset.
	Generation() uint64

	// RequestStep schedules one generation.
	RequestStep()

	// Toggle flips the cell at (x, y). Coordinates wrap around the torus.
	Toggle(x, y int)

	// Reset restores the initial state the grid was created with.
	Reset()

	// Reseed refills the grid randomly from a new seed.
	Reseed(seed uint64)

	// Clear kills every cell.
	Clear()

	// Sync applies pending edits and uploads CPU side changes. Call before the compute frame.
	//
	// Returns:
	//   - error: an error if a GPU readback needed by an edit fails
	Sync() error

	// PrepareCompute encodes the scheduled generations. Call between BeginComputeFrame and EndComputeFrame.
	//
	// Returns:
	//   - error: an error if a dispatch fails
	PrepareCompute() error

	// DrawCalls draws the current generation. Call between BeginFrame and EndFrame.
	//
	// Returns:
	//   - error: an error if the draw could not be encoded
	DrawCalls() error

	// Snapshot returns a copy of the current generation.
	//
	// Returns:
	//   - []uint32: width*height cell states
	//   - error: an error if reading the generation back from the GPU fails
	Snapshot() ([]uint32, error)

	// Release frees the simulation's GPU resources and worker pool.
	Release()
}

// board holds what both backends share: the grid, the render pipeline and the quad mesh.
type board struct {
	mu   sync.Mutex
	grid life.Grid

	r              renderer.Renderer
	renderPipeline pipeline.Pipeline
	mesh           bind_group_provider.BindGroupProvider
	uniform        life.GPUGridUniform

	// render bindings of the grid uniform and the drawn cell buffer
	renderGridBinding  int
	renderCellsBinding int

	edits []edit
}

// edit is a pending change to the grid applied on the render goroutine.
type edit struct {
	apply func(g life.Grid)
	// readback is set when the edit depends on the current generation, which may only exist on the GPU.
	readback bool
}

// NewSimulation creates a simulation over g computed by the given backend. The grid is owned by the
// simulation from then on.
//
// Parameters:
//   - backend: BackendGPU or BackendCPU
//   - g: the grid holding the initial generation
//   - options: variadic SimulationBuilderOption functions
//
// Returns:
//   - Simulation: the simulation, not yet initialized
//   - error: an error if the backend is unknown or an option is invalid
func NewSimulation(backend Backend, g life.Grid, options ...SimulationBuilderOption) (Simulation, error) {
	cfg := defaultSimulationConfig()
	for _, opt := range options {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	switch backend {
	case BackendGPU:
		s := &gpuSimulation{workgroupSize: cfg.workgroupSize, maxCatchUp: cfg.maxCatchUp}
		s.board.setGrid(g)
		return s, nil
	case BackendCPU:
		stepper, err := life.NewStepper(g.Width(), g.Height(), life.WithWorkers(cfg.workers))
		if err != nil {
			return nil, err
		}
		s := &cpuSimulation{stepper: stepper, workers: cfg.workers, dirty: true}
		s.board.setGrid(g)
		return s, nil
	default:
		return nil, fmt.Errorf("%w: unknown simulation backend %q", life.ErrInvalidArgument, backend)
	}
}

func (b *board) setGrid(g life.Grid) {
	b.grid = g
	b.uniform = life.GPUGridUniform{
		Width:  float32(g.Width()),
		Height: float32(g.Height()),
	}
}

func (b *board) Width() int {
	return b.grid.Width()
}

func (b *board) Height() int {
	return b.grid.Height()
}

func (b *board) queue(e edit) {
	b.mu.Lock()
	b.edits = append(b.edits, e)
	b.mu.Unlock()
}

func (b *board) Toggle(x, y int) {
	b.queue(edit{apply: func(g life.Grid) { g.Toggle(x, y) }, readback: true})
}

func (b *board) Reset() {
	b.queue(edit{apply: life.Grid.Reset})
}

func (b *board) Reseed(seed uint64) {
	b.queue(edit{apply: func(g life.Grid) { g.Reseed(seed) }})
}

func (b *board) Clear() {
	b.queue(edit{apply: life.Grid.Clear})
}

// takeEdits returns the pending edits and whether any of them needs the current generation.
// Callers hold b.mu.
func (b *board) takeEdits() ([]edit, bool) {
	edits := b.edits
	b.edits = nil
	readback := false
	for _, e := range edits {
		readback = readback || e.readback
	}
	return edits, readback
}

// initRender registers the cell pipeline and uploads the quad mesh.
func (b *board) initRender(r renderer.Renderer) error {
	b.r = r
	b.renderPipeline = newRenderPipeline()
	if err := r.RegisterPipelines(b.renderPipeline); err != nil {
		return err
	}

	vs := b.renderPipeline.Shader(shader.ShaderTypeVertex)
	var err error
	if _, b.renderGridBinding, err = providerBinding(vs, shader.AnnotationArgProviderGrid); err != nil {
		return err
	}
	if _, b.renderCellsBinding, err = providerBinding(vs, shader.AnnotationArgCellsIn); err != nil {
		return err
	}

	b.mesh = bind_group_provider.NewBindGroupProvider("Cell Quad")
	return r.InitMeshBuffers(b.mesh, common.SliceToBytes(quadVertices), common.SliceToBytes(quadIndices), len(quadIndices))
}

// initRenderProvider creates the bind group drawing cells from the provider's cell buffer.
func (b *board) initRenderProvider(p bind_group_provider.BindGroupProvider, cellsSize uint64) error {
	desc, err := b.r.BindGroupLayoutDescriptor(RenderPipelineKey, 0)
	if err != nil {
		return err
	}
	return b.r.InitBindGroup(p, desc, nil, map[int]uint64{b.renderCellsBinding: cellsSize})
}

func (b *board) draw(p bind_group_provider.BindGroupProvider) error {
	return b.r.DrawCall(RenderPipelineKey, b.mesh, uint32(b.grid.Size()), []bind_group_provider.BindGroupProvider{p})
}

func (b *board) cellsSize() uint64 {
	return uint64(b.grid.Size()) * 4
}

func (b *board) releaseRender() {
	if b.mesh != nil {
		b.mesh.Release()
	}
}

// providerBinding looks up where a shader declared a provider identity.
func providerBinding(s shader.Shader, provider shader.AnnotationArg) (int, int, error) {
	group, binding, ok := s.ProviderBinding(provider)
	if !ok {
		return 0, 0, fmt.Errorf("shader %q declares no %s binding", s.Key(), provider)
	}
	return group, binding, nil
}
