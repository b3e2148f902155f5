package simulation

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/Shotz5/Game-Of-Life-WebGPU/common"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/bind_group_provider"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// gpuSimulation computes generations with the life compute shader.
//
// Cell buffers A and B live on the GPU. computeProviders[0] reads A and writes B, computeProviders[1]
// reads B and writes A, and renderProviders[i] draws the buffer computeProviders[i] reads. The grid's
// parity picks both, so after each dispatch and swap the freshly written buffer is the one drawn.
// The CPU grid is only a mirror used for edits and is refreshed from the GPU when an edit needs it.
type gpuSimulation struct {
	board

	workgroupSize uint32
	maxCatchUp    int
	pending       atomic.Uint64

	computeProviders [2]bind_group_provider.BindGroupProvider
	renderProviders  [2]bind_group_provider.BindGroupProvider

	computeGridBinding  int
	computeInBinding    int
	computeOutBinding   int
	workgroupCount      [3]uint32
	generationsComputed uint64
}

var _ Simulation = &gpuSimulation{}

func (s *gpuSimulation) Init(r renderer.Renderer) error {
	if err := s.initRender(r); err != nil {
		return err
	}

	compute := newComputePipeline(s.workgroupSize)
	if err := r.RegisterPipelines(compute); err != nil {
		return err
	}
	cs := compute.Shader(shader.ShaderTypeCompute)
	s.workgroupCount = life.WorkgroupCount(s.Width(), s.Height(), cs.WorkgroupSize())

	var err error
	if _, s.computeGridBinding, err = providerBinding(cs, shader.AnnotationArgProviderGrid); err != nil {
		return err
	}
	if _, s.computeInBinding, err = providerBinding(cs, shader.AnnotationArgCellsIn); err != nil {
		return err
	}
	if _, s.computeOutBinding, err = providerBinding(cs, shader.AnnotationArgCellsOut); err != nil {
		return err
	}

	desc, err := r.BindGroupLayoutDescriptor(ComputePipelineKey, 0)
	if err != nil {
		return err
	}

	// Provider A owns the uniform and both cell buffers. CopySrc lets Snapshot read them back.
	a := bind_group_provider.NewBindGroupProvider("Life Compute A")
	size := s.cellsSize()
	err = r.InitBindGroup(a, desc,
		map[int]wgpu.BufferUsage{
			s.computeInBinding:  wgpu.BufferUsageCopySrc,
			s.computeOutBinding: wgpu.BufferUsageCopySrc,
		},
		map[int]uint64{
			s.computeInBinding:  size,
			s.computeOutBinding: size,
		},
	)
	if err != nil {
		return fmt.Errorf("init compute bind group A: %w", err)
	}
	uniform := a.Buffer(s.computeGridBinding)
	bufA := a.Buffer(s.computeInBinding)
	bufB := a.Buffer(s.computeOutBinding)

	b := bind_group_provider.NewBindGroupProvider("Life Compute B",
		bind_group_provider.WithSharedBuffer(s.computeGridBinding, uniform),
		bind_group_provider.WithSharedBuffer(s.computeInBinding, bufB),
		bind_group_provider.WithSharedBuffer(s.computeOutBinding, bufA),
	)
	if err := r.InitBindGroup(b, desc, nil, nil); err != nil {
		return fmt.Errorf("init compute bind group B: %w", err)
	}
	s.computeProviders = [2]bind_group_provider.BindGroupProvider{a, b}

	for i, buf := range []*wgpu.Buffer{bufA, bufB} {
		p := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Cells Render %c", 'A'+i),
			bind_group_provider.WithSharedBuffer(s.renderGridBinding, uniform),
			bind_group_provider.WithSharedBuffer(s.renderCellsBinding, buf),
		)
		if err := s.initRenderProvider(p, size); err != nil {
			return fmt.Errorf("init render bind group %c: %w", 'A'+i, err)
		}
		s.renderProviders[i] = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r.WriteBuffers(append(s.cellWrites(true), bind_group_provider.BufferWrite{
		Provider: a,
		Binding:  s.computeGridBinding,
		Data:     s.uniform.Marshal(),
	}))

	log.Printf("[Simulation] gpu %dx%d, workgroup %v, dispatch %v", s.Width(), s.Height(), cs.WorkgroupSize(), s.workgroupCount)
	return nil
}

func (s *gpuSimulation) Backend() Backend {
	return BackendGPU
}

func (s *gpuSimulation) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Generation()
}

func (s *gpuSimulation) RequestStep() {
	s.pending.Add(1)
}

// cellWrites uploads the mirror's current buffer, or both buffers when all is set.
// Buffer A is the in binding of compute provider A and buffer B its out binding.
// Callers hold s.mu.
func (s *gpuSimulation) cellWrites(all bool) []bind_group_provider.BufferWrite {
	a := s.computeProviders[0]
	writeA := bind_group_provider.BufferWrite{Provider: a, Binding: s.computeInBinding, Data: common.Uint32sToBytes(s.grid.BufferA())}
	writeB := bind_group_provider.BufferWrite{Provider: a, Binding: s.computeOutBinding, Data: common.Uint32sToBytes(s.grid.BufferB())}
	switch {
	case all:
		return []bind_group_provider.BufferWrite{writeA, writeB}
	case s.grid.Parity() == 0:
		return []bind_group_provider.BufferWrite{writeA}
	default:
		return []bind_group_provider.BufferWrite{writeB}
	}
}

func (s *gpuSimulation) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	edits, readback := s.takeEdits()
	if len(edits) == 0 {
		return nil
	}
	if readback {
		if err := s.readCurrent(); err != nil {
			return err
		}
	}

	before := s.grid.Generation()
	for _, e := range edits {
		e.apply(s.grid)
	}
	// Reset and Clear rewind the generation, so both buffers have to match the mirror again.
	s.r.WriteBuffers(s.cellWrites(s.grid.Generation() != before))
	return nil
}

// readCurrent copies the current generation from the GPU into the mirror. Callers hold s.mu.
func (s *gpuSimulation) readCurrent() error {
	raw, err := s.r.ReadBuffer(s.computeProviders[s.grid.Parity()], s.computeInBinding, s.cellsSize())
	if err != nil {
		return fmt.Errorf("read back generation %d: %w", s.grid.Generation(), err)
	}
	common.BytesToUint32s(s.grid.Current(), raw)
	return nil
}

func (s *gpuSimulation) PrepareCompute() error {
	n := s.pending.Swap(0)
	if n == 0 {
		return nil
	}
	if n > uint64(s.maxCatchUp) {
		log.Printf("[Simulation] dropping %d generations, render loop is behind", n-uint64(s.maxCatchUp))
		n = uint64(s.maxCatchUp)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for range n {
		if err := s.r.DispatchCompute(ComputePipelineKey, s.computeProviders[s.grid.Parity()], s.workgroupCount); err != nil {
			return err
		}
		s.grid.Swap()
		s.generationsComputed++
	}
	return nil
}

func (s *gpuSimulation) DrawCalls() error {
	s.mu.Lock()
	p := s.renderProviders[s.grid.Parity()]
	s.mu.Unlock()
	return s.draw(p)
}

func (s *gpuSimulation) Snapshot() ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readCurrent(); err != nil {
		return nil, err
	}
	return s.grid.Snapshot(), nil
}

func (s *gpuSimulation) Release() {
	for _, p := range s.renderProviders {
		if p != nil {
			p.Release()
		}
	}
	// B only shares buffers, A owns them.
	for i := len(s.computeProviders) - 1; i >= 0; i-- {
		if p := s.computeProviders[i]; p != nil {
			p.Release()
		}
	}
	s.releaseRender()
}
