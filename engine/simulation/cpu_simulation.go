package simulation

import (
	"log"

	"github.com/Shotz5/Game-Of-Life-WebGPU/common"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/bind_group_provider"
)

// cpuSimulation steps generations on the update goroutine with a life.Stepper and uploads the
// current generation to a single cell buffer whenever it changed.
type cpuSimulation struct {
	board

	stepper  life.Stepper
	workers  int
	dirty    bool
	provider bind_group_provider.BindGroupProvider
}

var _ Simulation = &cpuSimulation{}

func (s *cpuSimulation) Init(r renderer.Renderer) error {
	if err := s.initRender(r); err != nil {
		return err
	}

	p := bind_group_provider.NewBindGroupProvider("Cells Render")
	if err := s.initRenderProvider(p, s.cellsSize()); err != nil {
		return err
	}
	s.provider = p

	s.mu.Lock()
	defer s.mu.Unlock()
	r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p, Binding: s.renderGridBinding, Data: s.uniform.Marshal()},
		{Provider: p, Binding: s.renderCellsBinding, Data: common.Uint32sToBytes(s.grid.Current())},
	})
	s.dirty = false

	log.Printf("[Simulation] cpu %dx%d, %d workers", s.Width(), s.Height(), s.workers)
	return nil
}

func (s *cpuSimulation) Backend() Backend {
	return BackendCPU
}

func (s *cpuSimulation) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Generation()
}

func (s *cpuSimulation) RequestStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.Advance(s.stepper)
	s.dirty = true
}

func (s *cpuSimulation) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	edits, _ := s.takeEdits()
	for _, e := range edits {
		e.apply(s.grid)
	}
	if len(edits) > 0 {
		s.dirty = true
	}
	if !s.dirty || s.provider == nil {
		return nil
	}
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.provider, Binding: s.renderCellsBinding, Data: common.Uint32sToBytes(s.grid.Current())},
	})
	s.dirty = false
	return nil
}

// PrepareCompute does nothing, generations were already computed by RequestStep.
func (s *cpuSimulation) PrepareCompute() error {
	return nil
}

func (s *cpuSimulation) DrawCalls() error {
	return s.draw(s.provider)
}

func (s *cpuSimulation) Snapshot() ([]uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Snapshot(), nil
}

func (s *cpuSimulation) Release() {
	if s.provider != nil {
		s.provider.Release()
	}
	s.releaseRender()
	s.stepper.Close()
}
