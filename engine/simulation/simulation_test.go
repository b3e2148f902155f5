package simulation

import (
	"testing"

	"github.com/Shotz5/Game-Of-Life-WebGPU/common"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/life"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/bind_group_provider"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records the calls a simulation makes between frames. Methods it does not
// override panic through the nil embedded interface.
type fakeRenderer struct {
	renderer.Renderer

	gpuCells   []uint32
	dispatched []bind_group_provider.BindGroupProvider
	drawn      []bind_group_provider.BindGroupProvider
	writes     [][]bind_group_provider.BufferWrite
	reads      int
}

func (f *fakeRenderer) DispatchCompute(key string, p bind_group_provider.BindGroupProvider, count [3]uint32) error {
	f.dispatched = append(f.dispatched, p)
	return nil
}

func (f *fakeRenderer) DrawCall(key string, mesh bind_group_provider.BindGroupProvider, instances uint32, groups []bind_group_provider.BindGroupProvider) error {
	f.drawn = append(f.drawn, groups...)
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes)
}

func (f *fakeRenderer) ReadBuffer(p bind_group_provider.BindGroupProvider, binding int, size uint64) ([]byte, error) {
	f.reads++
	return common.Uint32sToBytes(f.gpuCells), nil
}

func newGrid(t *testing.T, w, h int, pattern string) life.Grid {
	t.Helper()
	p, err := life.LookupPattern(pattern)
	require.NoError(t, err)
	g, err := life.NewGrid(w, h, life.WithPattern(p))
	require.NoError(t, err)
	return g
}

func TestComputeShader(t *testing.T) {
	p := newComputePipeline(16)
	require.NoError(t, p.Validate())
	cs := p.Shader(shader.ShaderTypeCompute)

	assert.Equal(t, "computeMain", cs.EntryPoint())
	assert.Equal(t, [3]uint32{16, 16, 1}, cs.WorkgroupSize())
	for want, provider := range []shader.AnnotationArg{shader.AnnotationArgProviderGrid, shader.AnnotationArgCellsIn, shader.AnnotationArgCellsOut} {
		group, binding, err := providerBinding(cs, provider)
		require.NoError(t, err)
		assert.Equal(t, 0, group)
		assert.Equal(t, want, binding)
	}
	assert.Contains(t, cs.Source(), "fn cellIndex")
	assert.Equal(t, wgpu.BufferBindingTypeStorage, cs.BindGroupLayoutDescriptor(0).Entries[2].Buffer.Type)
}

func TestRenderShaders(t *testing.T) {
	p := newRenderPipeline()
	require.NoError(t, p.Validate())

	vs := p.Shader(shader.ShaderTypeVertex)
	assert.Equal(t, "vertexMain", vs.EntryPoint())
	layout := vs.VertexLayout(0)[0]
	assert.Equal(t, uint64(8), layout.ArrayStride)

	_, cells, err := providerBinding(vs, shader.AnnotationArgCellsIn)
	require.NoError(t, err)
	assert.Equal(t, 1, cells)
	_, _, err = providerBinding(vs, shader.AnnotationArgCellsOut)
	assert.Error(t, err)

	assert.Equal(t, "fragmentMain", p.Shader(shader.ShaderTypeFragment).EntryPoint())
}

func TestNewSimulationErrors(t *testing.T) {
	g := newGrid(t, 8, 8, "glider")

	_, err := NewSimulation("opencl", g)
	assert.ErrorIs(t, err, life.ErrInvalidArgument)

	_, err = NewSimulation(BackendGPU, g, WithWorkgroupSize(0))
	assert.ErrorIs(t, err, life.ErrInvalidArgument)

	_, err = NewSimulation(BackendGPU, g, WithWorkgroupSize(MaxWorkgroupSize+1))
	assert.ErrorIs(t, err, life.ErrInvalidArgument)

	s, err := NewSimulation(BackendGPU, g, WithWorkgroupSize(MaxWorkgroupSize))
	require.NoError(t, err)
	assert.Equal(t, BackendGPU, s.Backend())
	assert.Equal(t, 8, s.Width())
	assert.Equal(t, 8, s.Height())
}

func TestCPUSimulationSteps(t *testing.T) {
	g := newGrid(t, 5, 5, "blinker")
	s, err := NewSimulation(BackendCPU, g, WithWorkers(2))
	require.NoError(t, err)
	defer s.Release()
	assert.Equal(t, BackendCPU, s.Backend())

	s.RequestStep()
	assert.Equal(t, uint64(1), s.Generation())

	cells, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, life.Population(cells))
	assert.Equal(t, uint32(1), cells[1*5+2])
	assert.Equal(t, uint32(1), cells[2*5+2])
	assert.Equal(t, uint32(1), cells[3*5+2])

	s.RequestStep()
	cells, err = s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), cells[2*5+1])
	assert.Equal(t, uint32(0), cells[1*5+2])
}

func TestCPUSimulationEditsWaitForSync(t *testing.T) {
	g := newGrid(t, 6, 6, "block")
	s, err := NewSimulation(BackendCPU, g)
	require.NoError(t, err)
	defer s.Release()

	s.Toggle(0, 0)
	cells, _ := s.Snapshot()
	assert.Equal(t, 4, life.Population(cells))

	require.NoError(t, s.Sync())
	cells, _ = s.Snapshot()
	assert.Equal(t, 5, life.Population(cells))

	s.RequestStep()
	s.Clear()
	require.NoError(t, s.Sync())
	cells, _ = s.Snapshot()
	assert.Zero(t, life.Population(cells))
	assert.Zero(t, s.Generation())

	s.Reset()
	require.NoError(t, s.Sync())
	cells, _ = s.Snapshot()
	assert.Equal(t, 4, life.Population(cells))
}

func TestCPUSimulationSyncUploadsWhenDirty(t *testing.T) {
	g := newGrid(t, 4, 4, "block")
	s, err := NewSimulation(BackendCPU, g)
	require.NoError(t, err)
	cpu := s.(*cpuSimulation)
	f := &fakeRenderer{}
	cpu.r = f
	cpu.renderCellsBinding = 1
	cpu.provider = bind_group_provider.NewBindGroupProvider("cells")
	defer s.Release()

	require.NoError(t, s.Sync())
	require.Len(t, f.writes, 1)
	assert.Equal(t, 1, f.writes[0][0].Binding)

	require.NoError(t, s.Sync())
	assert.Len(t, f.writes, 1)

	s.RequestStep()
	require.NoError(t, s.Sync())
	assert.Len(t, f.writes, 2)

	require.NoError(t, s.DrawCalls())
	assert.Equal(t, []bind_group_provider.BindGroupProvider{cpu.provider}, f.drawn)
}

// gpuUnderTest wires a gpuSimulation to a fake renderer without creating GPU resources.
func gpuUnderTest(t *testing.T, g life.Grid, opts ...SimulationBuilderOption) (*gpuSimulation, *fakeRenderer) {
	t.Helper()
	s, err := NewSimulation(BackendGPU, g, opts...)
	require.NoError(t, err)
	gs := s.(*gpuSimulation)
	f := &fakeRenderer{}
	gs.r = f
	gs.computeGridBinding, gs.computeInBinding, gs.computeOutBinding = 0, 1, 2
	gs.computeProviders = [2]bind_group_provider.BindGroupProvider{
		bind_group_provider.NewBindGroupProvider("compute A"),
		bind_group_provider.NewBindGroupProvider("compute B"),
	}
	gs.renderProviders = [2]bind_group_provider.BindGroupProvider{
		bind_group_provider.NewBindGroupProvider("render A"),
		bind_group_provider.NewBindGroupProvider("render B"),
	}
	return gs, f
}

func TestGPUSimulationPingPong(t *testing.T) {
	s, f := gpuUnderTest(t, newGrid(t, 8, 8, "glider"))

	require.NoError(t, s.PrepareCompute())
	assert.Empty(t, f.dispatched)

	s.RequestStep()
	s.RequestStep()
	s.RequestStep()
	require.NoError(t, s.PrepareCompute())
	assert.Equal(t, uint64(3), s.Generation())
	assert.Equal(t, []bind_group_provider.BindGroupProvider{
		s.computeProviders[0], s.computeProviders[1], s.computeProviders[0],
	}, f.dispatched)

	// generation 3 was written to B, so B is drawn
	require.NoError(t, s.DrawCalls())
	assert.Equal(t, []bind_group_provider.BindGroupProvider{s.renderProviders[1]}, f.drawn)
}

func TestGPUSimulationCatchUpIsCapped(t *testing.T) {
	s, f := gpuUnderTest(t, newGrid(t, 8, 8, "glider"), WithMaxCatchUp(2))

	for range 5 {
		s.RequestStep()
	}
	require.NoError(t, s.PrepareCompute())
	assert.Len(t, f.dispatched, 2)
	assert.Equal(t, uint64(2), s.Generation())

	require.NoError(t, s.PrepareCompute())
	assert.Len(t, f.dispatched, 2)
}

func TestGPUSimulationToggleReadsBack(t *testing.T) {
	g := newGrid(t, 4, 4, "block")
	s, f := gpuUnderTest(t, g)

	s.RequestStep()
	require.NoError(t, s.PrepareCompute())

	// the GPU holds a generation the mirror has not seen
	f.gpuCells = make([]uint32, 16)
	f.gpuCells[5] = 1
	s.Toggle(3, 3)
	require.NoError(t, s.Sync())

	assert.Equal(t, 1, f.reads)
	require.Len(t, f.writes, 1)
	require.Len(t, f.writes[0], 1)
	assert.Equal(t, s.computeOutBinding, f.writes[0][0].Binding)

	want := make([]uint32, 16)
	want[5], want[15] = 1, 1
	got := make([]uint32, 16)
	assert.Equal(t, 16, common.BytesToUint32s(got, f.writes[0][0].Data))
	assert.Equal(t, want, got)
}

func TestGPUSimulationResetWritesBothBuffers(t *testing.T) {
	s, f := gpuUnderTest(t, newGrid(t, 4, 4, "block"))

	s.RequestStep()
	require.NoError(t, s.PrepareCompute())
	s.Reset()
	require.NoError(t, s.Sync())

	assert.Zero(t, f.reads)
	require.Len(t, f.writes, 1)
	assert.Len(t, f.writes[0], 2)
	assert.Zero(t, s.Generation())
}

func TestGPUSimulationSnapshot(t *testing.T) {
	s, f := gpuUnderTest(t, newGrid(t, 2, 2, "block"))
	f.gpuCells = []uint32{0, 1, 1, 0}

	cells, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 1, 0}, cells)
	assert.Equal(t, 1, f.reads)
}
