package renderer

import (
	"testing"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/pipeline"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cellRenderSource = `
//@life:group 0 0 storage_uniform grid grid grid
//@life:group 0 1 storage_read cellState array<cell_state> cells_in

@vertex
fn vertexMain(@location(0) pos: vec2f) -> @builtin(position) vec4f {
    return vec4f(pos, 0, 1);
}

@fragment
fn fragmentMain() -> @location(0) vec4f {
    return vec4f(1, 1, 1, 1);
}
`

func uniformEntry(binding uint32, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
		Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 8},
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "vs", Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(1, wgpu.ShaderStageVertex),
			uniformEntry(0, wgpu.ShaderStageVertex),
		}},
		1: {Label: "vs only", Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageVertex)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "fs", Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageFragment),
			uniformEntry(2, wgpu.ShaderStageFragment),
		}},
		2: {Label: "fs only", Entries: []wgpu.BindGroupLayoutEntry{uniformEntry(0, wgpu.ShaderStageFragment)}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	require.Len(t, merged, 3)

	g0 := merged[0]
	assert.Equal(t, "vs", g0.Label)
	require.Len(t, g0.Entries, 3)
	for i, e := range g0.Entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0.Entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageVertex, g0.Entries[1].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, g0.Entries[2].Visibility)

	assert.Equal(t, "vs only", merged[1].Label)
	assert.Equal(t, "fs only", merged[2].Label)
}

func TestOrderedGroups(t *testing.T) {
	groups, err := orderedGroups(map[int]wgpu.BindGroupLayoutDescriptor{2: {}, 0: {}, 1: {}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, groups)

	groups, err = orderedGroups(nil)
	require.NoError(t, err)
	assert.Empty(t, groups)

	_, err = orderedGroups(map[int]wgpu.BindGroupLayoutDescriptor{0: {}, 2: {}})
	assert.Error(t, err)
}

func TestPipelineBindGroupLayouts(t *testing.T) {
	p := pipeline.NewPipeline("cells", pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(shader.NewShaderFromSource("cell_vertex", shader.ShaderTypeVertex, cellRenderSource)),
		pipeline.WithFragmentShader(shader.NewShaderFromSource("cell_fragment", shader.ShaderTypeFragment, cellRenderSource)),
	)

	layouts := pipelineBindGroupLayouts(p)
	require.Contains(t, layouts, 0)
	entries := layouts[0].Entries
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
	}
}

func TestParseMSAASampleCount(t *testing.T) {
	for _, n := range []int{1, 4, 8, 16} {
		got, err := ParseMSAASampleCount(n)
		require.NoError(t, err)
		assert.Equal(t, MSAASampleCount(n), got)
	}
	for _, n := range []int{0, 2, 3, 32, -4} {
		_, err := ParseMSAASampleCount(n)
		assert.Error(t, err, n)
	}
}
