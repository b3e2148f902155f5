package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRenderSource = `
//@life:group 0 0 storage_uniform grid grid grid
//@life:group 0 1 storage_read cellState array<cell_state> cells_in

struct VertexInput {
    @location(0) pos: vec2f,
};

struct VertexOutput {
    @builtin(position) pos: vec4f,
    @location(0) cell: vec2f,
};

@vertex
fn vertexMain(input: VertexInput, @builtin(instance_index) instance: u32) -> VertexOutput {
    var output: VertexOutput;
    output.pos = vec4f(input.pos, 0, 1);
    output.cell = vec2f(0, 0);
    return output;
}

@fragment
fn fragmentMain(input: VertexOutput) -> @location(0) vec4f {
    return vec4f(input.cell, 1, 1);
}
`

const testComputeSource = `
//@life:const WORKGROUP_SIZE
//@life:group 0 0 storage_uniform grid grid grid
//@life:group 0 1 storage_read cellStateIn array<cell_state> cells_in
//@life:group 0 2 storage_read_write cellStateOut array<cell_state> cells_out

/* @workgroup_size(99) is ignored inside comments */
@compute @workgroup_size(WORKGROUP_SIZE, WORKGROUP_SIZE)
fn computeMain(@builtin(global_invocation_id) cell: vec3u) {
}
`

func TestNewShaderFromSourceVertex(t *testing.T) {
	s := NewShaderFromSource("cell_vertex", ShaderTypeVertex, testRenderSource)

	assert.Equal(t, "cell_vertex", s.Key())
	assert.Equal(t, "vertexMain", s.EntryPoint())
	assert.Equal(t, [3]uint32{0, 0, 0}, s.WorkgroupSize())
	require.NotNil(t, s.Module())
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	layout := s.VertexLayout(0)[0]
	assert.Equal(t, uint64(8), layout.ArrayStride)
	require.Len(t, layout.Attributes, 1)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, layout.Attributes[0].Format)

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, uint64(8), desc.Entries[0].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, desc.Entries[1].Buffer.Type)
	assert.Equal(t, uint64(4), desc.Entries[1].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageVertex, desc.Entries[1].Visibility)

	assert.Equal(t, "cellState", s.BindGroupVarName(0, 1))
	binding, ok := s.BindGroupFromVarName(0, "grid")
	assert.True(t, ok)
	assert.Equal(t, 0, binding)
	_, ok = s.BindGroupFromVarName(3, "grid")
	assert.False(t, ok)
}

func TestNewShaderFromSourceFragment(t *testing.T) {
	s := NewShaderFromSource("cell_fragment", ShaderTypeFragment, testRenderSource)
	assert.Equal(t, "fragmentMain", s.EntryPoint())
	assert.Empty(t, s.VertexLayouts())
	assert.Equal(t, wgpu.ShaderStageFragment, s.BindGroupLayoutDescriptor(0).Entries[0].Visibility)
}

func TestNewShaderFromSourceCompute(t *testing.T) {
	s := NewShaderFromSource("life_compute", ShaderTypeCompute, testComputeSource, WithConstant("WORKGROUP_SIZE", 8))

	assert.Equal(t, "computeMain", s.EntryPoint())
	assert.Equal(t, [3]uint32{8, 8, 1}, s.WorkgroupSize())

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 3)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, desc.Entries[2].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageCompute, desc.Entries[2].Visibility)

	for want, provider := range []AnnotationArg{AnnotationArgProviderGrid, AnnotationArgCellsIn, AnnotationArgCellsOut} {
		group, binding, ok := s.ProviderBinding(provider)
		require.True(t, ok, provider)
		assert.Equal(t, 0, group)
		assert.Equal(t, want, binding)
	}
	assert.Len(t, s.Declarations(), 3)
}

func TestNewShaderPanics(t *testing.T) {
	assert.Panics(t, func() { NewShader("missing", ShaderTypeCompute, "") })
	assert.Panics(t, func() { NewShader("missing", ShaderTypeCompute, "does/not/exist.wgsl") })
	assert.Panics(t, func() { NewShaderFromSource("no_const", ShaderTypeCompute, testComputeSource) })
}

func TestParseWorkgroupSize(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   [3]uint32
	}{
		{name: "absent", source: "fn main() {}", want: [3]uint32{1, 1, 1}},
		{name: "one literal", source: "@compute @workgroup_size(64) fn main() {}", want: [3]uint32{64, 1, 1}},
		{name: "suffixed literals", source: "@compute @workgroup_size(4u, 2i, 2) fn main() {}", want: [3]uint32{4, 2, 2}},
		{name: "trailing comma", source: "@compute @workgroup_size(16, 16,) fn main() {}", want: [3]uint32{16, 16, 1}},
		{name: "constants", source: "const W = 4;\nconst H: u32 = 2u;\n@compute @workgroup_size(W, H) fn main() {}", want: [3]uint32{4, 2, 1}},
		{name: "unknown constant", source: "@compute @workgroup_size(N) fn main() {}", want: [3]uint32{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseWorkgroupSize(tt.source))
		})
	}
}

func TestResolveTypeLayout(t *testing.T) {
	layout, ok := resolveTypeLayout("array<u32>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(4), layout.size)

	layout, ok = resolveTypeLayout("array<vec3f, 2>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(32), layout.size)

	_, ok = resolveTypeLayout("texture_2d<f32>", nil)
	assert.False(t, ok)
}

func TestStripComments(t *testing.T) {
	src := "a /* b /* nested */ c */ d // tail\ne"
	assert.Equal(t, "a  d \ne\n", stripComments(src))
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: f32, b: array<vec2f, 4>, c: u32")
	assert.Equal(t, []string{"a: f32", " b: array<vec2f, 4>", " c: u32"}, parts)
}
