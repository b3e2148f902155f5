package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    AnnotationType
		args    []AnnotationArg
		wantErr string
	}{
		{name: "plain line", line: "let x = 1u;"},
		{name: "ordinary comment", line: "// just a comment"},
		{name: "prefix outside comment", line: "let s = 1; @life:group"},
		{name: "include", line: "//@life:include cell_index", want: annotationTypeInclude, args: []AnnotationArg{"cell_index"}},
		{name: "group", line: "  //@life:group 0 0 storage_uniform grid grid", want: AnnotationTypeBindingGroup, args: []AnnotationArg{"storage_uniform", "grid", "grid"}},
		{name: "group with provider", line: "//@life:group 0 2 storage_read_write cellStateOut array<cell_state> cells_out", want: AnnotationTypeBindingGroup, args: []AnnotationArg{"storage_read_write", "cellStateOut", "array<cell_state>", "cells_out"}},
		{name: "provider", line: "//@life:provider 0 1 cells_in", want: AnnotationTypeProvider, args: []AnnotationArg{"cells_in"}},
		{name: "const", line: "//@life:const WORKGROUP_SIZE", want: annotationTypeConst, args: []AnnotationArg{"WORKGROUP_SIZE"}},
		{name: "empty", line: "//@life:", wantErr: "empty"},
		{name: "unknown type", line: "//@life:texture 0 0", wantErr: "unknown @life annotation type"},
		{name: "unknown include", line: "//@life:include camera", wantErr: "unknown helper"},
		{name: "bad group number", line: "//@life:group x 0 storage_uniform grid grid", wantErr: "invalid group number"},
		{name: "negative binding", line: "//@life:group 0 -1 storage_uniform grid grid", wantErr: "invalid binding number"},
		{name: "bad address space", line: "//@life:group 0 0 private grid grid", wantErr: "unknown address space"},
		{name: "bad group type", line: "//@life:group 0 0 storage_uniform grid array<float>", wantErr: "unknown type"},
		{name: "bad group provider", line: "//@life:group 0 0 storage_uniform grid grid camera", wantErr: "unknown provider identity"},
		{name: "bad provider", line: "//@life:provider 0 0 lights", wantErr: "unknown provider identity"},
		{name: "lowercase const", line: "//@life:const size", wantErr: "invalid constant name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnnotation(tt.line, 7)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Contains(t, err.Error(), "line 7")
				return
			}
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, a)
				return
			}
			require.NotNil(t, a)
			assert.Equal(t, tt.want, a.Type)
			assert.Equal(t, tt.args, a.Args)
			assert.Equal(t, 7, a.Line)
		})
	}
}

func TestPreProcessorProcess(t *testing.T) {
	src := strings.Join([]string{
		"//@life:const WORKGROUP_SIZE",
		"//@life:group 0 0 storage_uniform grid grid grid",
		"//@life:group 0 1 storage_read cellStateIn array<cell_state> cells_in",
		"//@life:provider 0 2 cells_out",
		"@group(0) @binding(2) var<storage, read_write> cellStateOut: array<u32>;",
		"//@life:include cell_index",
		"//@life:include cell_index",
	}, "\n")

	pp := NewPreProcessor(map[string]uint32{"WORKGROUP_SIZE": 8})
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Contains(t, out, "const WORKGROUP_SIZE: u32 = 8u;")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> grid: vec2f;")
	assert.Contains(t, out, "@group(0) @binding(1) var<storage, read> cellStateIn: array<u32>;")
	assert.Equal(t, 1, strings.Count(out, "fn cellIndex("), "helpers are included once")
	assert.NotContains(t, out, "@life:")

	decls := pp.Declarations()
	require.Len(t, decls, 3)
	for i, want := range []AnnotationArg{AnnotationArgProviderGrid, AnnotationArgCellsIn, AnnotationArgCellsOut} {
		p, ok := decls[i].Provider()
		require.True(t, ok)
		assert.Equal(t, want, p)
		assert.Equal(t, i, *decls[i].Binding)
	}
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor(nil)
	_, err := pp.Process("//@life:provider 0 0 grid")
	require.NoError(t, err)
	require.Len(t, pp.Declarations(), 1)

	_, err = pp.Process("fn main() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestPreProcessorMissingConstant(t *testing.T) {
	_, err := NewPreProcessor(nil).Process("\n//@life:const WORKGROUP_SIZE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "WORKGROUP_SIZE")
}

func TestGroupAnnotationWithoutProvider(t *testing.T) {
	a, err := parseAnnotation("//@life:group 1 3 storage_read cells array<cell_state>", 1)
	require.NoError(t, err)
	_, ok := a.Provider()
	assert.False(t, ok)
	assert.Equal(t, 1, *a.Group)
	assert.Equal(t, 3, *a.Binding)
}
