package simulation

import (
	_ "embed"

	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/pipeline"
	"github.com/Shotz5/Game-Of-Life-WebGPU/engine/renderer/shader"
)

const (
	// ComputePipelineKey is the renderer cache key of the generation compute pipeline.
	ComputePipelineKey = "life_compute"
	// RenderPipelineKey is the renderer cache key of the instanced cell pipeline.
	RenderPipelineKey = "cells_render"

	workgroupSizeConstant = "WORKGROUP_SIZE"
)

//go:embed assets/life_compute.wgsl
var computeShaderSource string

//go:embed assets/cells.wgsl
var cellsShaderSource string

func newComputePipeline(workgroupSize uint32) pipeline.Pipeline {
	cs := shader.NewShaderFromSource(ComputePipelineKey, shader.ShaderTypeCompute, computeShaderSource,
		shader.WithConstant(workgroupSizeConstant, workgroupSize),
	)
	return pipeline.NewPipeline(ComputePipelineKey, pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(cs),
	)
}

func newRenderPipeline() pipeline.Pipeline {
	vs := shader.NewShaderFromSource(RenderPipelineKey+"_vertex", shader.ShaderTypeVertex, cellsShaderSource)
	fs := shader.NewShaderFromSource(RenderPipelineKey+"_fragment", shader.ShaderTypeFragment, cellsShaderSource)
	return pipeline.NewPipeline(RenderPipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
}
