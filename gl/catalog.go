package gl

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glbridge/internal/shader"
)

// PipelineKind selects one of the fixed render pipelines in the catalog.
// The numeric values are part of the recording contract: clients select
// pipelines by these indices.
type PipelineKind uint8

const (
	// PipelinePosColUint renders vertices with a packed 32-bit RGBA color,
	// alpha-blended over the target.
	PipelinePosColUint PipelineKind = 0

	// PipelinePosTex renders textured vertices, alpha-blended over the
	// target. Requires a texture bound via AttachTexture.
	PipelinePosTex PipelineKind = 1

	// PipelinePosColFloat3 renders vertices with an unpacked float RGB
	// color, opaque.
	PipelinePosColFloat3 PipelineKind = 2

	// pipelineClearColor is the internal full-target fill pipeline used by
	// ClearColor commands. Not selectable by clients.
	pipelineClearColor PipelineKind = 3

	pipelineCount = 4
)

// String returns a human-readable name for the pipeline kind.
func (k PipelineKind) String() string {
	switch k {
	case PipelinePosColUint:
		return "PosColUint"
	case PipelinePosTex:
		return "PosTex"
	case PipelinePosColFloat3:
		return "PosColFloat3"
	case pipelineClearColor:
		return "ClearColor"
	default:
		return "Unknown"
	}
}

// Valid reports whether the kind names a client-selectable pipeline.
func (k PipelineKind) Valid() bool {
	return k <= PipelinePosColFloat3
}

// catalog holds the fixed set of render pipelines and the bind group
// layouts they share. It is built once at engine creation and destroyed
// with the engine.
type catalog struct {
	device Device

	posColUintShader   hal.ShaderModule
	posTexShader       hal.ShaderModule
	posColFloat3Shader hal.ShaderModule
	clearColorShader   hal.ShaderModule

	// matrixLayout: uniform mat4 at group(0) binding(0).
	matrixLayout hal.BindGroupLayout
	// textureLayout: texture + sampler at group(1).
	textureLayout hal.BindGroupLayout

	matrixPipeLayout  hal.PipelineLayout
	texturePipeLayout hal.PipelineLayout
	emptyPipeLayout   hal.PipelineLayout

	pipelines [pipelineCount]hal.RenderPipeline

	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
}

// newCatalog compiles the shader programs and builds all pipelines.
// On error, any partially created resources are destroyed.
func newCatalog(device Device, colorFormat, depthFormat gputypes.TextureFormat) (*catalog, error) {
	c := &catalog{
		device:      device,
		colorFormat: colorFormat,
		depthFormat: depthFormat,
	}
	if err := c.init(); err != nil {
		c.destroy()
		return nil, err
	}
	return c, nil
}

func (c *catalog) init() error {
	var err error

	if c.posColUintShader, err = shader.CreateModule(c.device, "gl_pos_col_uint", shaderPosColUint); err != nil {
		return fmt.Errorf("compile pos_col_uint shader: %w", err)
	}
	if c.posTexShader, err = shader.CreateModule(c.device, "gl_pos_tex", shaderPosTex); err != nil {
		return fmt.Errorf("compile pos_tex shader: %w", err)
	}
	if c.posColFloat3Shader, err = shader.CreateModule(c.device, "gl_pos_col_float3", shaderPosColFloat3); err != nil {
		return fmt.Errorf("compile pos_col_float3 shader: %w", err)
	}
	if c.clearColorShader, err = shader.CreateModule(c.device, "gl_clearcolor", shaderClearColor); err != nil {
		return fmt.Errorf("compile clearcolor shader: %w", err)
	}

	// Matrix layout: one uniform buffer visible to the vertex stage.
	c.matrixLayout, err = c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gl_matrix_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create matrix bind group layout: %w", err)
	}

	// Texture layout: sampled texture + filtering sampler for the fragment
	// stage.
	c.textureLayout, err = c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "gl_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture bind group layout: %w", err)
	}

	c.matrixPipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gl_matrix_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.matrixLayout},
	})
	if err != nil {
		return fmt.Errorf("create matrix pipeline layout: %w", err)
	}

	c.texturePipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gl_texture_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.matrixLayout, c.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create texture pipeline layout: %w", err)
	}

	c.emptyPipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "gl_empty_pipe_layout",
		BindGroupLayouts: nil,
	})
	if err != nil {
		return fmt.Errorf("create empty pipeline layout: %w", err)
	}

	over := gputypes.BlendStatePremultiplied()

	specs := [pipelineCount]struct {
		label  string
		layout hal.PipelineLayout
		module hal.ShaderModule
		buffer gputypes.VertexBufferLayout
		blend  *gputypes.BlendState
	}{
		PipelinePosColUint: {
			label:  "gl_pos_col_uint_pipeline",
			layout: c.matrixPipeLayout,
			module: c.posColUintShader,
			buffer: vertexLayoutPosColUint(),
			blend:  &over,
		},
		PipelinePosTex: {
			label:  "gl_pos_tex_pipeline",
			layout: c.texturePipeLayout,
			module: c.posTexShader,
			buffer: vertexLayoutPosTex(),
			blend:  &over,
		},
		PipelinePosColFloat3: {
			label:  "gl_pos_col_float3_pipeline",
			layout: c.matrixPipeLayout,
			module: c.posColFloat3Shader,
			buffer: vertexLayoutPosColFloat3(),
			blend:  nil,
		},
		pipelineClearColor: {
			label:  "gl_clearcolor_pipeline",
			layout: c.emptyPipeLayout,
			module: c.clearColorShader,
			buffer: vertexLayoutClearColor(),
			blend:  nil,
		},
	}

	for kind, spec := range specs {
		pipeline, perr := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  spec.label,
			Layout: spec.layout,
			Vertex: hal.VertexState{
				Module:     spec.module,
				EntryPoint: "vs_main",
				Buffers:    []gputypes.VertexBufferLayout{spec.buffer},
			},
			Fragment: &hal.FragmentState{
				Module:     spec.module,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{
					{
						Format:    c.colorFormat,
						Blend:     spec.blend,
						WriteMask: gputypes.ColorWriteMaskAll,
					},
				},
			},
			DepthStencil: &hal.DepthStencilState{
				Format:            c.depthFormat,
				DepthWriteEnabled: false,
				DepthCompare:      gputypes.CompareFunctionAlways,
				StencilFront: hal.StencilFaceState{
					Compare:     gputypes.CompareFunctionAlways,
					FailOp:      hal.StencilOperationKeep,
					DepthFailOp: hal.StencilOperationKeep,
					PassOp:      hal.StencilOperationKeep,
				},
				StencilBack: hal.StencilFaceState{
					Compare:     gputypes.CompareFunctionAlways,
					FailOp:      hal.StencilOperationKeep,
					DepthFailOp: hal.StencilOperationKeep,
					PassOp:      hal.StencilOperationKeep,
				},
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
			Primitive: gputypes.PrimitiveState{
				Topology:  gputypes.PrimitiveTopologyTriangleList,
				FrontFace: gputypes.FrontFaceCCW,
				CullMode:  gputypes.CullModeNone,
			},
		})
		if perr != nil {
			return fmt.Errorf("create %s: %w", spec.label, perr)
		}
		c.pipelines[kind] = pipeline
	}

	return nil
}

// pipeline returns the render pipeline for the kind.
func (c *catalog) pipeline(kind PipelineKind) hal.RenderPipeline {
	return c.pipelines[kind]
}

// destroy releases all catalog resources in reverse creation order.
// Safe to call on a partially initialized catalog.
func (c *catalog) destroy() {
	for i := pipelineCount - 1; i >= 0; i-- {
		if c.pipelines[i] != nil {
			c.device.DestroyRenderPipeline(c.pipelines[i])
			c.pipelines[i] = nil
		}
	}
	if c.emptyPipeLayout != nil {
		c.device.DestroyPipelineLayout(c.emptyPipeLayout)
		c.emptyPipeLayout = nil
	}
	if c.texturePipeLayout != nil {
		c.device.DestroyPipelineLayout(c.texturePipeLayout)
		c.texturePipeLayout = nil
	}
	if c.matrixPipeLayout != nil {
		c.device.DestroyPipelineLayout(c.matrixPipeLayout)
		c.matrixPipeLayout = nil
	}
	if c.textureLayout != nil {
		c.device.DestroyBindGroupLayout(c.textureLayout)
		c.textureLayout = nil
	}
	if c.matrixLayout != nil {
		c.device.DestroyBindGroupLayout(c.matrixLayout)
		c.matrixLayout = nil
	}
	if c.clearColorShader != nil {
		c.device.DestroyShaderModule(c.clearColorShader)
		c.clearColorShader = nil
	}
	if c.posColFloat3Shader != nil {
		c.device.DestroyShaderModule(c.posColFloat3Shader)
		c.posColFloat3Shader = nil
	}
	if c.posTexShader != nil {
		c.device.DestroyShaderModule(c.posTexShader)
		c.posTexShader = nil
	}
	if c.posColUintShader != nil {
		c.device.DestroyShaderModule(c.posColUintShader)
		c.posColUintShader = nil
	}
}
