package gl

import "github.com/gogpu/gputypes"

// WGSL sources for the fixed pipeline catalog. Each program pairs with a
// vertex layout function below; layouts and programs must agree on
// locations and strides.

// shaderPosColUint: position + packed RGBA color (one uint per vertex).
const shaderPosColUint = `
struct Uniforms {
    mvp: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

fn unpack_color(c: u32) -> vec4<f32> {
    return vec4<f32>(
        f32(c & 0xffu),
        f32((c >> 8u) & 0xffu),
        f32((c >> 16u) & 0xffu),
        f32((c >> 24u) & 0xffu),
    ) / 255.0;
}

@vertex
fn vs_main(@location(0) pos: vec3<f32>, @location(1) color: u32) -> VertexOut {
    var out: VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.color = unpack_color(color);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return in.color;
}
`

// shaderPosTex: position + texture coordinates, sampled at group 1.
const shaderPosTex = `
struct Uniforms {
    mvp: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(1) @binding(0) var t_color: texture_2d<f32>;
@group(1) @binding(1) var s_color: sampler;

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec3<f32>, @location(1) uv: vec2<f32>) -> VertexOut {
    var out: VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.uv = uv;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return textureSample(t_color, s_color, in.uv);
}
`

// shaderPosColFloat3: position + unpacked float RGB color, opaque.
const shaderPosColFloat3 = `
struct Uniforms {
    mvp: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec3<f32>, @location(1) color: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    out.position = u.mvp * vec4<f32>(pos, 1.0);
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`

// shaderClearColor: screen-space quad in clip coordinates, no uniforms.
const shaderClearColor = `
struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec3<f32>,
}

@vertex
fn vs_main(@location(0) pos: vec2<f32>, @location(1) color: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    out.position = vec4<f32>(pos, 0.0, 1.0);
    out.color = color;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 1.0);
}
`

// vertexLayoutPosColUint describes 16-byte vertices: vec3 position at
// offset 0, packed uint color at offset 12.
func vertexLayoutPosColUint() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: 16,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatUint32, Offset: 12, ShaderLocation: 1},
		},
	}
}

// vertexLayoutPosTex describes 20-byte vertices: vec3 position at offset
// 0, vec2 uv at offset 12.
func vertexLayoutPosTex() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: 20,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
}

// vertexLayoutPosColFloat3 describes 24-byte vertices: vec3 position at
// offset 0, vec3 color at offset 12.
func vertexLayoutPosColFloat3() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: 24,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
}

// vertexLayoutClearColor describes 20-byte vertices: vec2 clip position
// at offset 0, vec3 color at offset 8.
func vertexLayoutClearColor() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: 20,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: gputypes.VertexFormatFloat32x3, Offset: 8, ShaderLocation: 1},
		},
	}
}
