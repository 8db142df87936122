package gl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glbridge"
)

// RenderPass is the subset of hal.RenderPassEncoder that replay records
// into. Accepting the narrow interface keeps replay testable without a
// live device.
type RenderPass interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// clearQuad covers the whole target in clip space: two triangles, vec2
// position per vertex.
var clearQuad = [6][2]float32{
	{-1, -1}, {-1, 1}, {1, 1},
	{-1, -1}, {1, 1}, {1, -1},
}

// Replay records the most recently published command list into the
// render pass. Transient buffers and bind groups are allocated from the
// engine's frame arena; call [Engine.EndFrame] after the frame's command
// buffer has been submitted and completed to release them.
//
// Replay does not call End on the pass; the caller owns the pass
// lifecycle.
func (e *Engine) Replay(rp RenderPass) error {
	if e.destroyed.Load() {
		return ErrEngineDestroyed
	}
	list := e.published.Load()
	if list == nil || list.IsEmpty() {
		return nil
	}

	pipelineSet := false
	it := list.NewIterator()
	for i := 0; ; i++ {
		tag, ok := it.Next()
		if !ok {
			break
		}
		if err := e.replayOne(rp, it, tag, &pipelineSet); err != nil {
			return fmt.Errorf("command %d (%s): %w", i, tag, err)
		}
	}

	glbridge.Logger().Debug("gl commands replayed", "commands", list.Len())
	return nil
}

func (e *Engine) replayOne(rp RenderPass, it *Iterator, tag CmdTag, pipelineSet *bool) error {
	switch tag {
	case CmdSetMatrix:
		m, _ := it.Matrix()
		return e.bindMatrix(rp, m)

	case CmdClearColor:
		r, g, b, _ := it.Color()
		if err := e.clearColor(rp, r, g, b); err != nil {
			return err
		}
		// The clear clobbers the pass pipeline and vertex binding;
		// subsequent draws must reselect both.
		*pipelineSet = false
		return nil

	case CmdUsePipeline:
		kind, _ := it.Pipeline()
		if !kind.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownPipeline, kind)
		}
		rp.SetPipeline(e.catalog.pipeline(kind))
		*pipelineSet = true
		return nil

	case CmdSetVertexData:
		data, _ := it.VertexData()
		buf, err := e.arena.uploadBuffer("gl_frame_vertices", gputypes.BufferUsageVertex, data)
		if err != nil {
			return err
		}
		rp.SetVertexBuffer(0, buf, 0)
		return nil

	case CmdSetIndexData:
		indices, _ := it.IndexData()
		buf, err := e.arena.uploadBuffer("gl_frame_indices", gputypes.BufferUsageIndex, indicesToBytes(indices))
		if err != nil {
			return err
		}
		rp.SetIndexBuffer(buf, gputypes.IndexFormatUint32, 0)
		return nil

	case CmdDraw:
		count, _ := it.Count()
		if !*pipelineSet {
			return ErrNoPipeline
		}
		rp.Draw(count, 1, 0, 0)
		return nil

	case CmdDrawIndexed:
		count, _ := it.Count()
		if !*pipelineSet {
			return ErrNoPipeline
		}
		rp.DrawIndexed(count, 1, 0, 0, 0)
		return nil

	case CmdAttachTexture:
		unit, _ := it.TextureUnit()
		bg, err := e.textures.resolve(unit)
		if err != nil {
			return err
		}
		rp.SetBindGroup(1, bg, nil)
		return nil

	default:
		return fmt.Errorf("unrecognized command tag 0x%02x", byte(tag))
	}
}

// bindMatrix uploads the matrix to a transient uniform buffer and binds
// it at group 0. The depth-range remap is applied here so clients keep
// supplying matrices in legacy clip space.
func (e *Engine) bindMatrix(rp RenderPass, m Matrix4) error {
	remapped := OpenGLToWGPU.Mul(m)
	buf, err := e.arena.uploadBuffer("gl_frame_matrix", gputypes.BufferUsageUniform, remapped.Bytes())
	if err != nil {
		return err
	}
	bg, err := e.arena.createBindGroup(&hal.BindGroupDescriptor{
		Label:  "gl_frame_matrix_bind_group",
		Layout: e.catalog.matrixLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding:  0,
				Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: matrixUniformSize},
			},
		},
	})
	if err != nil {
		return err
	}
	rp.SetBindGroup(0, bg, nil)
	return nil
}

// clearColor draws a full-target quad in the given color using the
// internal clear pipeline.
func (e *Engine) clearColor(rp RenderPass, r, g, b float32) error {
	// 6 vertices, 5 floats each: x, y, r, g, b.
	verts := make([]byte, 0, 6*5*4)
	for _, pos := range clearQuad {
		for _, f := range [5]float32{pos[0], pos[1], r, g, b} {
			verts = binary.LittleEndian.AppendUint32(verts, math.Float32bits(f))
		}
	}
	buf, err := e.arena.uploadBuffer("gl_frame_clear", gputypes.BufferUsageVertex, verts)
	if err != nil {
		return err
	}
	rp.SetPipeline(e.catalog.pipeline(pipelineClearColor))
	rp.SetVertexBuffer(0, buf, 0)
	rp.Draw(6, 1, 0, 0)
	return nil
}

// EndFrame releases the transient resources created by Replay, along
// with any textures displaced from the directory during the frame. Call
// it only after the frame's command buffer has finished executing on
// the device.
func (e *Engine) EndFrame() {
	e.arena.Release()
	e.textures.releaseRetired()
}

func indicesToBytes(indices []uint32) []byte {
	out := make([]byte, 0, len(indices)*4)
	for _, v := range indices {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}
