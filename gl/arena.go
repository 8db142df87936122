package gl

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// FrameArena owns the transient GPU resources created while replaying
// one frame: vertex and index buffers, uniform buffers, and bind groups.
// Everything allocated through the arena is released together by
// [FrameArena.Release] once the frame's command buffer has been
// submitted and waited on.
//
// The arena is owned by the render thread and is not safe for
// concurrent use.
type FrameArena struct {
	device Device
	queue  Queue

	buffers    []hal.Buffer
	bindGroups []hal.BindGroup
}

func newFrameArena(device Device, queue Queue) *FrameArena {
	return &FrameArena{device: device, queue: queue}
}

// uploadBuffer creates a buffer with the given usage, writes data into
// it, and tracks it for release.
func (a *FrameArena) uploadBuffer(label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	a.buffers = append(a.buffers, buf)
	if err := a.queue.WriteBuffer(buf, 0, data); err != nil {
		return nil, fmt.Errorf("write %s buffer: %w", label, err)
	}
	return buf, nil
}

// createBindGroup creates a bind group and tracks it for release.
func (a *FrameArena) createBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	bg, err := a.device.CreateBindGroup(desc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", desc.Label, err)
	}
	a.bindGroups = append(a.bindGroups, bg)
	return bg, nil
}

// Release destroys all resources allocated during the frame. The arena
// is reusable afterward.
func (a *FrameArena) Release() {
	for i := len(a.bindGroups) - 1; i >= 0; i-- {
		a.device.DestroyBindGroup(a.bindGroups[i])
	}
	a.bindGroups = a.bindGroups[:0]

	for i := len(a.buffers) - 1; i >= 0; i-- {
		a.device.DestroyBuffer(a.buffers[i])
	}
	a.buffers = a.buffers[:0]
}
