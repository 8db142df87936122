package gl

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glbridge"
)

// boundTexture is a texture registered with the directory, ready to bind
// at group 1.
type boundTexture struct {
	texture   hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
}

// TextureDirectory maps legacy texture unit numbers to GPU textures.
// Units that were never registered resolve to a shared 1x1 black
// fallback, so draws referencing missing textures render black instead
// of failing.
//
// The directory is safe for concurrent use.
type TextureDirectory struct {
	device  Device
	queue   Queue
	layout  hal.BindGroupLayout
	sampler hal.Sampler

	mu      sync.RWMutex
	entries map[int32]*boundTexture

	// retired holds displaced textures whose bind groups may still be
	// referenced by an open render pass. They are released with the
	// frame's transient resources, not inline.
	retired []*boundTexture

	fallbackOnce sync.Once
	fallback     *boundTexture
	fallbackErr  error
}

func newTextureDirectory(device Device, queue Queue, layout hal.BindGroupLayout) (*TextureDirectory, error) {
	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gl_texture_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture sampler: %w", err)
	}
	return &TextureDirectory{
		device:  device,
		queue:   queue,
		layout:  layout,
		sampler: sampler,
		entries: make(map[int32]*boundTexture),
	}, nil
}

// Register uploads RGBA pixel data as the texture for the given unit,
// replacing any previous registration. Pixels are tightly packed
// 4-byte RGBA rows, width*height*4 bytes total.
//
// A replaced texture stays alive until the current frame's resources are
// released; a render pass recorded before the replacement keeps drawing
// with the old texture.
func (d *TextureDirectory) Register(unit int32, width, height uint32, pixels []byte) error {
	if want := int(width) * int(height) * 4; len(pixels) != want {
		return fmt.Errorf("texture unit %d: pixel data is %d bytes, want %d", unit, len(pixels), want)
	}

	bt, err := d.createTexture(fmt.Sprintf("gl_texture_unit_%d", unit), width, height, pixels)
	if err != nil {
		return fmt.Errorf("texture unit %d: %w", unit, err)
	}

	d.mu.Lock()
	if old := d.entries[unit]; old != nil {
		d.retired = append(d.retired, old)
	}
	d.entries[unit] = bt
	d.mu.Unlock()
	return nil
}

// Unregister removes the texture for the unit. Subsequent draws that
// reference the unit fall back to black. The removed texture is retired
// with the current frame, not destroyed inline.
func (d *TextureDirectory) Unregister(unit int32) {
	d.mu.Lock()
	if old := d.entries[unit]; old != nil {
		d.retired = append(d.retired, old)
		delete(d.entries, unit)
	}
	d.mu.Unlock()
}

// resolve returns the bind group for the unit, or the black fallback if
// the unit was never registered.
func (d *TextureDirectory) resolve(unit int32) (hal.BindGroup, error) {
	d.mu.RLock()
	bt := d.entries[unit]
	d.mu.RUnlock()
	if bt != nil {
		return bt.bindGroup, nil
	}

	d.fallbackOnce.Do(func() {
		glbridge.Logger().Warn("texture unit not registered, using black fallback", "unit", unit)
		d.fallback, d.fallbackErr = d.createTexture("gl_texture_fallback", 1, 1, []byte{0, 0, 0, 255})
	})
	if d.fallbackErr != nil {
		return nil, fmt.Errorf("create fallback texture: %w", d.fallbackErr)
	}
	return d.fallback.bindGroup, nil
}

func (d *TextureDirectory) createTexture(label string, width, height uint32, pixels []byte) (*boundTexture, error) {
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}

	if err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: width * 4, RowsPerImage: height},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	); err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("upload texture: %w", err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture view: %w", err)
	}

	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind_group",
		Layout: d.layout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding:  0,
				Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()},
			},
			{
				Binding:  1,
				Resource: gputypes.SamplerBinding{Sampler: d.sampler.NativeHandle()},
			},
		},
	})
	if err != nil {
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create texture bind group: %w", err)
	}

	return &boundTexture{texture: tex, view: view, bindGroup: bindGroup}, nil
}

func (d *TextureDirectory) destroyTexture(bt *boundTexture) {
	if bt.bindGroup != nil {
		d.device.DestroyBindGroup(bt.bindGroup)
	}
	if bt.view != nil {
		d.device.DestroyTextureView(bt.view)
	}
	if bt.texture != nil {
		d.device.DestroyTexture(bt.texture)
	}
}

// releaseRetired destroys textures displaced since the last call. Must
// only run once no render pass references them, i.e. at end of frame.
func (d *TextureDirectory) releaseRetired() {
	d.mu.Lock()
	retired := d.retired
	d.retired = nil
	d.mu.Unlock()

	for _, bt := range retired {
		d.destroyTexture(bt)
	}
}

// destroy releases all registered textures, retired textures, the
// fallback, and the sampler.
func (d *TextureDirectory) destroy() {
	d.mu.Lock()
	entries := d.entries
	retired := d.retired
	d.entries = make(map[int32]*boundTexture)
	d.retired = nil
	d.mu.Unlock()

	for _, bt := range retired {
		d.destroyTexture(bt)
	}
	for _, bt := range entries {
		d.destroyTexture(bt)
	}
	if d.fallback != nil {
		d.destroyTexture(d.fallback)
		d.fallback = nil
	}
	if d.sampler != nil {
		d.device.DestroySampler(d.sampler)
		d.sampler = nil
	}
}
