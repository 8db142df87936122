package gl

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glbridge"
)

// Errors returned by the engine.
var (
	// ErrUnknownPipeline indicates a UsePipeline command selected an index
	// outside the fixed catalog.
	ErrUnknownPipeline = errors.New("gl: unknown pipeline index")

	// ErrNoPipeline indicates a draw was replayed before any UsePipeline
	// command selected a pipeline.
	ErrNoPipeline = errors.New("gl: draw before pipeline selection")

	// ErrEngineDestroyed indicates use of an engine after Destroy.
	ErrEngineDestroyed = errors.New("gl: engine destroyed")
)

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	colorFormat gputypes.TextureFormat
	depthFormat gputypes.TextureFormat
}

// WithColorFormat overrides the render target color format.
// Default is BGRA8Unorm.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(c *engineConfig) { c.colorFormat = f }
}

// WithDepthFormat overrides the depth attachment format.
// Default is Depth32Float.
func WithDepthFormat(f gputypes.TextureFormat) Option {
	return func(c *engineConfig) { c.depthFormat = f }
}

// Engine replays recorded command lists against a fixed pipeline
// catalog.
//
// One goroutine (the client) records and publishes lists with [Engine.Submit];
// another (the render thread) replays the latest published list with
// [Engine.Replay]. Publication is a single atomic pointer swap, so the
// render thread always sees either the previous complete frame or the
// new one, never a partial recording.
type Engine struct {
	device Device
	queue  Queue

	catalog  *catalog
	textures *TextureDirectory
	arena    *FrameArena

	published atomic.Pointer[CommandList]
	destroyed atomic.Bool
}

// NewEngine builds the pipeline catalog on the device and returns an
// engine ready to accept command lists.
func NewEngine(device Device, queue Queue, opts ...Option) (*Engine, error) {
	cfg := engineConfig{
		colorFormat: gputypes.TextureFormatBGRA8Unorm,
		depthFormat: gputypes.TextureFormatDepth32Float,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cat, err := newCatalog(device, cfg.colorFormat, cfg.depthFormat)
	if err != nil {
		return nil, fmt.Errorf("build pipeline catalog: %w", err)
	}

	textures, err := newTextureDirectory(device, queue, cat.textureLayout)
	if err != nil {
		cat.destroy()
		return nil, err
	}

	glbridge.Logger().Info("gl engine created",
		"colorFormat", cfg.colorFormat,
		"depthFormat", cfg.depthFormat)

	return &Engine{
		device:   device,
		queue:    queue,
		catalog:  cat,
		textures: textures,
		arena:    newFrameArena(device, queue),
	}, nil
}

// Textures returns the engine's texture directory.
func (e *Engine) Textures() *TextureDirectory {
	return e.textures
}

// Submit publishes a snapshot of the list as the current frame. The list
// is deep-copied, so the caller may Reset and reuse it immediately.
func (e *Engine) Submit(list *CommandList) {
	if e.destroyed.Load() {
		return
	}
	e.published.Store(list.Clone())
	glbridge.Logger().Debug("gl commands published", "commands", list.Len())
}

// Commands returns the most recently published command list, or nil if
// nothing has been submitted. The returned list must not be mutated.
func (e *Engine) Commands() *CommandList {
	return e.published.Load()
}

// Destroy releases the catalog, textures, and any outstanding frame
// resources. The engine must not be used afterward.
func (e *Engine) Destroy() {
	if !e.destroyed.CompareAndSwap(false, true) {
		return
	}
	e.published.Store(nil)
	e.arena.Release()
	e.textures.destroy()
	e.catalog.destroy()
}
