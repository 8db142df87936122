// Package glbridge translates legacy immediate-mode (OpenGL-style) draw
// state into explicit GPU work over the gogpu/wgpu HAL.
//
// The module has three parts:
//
//   - gl: a command-buffer translation engine. A client records a frame's
//     worth of legacy-style commands (bind matrix, select pipeline, upload
//     vertex data, draw) into a [gl.CommandList], publishes it atomically
//     to a [gl.Engine], and the render thread replays the frozen snapshot
//     against a fixed catalog of render pipelines.
//
//   - palette: a concurrent registry of indexed, deduplicating block-state
//     palettes mirroring a host application's mutable state registry,
//     including a varint wire-format decoder for palette packets.
//
//   - block: block-state keys, the six axis-aligned directions, and the
//     read-only provider contracts consumed by chunk meshing.
//
// The root package carries only cross-cutting concerns, currently the
// shared logger configured via [SetLogger].
package glbridge
