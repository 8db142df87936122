// Package gl translates legacy immediate-mode draw state into explicit
// GPU work over the gogpu/wgpu HAL.
//
// A client thread records one frame of commands into a [CommandList] and
// publishes it to an [Engine] with [Engine.Submit]. The render thread
// replays the most recently published list into a HAL render pass with
// [Engine.Replay]. Published lists are immutable snapshots: recording the
// next frame never disturbs a replay in progress.
//
// The encoding uses a dual-stream layout: a compact tag stream (1 byte
// per command) plus typed side streams for matrices, colors, counts, and
// buffer payloads. This keeps iteration cache-friendly and makes a
// published list trivially shareable.
package gl

// CmdTag identifies a recorded command in the tag stream.
type CmdTag byte

// CmdTag constants cover the legacy command vocabulary. Each tag consumes
// a fixed number of values from its side stream, documented per tag.
const (
	// CmdSetMatrix binds a view-projection matrix for subsequent draws.
	// Data: 1 Matrix4 from the matrix stream.
	CmdSetMatrix CmdTag = 0x01

	// CmdClearColor fills the whole target with a solid color.
	// Data: 3 float32 [r, g, b] from the color stream.
	CmdClearColor CmdTag = 0x02

	// CmdUsePipeline selects the render pipeline for subsequent draws.
	// Data: 1 PipelineKind from the pipeline stream.
	CmdUsePipeline CmdTag = 0x03

	// CmdSetVertexData uploads raw vertex bytes and binds them at slot 0.
	// Data: 1 span of the vertex byte stream.
	CmdSetVertexData CmdTag = 0x04

	// CmdSetIndexData uploads 32-bit indices and binds them.
	// Data: 1 span of the index stream.
	CmdSetIndexData CmdTag = 0x05

	// CmdDraw issues a non-indexed draw.
	// Data: 1 uint32 vertex count from the count stream.
	CmdDraw CmdTag = 0x06

	// CmdDrawIndexed issues an indexed draw.
	// Data: 1 uint32 index count from the count stream.
	CmdDrawIndexed CmdTag = 0x07

	// CmdAttachTexture binds a texture unit's texture at group 1.
	// Data: 1 int32 texture unit from the texture stream.
	CmdAttachTexture CmdTag = 0x08
)

// String returns a human-readable name for the tag.
func (t CmdTag) String() string {
	switch t {
	case CmdSetMatrix:
		return "SetMatrix"
	case CmdClearColor:
		return "ClearColor"
	case CmdUsePipeline:
		return "UsePipeline"
	case CmdSetVertexData:
		return "SetVertexData"
	case CmdSetIndexData:
		return "SetIndexData"
	case CmdDraw:
		return "Draw"
	case CmdDrawIndexed:
		return "DrawIndexed"
	case CmdAttachTexture:
		return "AttachTexture"
	default:
		return "Unknown"
	}
}

// CommandList holds one frame's recorded commands in dual-stream form.
// Record with the Set/Draw methods and publish with [Engine.Submit],
// which snapshots the list; Reset then reclaims the allocations for the
// next frame.
//
// CommandList is not safe for concurrent recording; a single client
// thread owns it until publication.
type CommandList struct {
	// tags is the command stream (1 byte per command).
	tags []CmdTag

	// matrices holds one Matrix4 per CmdSetMatrix.
	matrices []Matrix4

	// colors holds 3 float32 per CmdClearColor.
	colors []float32

	// pipelines holds one kind per CmdUsePipeline.
	pipelines []PipelineKind

	// counts holds one count per CmdDraw or CmdDrawIndexed.
	counts []uint32

	// textureUnits holds one unit per CmdAttachTexture.
	textureUnits []int32

	// vertexBytes is the concatenated payload of all CmdSetVertexData
	// commands; vertexSpans holds one length per command.
	vertexBytes []byte
	vertexSpans []uint32

	// indexData is the concatenated payload of all CmdSetIndexData
	// commands; indexSpans holds one length (in indices) per command.
	indexData  []uint32
	indexSpans []uint32
}

// NewCommandList creates an empty command list with small preallocated
// streams.
func NewCommandList() *CommandList {
	return &CommandList{
		tags:     make([]CmdTag, 0, 64),
		matrices: make([]Matrix4, 0, 4),
		colors:   make([]float32, 0, 6),
		counts:   make([]uint32, 0, 16),
	}
}

// Reset clears the list for reuse without deallocating memory.
func (l *CommandList) Reset() {
	l.tags = l.tags[:0]
	l.matrices = l.matrices[:0]
	l.colors = l.colors[:0]
	l.pipelines = l.pipelines[:0]
	l.counts = l.counts[:0]
	l.textureUnits = l.textureUnits[:0]
	l.vertexBytes = l.vertexBytes[:0]
	l.vertexSpans = l.vertexSpans[:0]
	l.indexData = l.indexData[:0]
	l.indexSpans = l.indexSpans[:0]
}

// SetMatrix records a view-projection matrix bind.
func (l *CommandList) SetMatrix(m Matrix4) {
	l.tags = append(l.tags, CmdSetMatrix)
	l.matrices = append(l.matrices, m)
}

// ClearColor records a full-target color fill.
func (l *CommandList) ClearColor(r, g, b float32) {
	l.tags = append(l.tags, CmdClearColor)
	l.colors = append(l.colors, r, g, b)
}

// UsePipeline records a pipeline selection.
func (l *CommandList) UsePipeline(kind PipelineKind) {
	l.tags = append(l.tags, CmdUsePipeline)
	l.pipelines = append(l.pipelines, kind)
}

// SetVertexData records a vertex payload upload. The bytes are copied
// into the list, so the caller may reuse data immediately.
func (l *CommandList) SetVertexData(data []byte) {
	l.tags = append(l.tags, CmdSetVertexData)
	l.vertexBytes = append(l.vertexBytes, data...)
	//nolint:gosec // payload sizes stay far below uint32 range
	l.vertexSpans = append(l.vertexSpans, uint32(len(data)))
}

// SetIndexData records an index payload upload. The indices are copied
// into the list.
func (l *CommandList) SetIndexData(indices []uint32) {
	l.tags = append(l.tags, CmdSetIndexData)
	l.indexData = append(l.indexData, indices...)
	//nolint:gosec // payload sizes stay far below uint32 range
	l.indexSpans = append(l.indexSpans, uint32(len(indices)))
}

// Draw records a non-indexed draw of count vertices.
func (l *CommandList) Draw(count uint32) {
	l.tags = append(l.tags, CmdDraw)
	l.counts = append(l.counts, count)
}

// DrawIndexed records an indexed draw of count indices.
func (l *CommandList) DrawIndexed(count uint32) {
	l.tags = append(l.tags, CmdDrawIndexed)
	l.counts = append(l.counts, count)
}

// AttachTexture records a texture unit bind.
func (l *CommandList) AttachTexture(unit int32) {
	l.tags = append(l.tags, CmdAttachTexture)
	l.textureUnits = append(l.textureUnits, unit)
}

// Len returns the number of recorded commands.
func (l *CommandList) Len() int {
	return len(l.tags)
}

// IsEmpty returns true if no commands are recorded.
func (l *CommandList) IsEmpty() bool {
	return len(l.tags) == 0
}

// Tags returns the tag stream (read-only access for iteration).
func (l *CommandList) Tags() []CmdTag {
	return l.tags
}

// Clone creates a deep copy of the list.
func (l *CommandList) Clone() *CommandList {
	c := &CommandList{
		tags:         make([]CmdTag, len(l.tags)),
		matrices:     make([]Matrix4, len(l.matrices)),
		colors:       make([]float32, len(l.colors)),
		pipelines:    make([]PipelineKind, len(l.pipelines)),
		counts:       make([]uint32, len(l.counts)),
		textureUnits: make([]int32, len(l.textureUnits)),
		vertexBytes:  make([]byte, len(l.vertexBytes)),
		vertexSpans:  make([]uint32, len(l.vertexSpans)),
		indexData:    make([]uint32, len(l.indexData)),
		indexSpans:   make([]uint32, len(l.indexSpans)),
	}
	copy(c.tags, l.tags)
	copy(c.matrices, l.matrices)
	copy(c.colors, l.colors)
	copy(c.pipelines, l.pipelines)
	copy(c.counts, l.counts)
	copy(c.textureUnits, l.textureUnits)
	copy(c.vertexBytes, l.vertexBytes)
	copy(c.vertexSpans, l.vertexSpans)
	copy(c.indexData, l.indexData)
	copy(c.indexSpans, l.indexSpans)
	return c
}

// Iterator provides sequential access to recorded commands.
type Iterator struct {
	list    *CommandList
	tagIdx  int
	matIdx  int
	colIdx  int
	pipeIdx int
	cntIdx  int
	texIdx  int
	vbOff   int
	vbIdx   int
	ibOff   int
	ibIdx   int
}

// NewIterator creates an iterator for the list.
func (l *CommandList) NewIterator() *Iterator {
	return &Iterator{list: l}
}

// Next advances to the next command and returns its tag.
// Returns false when iteration is complete.
func (it *Iterator) Next() (CmdTag, bool) {
	if it.tagIdx >= len(it.list.tags) {
		return 0, false
	}
	tag := it.list.tags[it.tagIdx]
	it.tagIdx++
	return tag, true
}

// Matrix reads the next matrix from the matrix stream.
func (it *Iterator) Matrix() (Matrix4, bool) {
	if it.matIdx >= len(it.list.matrices) {
		return Matrix4{}, false
	}
	m := it.list.matrices[it.matIdx]
	it.matIdx++
	return m, true
}

// Color reads the next r, g, b triple from the color stream.
func (it *Iterator) Color() (r, g, b float32, ok bool) {
	if it.colIdx+3 > len(it.list.colors) {
		return 0, 0, 0, false
	}
	r = it.list.colors[it.colIdx]
	g = it.list.colors[it.colIdx+1]
	b = it.list.colors[it.colIdx+2]
	it.colIdx += 3
	return r, g, b, true
}

// Pipeline reads the next pipeline kind.
func (it *Iterator) Pipeline() (PipelineKind, bool) {
	if it.pipeIdx >= len(it.list.pipelines) {
		return 0, false
	}
	k := it.list.pipelines[it.pipeIdx]
	it.pipeIdx++
	return k, true
}

// Count reads the next draw count.
func (it *Iterator) Count() (uint32, bool) {
	if it.cntIdx >= len(it.list.counts) {
		return 0, false
	}
	c := it.list.counts[it.cntIdx]
	it.cntIdx++
	return c, true
}

// TextureUnit reads the next texture unit.
func (it *Iterator) TextureUnit() (int32, bool) {
	if it.texIdx >= len(it.list.textureUnits) {
		return 0, false
	}
	u := it.list.textureUnits[it.texIdx]
	it.texIdx++
	return u, true
}

// VertexData reads the next vertex payload span. The returned slice
// aliases the list and must not be mutated.
func (it *Iterator) VertexData() ([]byte, bool) {
	if it.vbIdx >= len(it.list.vertexSpans) {
		return nil, false
	}
	n := int(it.list.vertexSpans[it.vbIdx])
	if it.vbOff+n > len(it.list.vertexBytes) {
		return nil, false
	}
	data := it.list.vertexBytes[it.vbOff : it.vbOff+n]
	it.vbIdx++
	it.vbOff += n
	return data, true
}

// IndexData reads the next index payload span. The returned slice aliases
// the list and must not be mutated.
func (it *Iterator) IndexData() ([]uint32, bool) {
	if it.ibIdx >= len(it.list.indexSpans) {
		return nil, false
	}
	n := int(it.list.indexSpans[it.ibIdx])
	if it.ibOff+n > len(it.list.indexData) {
		return nil, false
	}
	data := it.list.indexData[it.ibOff : it.ibOff+n]
	it.ibIdx++
	it.ibOff += n
	return data, true
}

// Reset resets the iterator to the beginning.
func (it *Iterator) Reset() {
	*it = Iterator{list: it.list}
}
