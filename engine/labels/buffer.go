package labels

import (
	"math"

	"github.com/hubastard/labelgl/engine/colors"
	"github.com/hubastard/labelgl/engine/glyphs"
	"github.com/hubastard/labelgl/engine/transform"
)

// BufferID names a label buffer within a Context.
type BufferID uint32

// LabelID names a label within its buffer.
type LabelID uint32

const (
	// NoBuffer is never assigned to a buffer.
	NoBuffer BufferID = 0
	// InvalidLabelID marks ids that could not be generated.
	InvalidLabelID LabelID = math.MaxUint32
)

// Buffer is one independent collection of labels: an id counter, the CPU
// transform store, the pending glyph vertices and the GPU handles backing
// them.
type Buffer struct {
	id    BufferID
	next  uint32
	store *transform.Store
	quads glyphs.Buffer
	color colors.Color

	transforms TransformTexture
	vertices   VertexBuffer
	drawCount  int
}

// fits reports whether n more ids can be generated.
func (b *Buffer) fits(n int) bool {
	return uint64(b.next)+uint64(n) <= uint64(b.store.Capacity())
}

func (b *Buffer) release() {
	if b.transforms != nil {
		b.transforms.Release()
		b.transforms = nil
	}
	if b.vertices != nil {
		b.vertices.Release()
		b.vertices = nil
	}
	b.quads.Reset()
	b.drawCount = 0
}

// BufferInfo is a snapshot of a buffer's bookkeeping.
type BufferInfo struct {
	ID         BufferID
	Resolution int // transform texture width
	Capacity   int // addressable label ids
	Generated  int // ids handed out so far
	Labels     int // labels rasterized
	Pending    int // vertices waiting for UploadVertices
	Uploaded   int // vertices drawn by Draw
	Color      colors.Color
}

func (b *Buffer) info() BufferInfo {
	return BufferInfo{
		ID:         b.id,
		Resolution: b.store.Width(),
		Capacity:   b.store.Capacity(),
		Generated:  int(b.next),
		Labels:     b.quads.Labels(),
		Pending:    b.quads.VertexCount(),
		Uploaded:   b.drawCount,
		Color:      b.color,
	}
}
