package glyphs

import (
	"errors"
	"fmt"
	"math"
)

const (
	// VertsPerGlyph is the vertex count of one glyph quad (two triangles).
	VertsPerGlyph = 6
	// Stride is the float count of one interleaved vertex: x, y, u, v, id.
	Stride = 5
	// Padding is the antialiasing border the rasterizer adds around each
	// glyph quad. It is removed again from the stored bounding box.
	Padding = 3
)

var (
	ErrNotRasterized = errors.New("glyphs: label has not been rasterized")
	ErrGlyphIndex    = errors.New("glyphs: glyph index out of range")
)

// Run is the raw output of one rasterizer DrawText call.
type Run struct {
	// Positions holds x, y pairs, VertsPerGlyph per glyph.
	Positions []float32
	// TexCoords holds u, v pairs matching Positions.
	TexCoords []float32
	// Advance is the pen advance of the whole string in pixels.
	Advance float32
	// Shaped is the glyph count reported by text shaping, 0 when shaping
	// was not used.
	Shaped int
}

// Verts returns the number of vertices in the run.
func (r Run) Verts() int { return len(r.Positions) / 2 }

// Rasterizer turns a string into textured glyph quads.
type Rasterizer interface {
	DrawText(x, y float32, s string) Run
}

// Stash is the metadata kept for a rasterized label after its vertices
// have been drained.
type Stash struct {
	BBox    [4]float32 // x0, y0, x1, y1
	Length  float32
	Glyphs  int
	Offsets []float32 // starting x of each glyph quad

	ok bool
}

// Buffer accumulates the interleaved vertices of the labels of one label
// buffer, and keeps their stashes in a dense slice indexed by label id.
type Buffer struct {
	verts   []float32
	stashes []Stash
	count   int
}

// Rasterize draws s with r and appends its vertices tagged with id.
func (b *Buffer) Rasterize(r Rasterizer, id uint32, s string) Stash {
	return b.Append(id, s, r.DrawText(0, 0, s))
}

// Append stores a run already produced for label id.
func (b *Buffer) Append(id uint32, s string, run Run) Stash {
	n := run.Verts()
	st := Stash{
		Offsets: make([]float32, 0, n/VertsPerGlyph),
		Length:  run.Advance,
		ok:      true,
	}

	x0, y0 := float32(math.Inf(1)), float32(math.Inf(1))
	x1, y1 := float32(math.Inf(-1)), float32(math.Inf(-1))
	fid := float32(id)
	for i := 0; i < n; i++ {
		x, y := run.Positions[2*i], run.Positions[2*i+1]
		if i%VertsPerGlyph == 0 {
			st.Offsets = append(st.Offsets, x)
		}
		x0, x1 = min(x0, x), max(x1, x)
		y0, y1 = min(y0, y), max(y1, y)
		b.verts = append(b.verts, x, y, run.TexCoords[2*i], run.TexCoords[2*i+1], fid)
	}
	if n > 0 {
		st.BBox = [4]float32{x0 + Padding, y0 + Padding, x1 - Padding, y1 - Padding}
	}

	if run.Shaped > 0 {
		st.Glyphs = run.Shaped
	} else {
		// byte length: diverges from the glyph count for multi-byte text
		st.Glyphs = len(s)
	}

	b.put(id, st)
	return st
}

func (b *Buffer) put(id uint32, st Stash) {
	if int(id) >= len(b.stashes) {
		grown := make([]Stash, int(id)+1, max(int(id)+1, 2*len(b.stashes)))
		copy(grown, b.stashes)
		b.stashes = grown
	}
	if !b.stashes[id].ok {
		b.count++
	}
	b.stashes[id] = st
}

// Stash returns the metadata of label id.
func (b *Buffer) Stash(id uint32) (Stash, error) {
	if int(id) >= len(b.stashes) || !b.stashes[id].ok {
		return Stash{}, fmt.Errorf("%w: id %d", ErrNotRasterized, id)
	}
	return b.stashes[id], nil
}

// GlyphOffset returns the starting x of glyph i of label id.
func (b *Buffer) GlyphOffset(id uint32, i int) (float32, error) {
	st, err := b.Stash(id)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= len(st.Offsets) {
		return 0, fmt.Errorf("%w: id %d glyph %d of %d", ErrGlyphIndex, id, i, len(st.Offsets))
	}
	return st.Offsets[i], nil
}

// Labels returns the number of distinct labels rasterized into b.
func (b *Buffer) Labels() int { return b.count }

// VertexCount returns the number of vertices waiting to be drained.
func (b *Buffer) VertexCount() int { return len(b.verts) / Stride }

// Vertices hands the accumulated interleaved array to the caller and
// empties the buffer. A second call without rasterizing returns nil.
func (b *Buffer) Vertices() []float32 {
	v := b.verts
	b.verts = nil
	return v
}

// Reset drops vertices and stashes.
func (b *Buffer) Reset() {
	b.verts = nil
	b.stashes = nil
	b.count = 0
}
