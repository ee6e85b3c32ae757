package labels

import "github.com/hubastard/labelgl/engine/colors"

// Backend owns the GPU side of a Context. Two implementations exist: the
// OpenGL backend in engine/gfx/gl, which manages textures, vertex buffers
// and the shader itself, and the hook backend returned by NewHookBackend,
// which forwards everything to caller-supplied functions.
//
// All methods are called on the thread that owns the GPU context.
type Backend interface {
	CreateAtlas(width, height int) (AtlasTexture, error)
	CreateTransformTexture(buf BufferID, width, height int) (TransformTexture, error)
	CreateVertexBuffer(buf BufferID) (VertexBuffer, error)
	Draw(call DrawCall)
	Release()
}

// AtlasTexture is the single-channel glyph coverage texture.
type AtlasTexture interface {
	Update(x, y, width, height int, pixels []byte)
	Release()
}

// TransformTexture is a buffer's RGBA8 lookup table from label id to
// encoded transform.
type TransformTexture interface {
	Update(x, y, width, height int, texels []uint32)
	Release()
}

// VertexBuffer holds a buffer's interleaved x, y, u, v, id vertices.
type VertexBuffer interface {
	// Upload replaces the whole contents.
	Upload(vertices []float32)
	Release()
}

// DrawCall describes one label buffer to draw.
type DrawCall struct {
	Buffer     BufferID
	Atlas      AtlasTexture
	Transforms TransformTexture
	Vertices   VertexBuffer
	Count      int // vertices

	TransformSize [2]int
	Screen        [2]float32
	Projection    [16]float32
	Color         colors.Color
	Style         Style
}

// Style holds the fragment parameters shared by all buffers.
type Style struct {
	// SDF selects the signed distance field shader.
	SDF          bool
	OutlineColor colors.Color
	// MixFactor blends outline (0) and fill (1).
	MixFactor float32
	Outline   [2]float32 // distance smoothstep edges of the outline
	Inside    [2]float32 // distance smoothstep edges of the fill
}

func DefaultStyle() Style {
	return Style{
		OutlineColor: colors.White,
		MixFactor:    0.5,
		Outline:      [2]float32{0.2, 0.3},
		Inside:       [2]float32{0.45, 0.5},
	}
}
