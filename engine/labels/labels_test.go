package labels

import (
	"image"
	"testing"

	"github.com/hubastard/labelgl/engine/glyphs"
)

const (
	fakeAtlasW = 64
	fakeAtlasH = 32
)

// fakeFonts lays out every byte as a 10x20 quad with a 12px advance and
// pretends each call wrote atlas rows 4..11.
type fakeFonts struct {
	pix   []byte
	dirty bool
}

func newFakeFonts() *fakeFonts {
	return &fakeFonts{pix: make([]byte, fakeAtlasW*fakeAtlasH)}
}

func (f *fakeFonts) DrawText(x, y float32, s string) glyphs.Run {
	var run glyphs.Run
	pen := x
	for range len(s) {
		x0, y0 := pen-glyphs.Padding, y-16-glyphs.Padding
		x1, y1 := pen+10+glyphs.Padding, y+4+glyphs.Padding
		run.Positions = append(run.Positions,
			x0, y0, x1, y1, x1, y0,
			x0, y0, x0, y1, x1, y1,
		)
		run.TexCoords = append(run.TexCoords,
			0, 0, 0.25, 0.5, 0.25, 0,
			0, 0, 0, 0.5, 0.25, 0.5,
		)
		pen += 12
	}
	run.Advance = pen - x
	f.dirty = f.dirty || len(s) > 0
	return run
}

func (f *fakeFonts) AtlasSize() (int, int) { return fakeAtlasW, fakeAtlasH }

func (f *fakeFonts) AtlasUpdate() (image.Rectangle, []byte, bool) {
	if !f.dirty {
		return image.Rectangle{}, f.pix, false
	}
	f.dirty = false
	return image.Rect(2, 4, 20, 12), f.pix, true
}

type region struct {
	buf        BufferID
	x, y, w, h int
	n          int // texels or pixels passed
}

// recorder captures every backend call made through the hook backend.
type recorder struct {
	atlases    [][2]int
	atlasRegs  []region
	textures   map[BufferID][2]int
	transforms []region
	uploads    map[BufferID][]float32
	deleted    []BufferID
	draws      []DrawCall
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		CreateAtlasTexture: func(w, h int) {
			r.atlases = append(r.atlases, [2]int{w, h})
		},
		UpdateAtlasRegion: func(x, y, w, h int, pixels []byte) {
			r.atlasRegs = append(r.atlasRegs, region{x: x, y: y, w: w, h: h, n: len(pixels)})
		},
		CreateTransformTexture: func(buf BufferID, w, h int) {
			r.textures[buf] = [2]int{w, h}
		},
		UpdateTransformRegion: func(buf BufferID, x, y, w, h int, texels []uint32) {
			r.transforms = append(r.transforms, region{buf: buf, x: x, y: y, w: w, h: h, n: len(texels)})
		},
		UploadVertices: func(buf BufferID, vertices []float32) {
			r.uploads[buf] = vertices
		},
		DeleteBuffer: func(buf BufferID) {
			r.deleted = append(r.deleted, buf)
		},
		Draw: func(call DrawCall) {
			r.draws = append(r.draws, call)
		},
	}
}

func newTestContext(t *testing.T, p Params) (*Context, *recorder) {
	t.Helper()
	return newTestContextWith(t, newFakeFonts(), p)
}

func newTestContextWith(t *testing.T, fonts FontEngine, p Params) (*Context, *recorder) {
	t.Helper()
	rec := &recorder{
		textures: make(map[BufferID][2]int),
		uploads:  make(map[BufferID][]float32),
	}
	ctx, err := New(NewHookBackend(rec.hooks()), fonts, p)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ctx, rec
}

func mustBuffer(t *testing.T, ctx *Context, res int) BufferID {
	t.Helper()
	id, err := ctx.CreateBuffer(res)
	if err != nil {
		t.Fatalf("CreateBuffer(%d): %v", res, err)
	}
	return id
}

func mustIDs(t *testing.T, ctx *Context, n int) []LabelID {
	t.Helper()
	ids, err := ctx.GenerateIDs(n)
	if err != nil {
		t.Fatalf("GenerateIDs(%d): %v", n, err)
	}
	return ids
}
