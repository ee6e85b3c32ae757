package text

import (
	"testing"

	"github.com/hubastard/labelgl/engine/glyphs"
	"golang.org/x/image/font/gofont/goregular"
)

func newTestRasterizer(t *testing.T, opts Options) *Rasterizer {
	t.Helper()
	r := New(opts)
	if _, err := r.AddFont("regular", goregular.TTF); err != nil {
		t.Fatalf("AddFont: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestDrawTextEmitsSixVerticesPerGlyph(t *testing.T) {
	r := newTestRasterizer(t, Options{})
	run := r.DrawText(0, 0, "hello")

	if got := run.Verts(); got != 5*glyphs.VertsPerGlyph {
		t.Fatalf("Verts = %d, want %d", got, 5*glyphs.VertsPerGlyph)
	}
	if len(run.TexCoords) != len(run.Positions) {
		t.Errorf("len(TexCoords) = %d, len(Positions) = %d", len(run.TexCoords), len(run.Positions))
	}
	if run.Advance <= 0 {
		t.Errorf("Advance = %v, want > 0", run.Advance)
	}
	if run.Shaped != 0 {
		t.Errorf("Shaped = %d without shaping", run.Shaped)
	}

	// glyph quads advance left to right
	prev := run.Positions[0]
	for i := glyphs.VertsPerGlyph; i < run.Verts(); i += glyphs.VertsPerGlyph {
		x := run.Positions[2*i]
		if x <= prev {
			t.Errorf("glyph %d starts at %v, not right of %v", i/glyphs.VertsPerGlyph, x, prev)
		}
		prev = x
	}
}

func TestDrawTextUVsInsideAtlas(t *testing.T) {
	r := newTestRasterizer(t, Options{AtlasWidth: 256, AtlasHeight: 256})
	run := r.DrawText(10, 30, "Quartz glyph")
	for i, v := range run.TexCoords {
		if v < 0 || v > 1 {
			t.Fatalf("texcoord %d = %v outside [0, 1]", i, v)
		}
	}
}

func TestAtlasUpdateReportsNewGlyphsOnce(t *testing.T) {
	r := newTestRasterizer(t, Options{})
	w, h := r.AtlasSize()
	if w != defaultAtlasSize || h != defaultAtlasSize {
		t.Fatalf("AtlasSize = %dx%d, want default", w, h)
	}

	r.DrawText(0, 0, "abc")
	dirty, pix, ok := r.AtlasUpdate()
	if !ok || dirty.Empty() {
		t.Fatal("no atlas update after drawing new glyphs")
	}
	if len(pix) != w*h {
		t.Errorf("len(pixels) = %d, want %d", len(pix), w*h)
	}
	var covered bool
	for y := dirty.Min.Y; y < dirty.Max.Y && !covered; y++ {
		for x := dirty.Min.X; x < dirty.Max.X; x++ {
			if pix[y*w+x] != 0 {
				covered = true
				break
			}
		}
	}
	if !covered {
		t.Error("dirty region holds no coverage")
	}

	// cached glyphs do not touch the atlas again
	r.DrawText(0, 0, "cab")
	if _, _, ok := r.AtlasUpdate(); ok {
		t.Error("atlas update reported for cached glyphs")
	}
}

func TestSpaceIsABlankQuad(t *testing.T) {
	r := newTestRasterizer(t, Options{})
	run := r.DrawText(0, 0, " ")
	if run.Verts() != glyphs.VertsPerGlyph {
		t.Fatalf("Verts = %d, want one quad", run.Verts())
	}
	if run.Advance <= 0 {
		t.Errorf("space advance = %v", run.Advance)
	}
	bw, bh := r.atlas.uv(r.atlas.blank, r.atlas.blank)
	for i := 0; i < len(run.TexCoords); i += 2 {
		if u, v := run.TexCoords[i], run.TexCoords[i+1]; u > bw || v > bh {
			t.Errorf("space texcoord (%v, %v) outside blank cell", u, v)
		}
	}
}

func TestShapingCountsGlyphs(t *testing.T) {
	r := newTestRasterizer(t, Options{Shaping: true})
	run := r.DrawText(0, 0, "hello")
	if run.Shaped != 5 {
		t.Errorf("Shaped = %d, want 5", run.Shaped)
	}

	r.SetShaping(false)
	if run := r.DrawText(0, 0, "hello"); run.Shaped != 0 {
		t.Errorf("Shaped = %d after disabling shaping", run.Shaped)
	}
}

func TestSizeChangesLayout(t *testing.T) {
	r := newTestRasterizer(t, Options{})
	r.SetSize(12)
	small := r.DrawText(0, 0, "wide")
	r.SetSize(48)
	large := r.DrawText(0, 0, "wide")
	if large.Advance <= small.Advance {
		t.Errorf("advance at 48px (%v) not larger than at 12px (%v)", large.Advance, small.Advance)
	}
}

func TestDrawTextWithoutFont(t *testing.T) {
	r := New(Options{})
	if run := r.DrawText(0, 0, "x"); run.Verts() != 0 {
		t.Errorf("Verts = %d without a font", run.Verts())
	}
}

func TestFontSelection(t *testing.T) {
	r := newTestRasterizer(t, Options{})
	idx, err := r.AddFont("second", goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.FontByName("second"); got != idx {
		t.Errorf("FontByName = %d, want %d", got, idx)
	}
	if got := r.FontByName("missing"); got != -1 {
		t.Errorf("FontByName(missing) = %d", got)
	}
	if _, err := r.AddFont("broken", []byte("not a font")); err == nil {
		t.Error("AddFont accepted garbage")
	}
}

func TestAtlasFullDropsGlyphs(t *testing.T) {
	r := newTestRasterizer(t, Options{AtlasWidth: 16, AtlasHeight: 16})
	r.SetSize(64)
	if run := r.DrawText(0, 0, "W"); run.Verts() != 0 {
		t.Errorf("Verts = %d for a glyph larger than the atlas", run.Verts())
	}
}
