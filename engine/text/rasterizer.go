package text

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/hubastard/labelgl/engine/glyphs"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	ErrAtlasFull = errors.New("text: glyph atlas is full")
	ErrNoFont    = errors.New("text: no font selected")
)

const (
	defaultAtlasSize = 512
	defaultSizePx    = 20
)

// Options configures a Rasterizer. Zero values select the defaults.
type Options struct {
	AtlasWidth, AtlasHeight int
	// Shaping counts glyphs with HarfBuzz instead of by byte length.
	Shaping bool
	Logger  *slog.Logger
}

type Font struct {
	Name string

	sfnt   *opentype.Font
	shaped *gtfont.Font
}

type faceKey struct {
	font int
	size int32 // tenths of a pixel
}

type glyphKey struct {
	faceKey
	r rune
}

type glyph struct {
	bounds  image.Rectangle // relative to the pen, unpadded
	advance fixed.Int26_6
	cell    image.Rectangle // padded atlas cell, empty for blank glyphs
}

// Rasterizer lays strings out with x/image fonts and packs the glyph
// coverage masks it meets into one alpha atlas. The y axis points down and
// y is the baseline.
type Rasterizer struct {
	fonts   []*Font
	font    int
	size    float32
	shaping bool

	faces  map[faceKey]font.Face
	glyphs map[glyphKey]glyph
	atlas  *atlas
	shaper shaper
	log    *slog.Logger
}

// New creates a rasterizer with an empty atlas.
func New(opts Options) *Rasterizer {
	if opts.AtlasWidth <= 0 {
		opts.AtlasWidth = defaultAtlasSize
	}
	if opts.AtlasHeight <= 0 {
		opts.AtlasHeight = defaultAtlasSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Rasterizer{
		font:    -1,
		size:    defaultSizePx,
		shaping: opts.Shaping,
		faces:   make(map[faceKey]font.Face),
		glyphs:  make(map[glyphKey]glyph),
		atlas:   newAtlas(opts.AtlasWidth, opts.AtlasHeight, 2*glyphs.Padding),
		log:     opts.Logger,
	}
}

// AddFont parses a TrueType/OpenType font and selects it when it is the
// first one added. It returns the font index.
func (r *Rasterizer) AddFont(name string, data []byte) (int, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return -1, fmt.Errorf("parse font %q: %w", name, err)
	}
	fnt := &Font{Name: name, sfnt: f}
	if shaped, err := parseShapingFont(data); err != nil {
		r.log.Warn("font not usable for shaping", "font", name, "err", err)
	} else {
		fnt.shaped = shaped
	}

	r.fonts = append(r.fonts, fnt)
	idx := len(r.fonts) - 1
	if r.font < 0 {
		r.font = idx
	}
	return idx, nil
}

// FontByName returns the index of the font added under name, or -1.
func (r *Rasterizer) FontByName(name string) int {
	for i, f := range r.fonts {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (r *Rasterizer) SetFont(idx int) {
	if idx >= 0 && idx < len(r.fonts) {
		r.font = idx
	}
}

// SetSize sets the pixel size of subsequent DrawText calls.
func (r *Rasterizer) SetSize(px float32) {
	if px > 0 {
		r.size = px
	}
}

func (r *Rasterizer) SetShaping(on bool) { r.shaping = on }

// DrawText lays s out from the baseline origin (x, y) and returns six
// vertices per glyph. Glyphs missing from the font or from a full atlas are
// skipped.
func (r *Rasterizer) DrawText(x, y float32, s string) glyphs.Run {
	var run glyphs.Run
	if r.font < 0 {
		r.log.Warn("draw text without a font", "err", ErrNoFont)
		return run
	}
	key := faceKey{font: r.font, size: int32(r.size*10 + 0.5)}
	face, err := r.face(key)
	if err != nil {
		r.log.Warn("font face", "font", r.fonts[r.font].Name, "size", r.size, "err", err)
		return run
	}

	const pad = glyphs.Padding
	pen := x
	prev := rune(-1)
	for _, c := range s {
		if prev >= 0 {
			pen += fixedToFloat(face.Kern(prev, c))
		}
		prev = c

		g, ok := r.glyph(face, glyphKey{faceKey: key, r: c})
		if !ok {
			continue
		}

		var u0, v0, u1, v1 float32
		if g.cell.Empty() {
			u1, v1 = r.atlas.uv(r.atlas.blank, r.atlas.blank)
		} else {
			u0, v0 = r.atlas.uv(g.cell.Min.X, g.cell.Min.Y)
			u1, v1 = r.atlas.uv(g.cell.Max.X, g.cell.Max.Y)
		}
		x0 := pen + float32(g.bounds.Min.X) - pad
		y0 := y + float32(g.bounds.Min.Y) - pad
		x1 := pen + float32(g.bounds.Max.X) + pad
		y1 := y + float32(g.bounds.Max.Y) + pad

		run.Positions = append(run.Positions,
			x0, y0, x1, y1, x1, y0,
			x0, y0, x0, y1, x1, y1,
		)
		run.TexCoords = append(run.TexCoords,
			u0, v0, u1, v1, u1, v0,
			u0, v0, u0, v1, u1, v1,
		)
		pen += fixedToFloat(g.advance)
	}
	run.Advance = pen - x

	if r.shaping {
		run.Shaped = r.shaper.glyphCount(r.fonts[r.font].shaped, r.size, s)
	}
	return run
}

func (r *Rasterizer) face(key faceKey) (font.Face, error) {
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.fonts[key.font].sfnt, &opentype.FaceOptions{
		Size:    float64(key.size) / 10,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	r.faces[key] = f
	return f, nil
}

func (r *Rasterizer) glyph(face font.Face, key glyphKey) (glyph, bool) {
	if g, ok := r.glyphs[key]; ok {
		return g, true
	}
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, key.r)
	if !ok {
		r.log.Debug("glyph missing from font", "rune", key.r)
		return glyph{}, false
	}
	g := glyph{bounds: dr, advance: advance}

	if w, h := dr.Dx(), dr.Dy(); w > 0 && h > 0 {
		const pad = glyphs.Padding
		p, ok := r.atlas.alloc(w+2*pad, h+2*pad)
		if !ok {
			r.log.Warn("glyph dropped", "rune", key.r, "err", ErrAtlasFull)
			return glyph{}, false
		}
		g.cell = image.Rect(p.X, p.Y, p.X+w+2*pad, p.Y+h+2*pad)
		inner := image.Rect(p.X+pad, p.Y+pad, p.X+pad+w, p.Y+pad+h)
		draw.Draw(r.atlas.img, inner, mask, maskp, draw.Src)
		r.atlas.markDirty(g.cell)
	}

	r.glyphs[key] = g
	return g, true
}

// AtlasSize returns the atlas dimensions in texels.
func (r *Rasterizer) AtlasSize() (width, height int) {
	return r.atlas.width(), r.atlas.height()
}

// AtlasUpdate returns the region written since the previous call together
// with the whole atlas (one byte per texel, stride = width).
func (r *Rasterizer) AtlasUpdate() (image.Rectangle, []byte, bool) {
	dirty, ok := r.atlas.flush()
	return dirty, r.atlas.img.Pix, ok
}

// Close releases the cached font faces.
func (r *Rasterizer) Close() error {
	var errs []error
	for k, f := range r.faces {
		errs = append(errs, f.Close())
		delete(r.faces, k)
	}
	return errors.Join(errs...)
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
