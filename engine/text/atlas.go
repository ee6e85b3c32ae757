package text

import "image"

// atlas is a single-channel coverage texture filled by a shelf packer.
// Rows are packed left to right; a new shelf starts below the tallest
// glyph of the current one.
type atlas struct {
	img   *image.Alpha
	x, y  int
	rowH  int
	dirty image.Rectangle
	blank int
}

func newAtlas(width, height, blank int) *atlas {
	a := &atlas{img: image.NewAlpha(image.Rect(0, 0, width, height))}
	// a transparent cell at the origin backs zero-sized glyph quads
	if blank > 0 {
		a.alloc(blank, blank)
		a.blank = blank
	}
	return a
}

func (a *atlas) width() int  { return a.img.Rect.Dx() }
func (a *atlas) height() int { return a.img.Rect.Dy() }

// alloc reserves a w x h cell, or reports false when the atlas is full.
func (a *atlas) alloc(w, h int) (image.Point, bool) {
	if w > a.width() || h > a.height() {
		return image.Point{}, false
	}
	if a.x+w > a.width() {
		a.x = 0
		a.y += a.rowH
		a.rowH = 0
	}
	if a.y+h > a.height() {
		return image.Point{}, false
	}
	p := image.Pt(a.x, a.y)
	a.x += w
	if h > a.rowH {
		a.rowH = h
	}
	return p, true
}

func (a *atlas) markDirty(r image.Rectangle) {
	a.dirty = a.dirty.Union(r)
}

// flush returns the region written since the last flush.
func (a *atlas) flush() (image.Rectangle, bool) {
	r := a.dirty
	a.dirty = image.Rectangle{}
	return r, !r.Empty()
}

func (a *atlas) uv(x, y int) (float32, float32) {
	return float32(x) / float32(a.width()), float32(y) / float32(a.height())
}
