package labels

import (
	"fmt"
	"image"

	"github.com/hubastard/labelgl/engine/colors"
	"github.com/hubastard/labelgl/engine/glyphs"
	"github.com/hubastard/labelgl/engine/scene"
	"github.com/hubastard/labelgl/engine/transform"
)

const (
	defaultScreenWidth  = 800
	defaultScreenHeight = 600
)

// FontEngine rasterizes strings into glyph quads and owns the atlas they
// sample. engine/text provides one.
type FontEngine interface {
	glyphs.Rasterizer
	AtlasSize() (width, height int)
	// AtlasUpdate returns the region written since the previous call and
	// the whole atlas, one byte per texel with a stride of the atlas width.
	AtlasUpdate() (dirty image.Rectangle, pixels []byte, ok bool)
}

// Params configures a Context. Zero values select the defaults.
type Params struct {
	// ScreenWidth and ScreenHeight are the extents transforms are encoded
	// against, usually the framebuffer size. Default 800x600.
	ScreenWidth, ScreenHeight float32
	// Color is the text color given to new buffers. Default white.
	Color colors.Color
	// Style replaces DefaultStyle when set.
	Style *Style
	// OnError is consulted when generating ids overflows a buffer.
	OnError ErrorFunc
}

// Context owns a set of label buffers, the shared glyph atlas texture and
// the screen size transforms are encoded against. One buffer is bound at a
// time and every label operation targets it.
//
// A Context is not safe for concurrent use; call it from the thread that
// owns the GPU context.
type Context struct {
	backend Backend
	fonts   FontEngine
	atlas   AtlasTexture
	atlasW  int
	atlasH  int

	buffers map[BufferID]*Buffer
	order   []*Buffer // creation order
	bound   *Buffer
	lastID  BufferID

	screen  scene.Viewport
	color   colors.Color
	style   Style
	onError ErrorFunc
}

// New creates a context drawing through backend and rasterizing with fonts.
func New(backend Backend, fonts FontEngine, p Params) (*Context, error) {
	if p.ScreenWidth <= 0 || p.ScreenHeight <= 0 {
		p.ScreenWidth, p.ScreenHeight = defaultScreenWidth, defaultScreenHeight
	}
	if p.Color == (colors.Color{}) {
		p.Color = colors.White
	}
	style := DefaultStyle()
	if p.Style != nil {
		style = *p.Style
	}

	w, h := fonts.AtlasSize()
	atlas, err := backend.CreateAtlas(w, h)
	if err != nil {
		return nil, fmt.Errorf("labels: create atlas %dx%d: %w", w, h, err)
	}
	Logger().Info("label context created", "atlas_w", w, "atlas_h", h,
		"screen_w", p.ScreenWidth, "screen_h", p.ScreenHeight)

	return &Context{
		backend: backend,
		fonts:   fonts,
		atlas:   atlas,
		atlasW:  w,
		atlasH:  h,
		buffers: make(map[BufferID]*Buffer),
		screen:  scene.Viewport{Width: p.ScreenWidth, Height: p.ScreenHeight},
		color:   p.Color,
		style:   style,
		onError: p.OnError,
	}, nil
}

// SetErrorFunc replaces the id overflow callback.
func (c *Context) SetErrorFunc(fn ErrorFunc) { c.onError = fn }

// CreateBuffer creates a label buffer whose transform texture is
// resolution x 2*resolution texels, so it can address resolution² labels,
// and binds it. The resolution must be a power of two; otherwise NoBuffer
// is returned with ErrInvalidResolution and nothing is allocated.
func (c *Context) CreateBuffer(resolution int) (BufferID, error) {
	store, err := transform.NewStore(resolution)
	if err != nil {
		return NoBuffer, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}

	id := c.lastID + 1
	tex, err := c.backend.CreateTransformTexture(id, store.Width(), store.Height())
	if err != nil {
		return NoBuffer, fmt.Errorf("labels: buffer %d: create transform texture: %w", id, err)
	}
	vb, err := c.backend.CreateVertexBuffer(id)
	if err != nil {
		tex.Release()
		return NoBuffer, fmt.Errorf("labels: buffer %d: create vertex buffer: %w", id, err)
	}

	b := &Buffer{
		id:         id,
		store:      store,
		color:      c.color,
		transforms: tex,
		vertices:   vb,
	}
	c.lastID = id
	c.buffers[id] = b
	c.order = append(c.order, b)
	c.bound = b

	Logger().Info("label buffer created", "buffer", id, "resolution", resolution,
		"capacity", store.Capacity())
	return id, nil
}

// Bind makes id the target of label operations. Binding NoBuffer unbinds.
func (c *Context) Bind(id BufferID) error {
	if id == NoBuffer {
		c.bound = nil
		return nil
	}
	b, err := c.buffer(id)
	if err != nil {
		return err
	}
	c.bound = b
	return nil
}

// Bound returns the bound buffer, NoBuffer when none is.
func (c *Context) Bound() BufferID {
	if c.bound == nil {
		return NoBuffer
	}
	return c.bound.id
}

// DeleteBuffer releases a buffer and its GPU resources. Deleting the bound
// buffer leaves no buffer bound.
func (c *Context) DeleteBuffer(id BufferID) error {
	b, err := c.buffer(id)
	if err != nil {
		return err
	}
	b.release()
	delete(c.buffers, id)
	for i, o := range c.order {
		if o == b {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.bound == b {
		c.bound = nil
	}
	Logger().Info("label buffer deleted", "buffer", id)
	return nil
}

// ExpandTransform grows the transform texture of buffer id to
// resolution x 2*resolution. Stored transforms move to their new texels
// unchanged and are uploaded again on the next UploadDirtyTransforms.
// Resolutions not larger than the current one are ignored.
//
// It is meant to be called from an ErrorFunc reporting IDOverflow.
func (c *Context) ExpandTransform(id BufferID, resolution int) error {
	b, err := c.buffer(id)
	if err != nil {
		return err
	}
	if !transform.IsPowerOfTwo(resolution) {
		return fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}
	old := b.store.Width()
	if resolution <= old {
		return nil
	}

	tex, err := c.backend.CreateTransformTexture(id, resolution, 2*resolution)
	if err != nil {
		return fmt.Errorf("labels: buffer %d: create transform texture: %w", id, err)
	}
	if err := b.store.Resize(resolution); err != nil {
		tex.Release()
		return fmt.Errorf("%w: %w", ErrInvalidResolution, err)
	}
	b.transforms.Release()
	b.transforms = tex

	Logger().Info("transform texture expanded", "buffer", id, "from", old, "to", resolution,
		"capacity", b.store.Capacity())
	return nil
}

// GenerateIDs reserves n consecutive label ids in the bound buffer.
//
// When the buffer cannot address them the error callback is invoked with
// IDOverflow. If it reports the condition resolved the reservation is tried
// once more. Otherwise every returned id is InvalidLabelID, the counter is
// left untouched and the error wraps ErrIDOverflow.
func (c *Context) GenerateIDs(n int) ([]LabelID, error) {
	b, err := c.current()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	if !b.fits(n) {
		resolved := c.onError != nil && c.onError(b.id, IDOverflow)
		if !resolved || !b.fits(n) {
			ids := make([]LabelID, n)
			for i := range ids {
				ids[i] = InvalidLabelID
			}
			Logger().Warn("label id overflow", "buffer", b.id, "requested", n,
				"generated", b.next, "capacity", b.store.Capacity())
			return ids, fmt.Errorf("%w: buffer %d: %d ids requested, %d of %d in use",
				ErrIDOverflow, b.id, n, b.next, b.store.Capacity())
		}
	}

	ids := make([]LabelID, n)
	for i := range ids {
		ids[i] = LabelID(b.next)
		b.next++
	}
	return ids, nil
}

// Rasterize lays s out for label id of the bound buffer. Its vertices wait
// in the buffer until UploadVertices; glyphs new to the atlas are sent to
// the atlas texture right away.
func (c *Context) Rasterize(id LabelID, s string) error {
	b, err := c.label(id)
	if err != nil {
		return err
	}
	b.quads.Rasterize(c.fonts, uint32(id), s)
	c.flushAtlas()
	return nil
}

// flushAtlas uploads the rows the font engine touched as one full-width
// region.
func (c *Context) flushAtlas() {
	dirty, pix, ok := c.fonts.AtlasUpdate()
	if !ok {
		return
	}
	y0, y1 := max(dirty.Min.Y, 0), min(dirty.Max.Y, c.atlasH)
	if y1 <= y0 {
		return
	}
	c.atlas.Update(0, y0, c.atlasW, y1-y0, pix[y0*c.atlasW:y1*c.atlasW])
	Logger().Debug("atlas rows uploaded", "from", y0, "to", y1)
}

// SetTransform places label id of the bound buffer at (x, y) screen pixels,
// rotated by rotation radians around its origin with opacity alpha.
func (c *Context) SetTransform(id LabelID, x, y, rotation, alpha float32) error {
	b, err := c.current()
	if err != nil {
		return err
	}
	if int64(id) >= int64(b.store.Capacity()) {
		return fmt.Errorf("%w: buffer %d: label %d, capacity %d",
			ErrIDOverflow, b.id, id, b.store.Capacity())
	}
	if uint32(id) >= b.next {
		return fmt.Errorf("%w: buffer %d: label %d", ErrUnknownLabel, b.id, id)
	}
	t := transform.Transform{X: x, Y: y, Rotation: rotation, Alpha: alpha}
	return b.store.Set(uint32(id), t, c.screen.Width, c.screen.Height)
}

// Transform decodes the transform stored for label id of the bound buffer,
// as the shader would.
func (c *Context) Transform(id LabelID) (transform.Transform, error) {
	b, err := c.label(id)
	if err != nil {
		return transform.Transform{}, err
	}
	return b.store.Get(uint32(id), c.screen.Width, c.screen.Height)
}

// BBox returns x0, y0, x1, y1 of label id, relative to its origin.
func (c *Context) BBox(id LabelID) ([4]float32, error) {
	st, err := c.stash(id)
	return st.BBox, err
}

// GlyphCount returns the glyph count of label id.
func (c *Context) GlyphCount(id LabelID) (int, error) {
	st, err := c.stash(id)
	return st.Glyphs, err
}

// Length returns the pixel advance of label id.
func (c *Context) Length(id LabelID) (float32, error) {
	st, err := c.stash(id)
	return st.Length, err
}

// GlyphOffset returns the starting x of glyph i of label id.
func (c *Context) GlyphOffset(id LabelID, i int) (float32, error) {
	b, err := c.label(id)
	if err != nil {
		return 0, err
	}
	off, err := b.quads.GlyphOffset(uint32(id), i)
	if err != nil {
		return 0, fmt.Errorf("buffer %d: %w", b.id, err)
	}
	return off, nil
}

func (c *Context) stash(id LabelID) (glyphs.Stash, error) {
	b, err := c.label(id)
	if err != nil {
		return glyphs.Stash{}, err
	}
	st, err := b.quads.Stash(uint32(id))
	if err != nil {
		return glyphs.Stash{}, fmt.Errorf("buffer %d: %w", b.id, err)
	}
	return st, nil
}

// VertexCount returns the number of vertices the bound buffer holds that
// have not been uploaded yet.
func (c *Context) VertexCount() (int, error) {
	b, err := c.current()
	if err != nil {
		return 0, err
	}
	return b.quads.VertexCount(), nil
}

// Vertices drains the pending interleaved x, y, u, v, id vertices of the
// bound buffer. It is the manual alternative to UploadVertices for callers
// feeding their own renderer; a second call returns nil.
func (c *Context) Vertices() ([]float32, error) {
	b, err := c.current()
	if err != nil {
		return nil, err
	}
	return b.quads.Vertices(), nil
}

// Info describes buffer id.
func (c *Context) Info(id BufferID) (BufferInfo, error) {
	b, err := c.buffer(id)
	if err != nil {
		return BufferInfo{}, err
	}
	return b.info(), nil
}

// Buffers lists the live buffers in creation order.
func (c *Context) Buffers() []BufferID {
	ids := make([]BufferID, len(c.order))
	for i, b := range c.order {
		ids[i] = b.id
	}
	return ids
}

// SetScreenSize sets the extents later transforms are encoded against.
// Transforms already stored keep their encoding.
func (c *Context) SetScreenSize(width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	c.screen = scene.Viewport{Width: width, Height: height}
}

// ScreenSize returns the current encoding extents.
func (c *Context) ScreenSize() (width, height float32) {
	return c.screen.Width, c.screen.Height
}

// Projection returns the orthographic matrix mapping screen pixels, origin
// top left, to clip space.
func (c *Context) Projection() [16]float32 {
	return c.screen.Projection()
}

// SetColor sets the text color of the bound buffer, or the color new
// buffers start with when none is bound.
func (c *Context) SetColor(col colors.Color) {
	if c.bound == nil {
		c.color = col
		return
	}
	c.bound.color = col
}

// SetStyle sets the fragment parameters used for every buffer.
func (c *Context) SetStyle(s Style) { c.style = s }

// Style returns the current fragment parameters.
func (c *Context) Style() Style { return c.style }

// Close deletes every buffer and releases the atlas and the backend.
func (c *Context) Close() {
	for _, b := range c.order {
		b.release()
	}
	c.order = nil
	c.buffers = make(map[BufferID]*Buffer)
	c.bound = nil
	if c.atlas != nil {
		c.atlas.Release()
		c.atlas = nil
	}
	c.backend.Release()
	Logger().Info("label context closed")
}

func (c *Context) buffer(id BufferID) (*Buffer, error) {
	b, ok := c.buffers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBuffer, id)
	}
	return b, nil
}

func (c *Context) current() (*Buffer, error) {
	if c.bound == nil {
		return nil, ErrNoBufferBound
	}
	return c.bound, nil
}

// label returns the bound buffer after checking it generated id.
func (c *Context) label(id LabelID) (*Buffer, error) {
	b, err := c.current()
	if err != nil {
		return nil, err
	}
	if uint32(id) >= b.next {
		return nil, fmt.Errorf("%w: buffer %d: label %d", ErrUnknownLabel, b.id, id)
	}
	return b, nil
}
