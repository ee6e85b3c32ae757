package labels

import "github.com/hubastard/labelgl/engine/glyphs"

// UploadDirtyTransforms sends the transform rows of buffer id that changed
// since the previous upload, as one region spanning the first to the last
// dirty row.
func (c *Context) UploadDirtyTransforms(id BufferID) error {
	b, err := c.buffer(id)
	if err != nil {
		return err
	}
	c.uploadTransforms(b)
	return nil
}

func (c *Context) uploadTransforms(b *Buffer) {
	minRow, maxRow, ok := b.store.CollectDirtyRange()
	if !ok {
		return
	}
	w := b.store.Width()
	b.transforms.Update(0, minRow, w, maxRow-minRow+1, b.store.Rows(minRow, maxRow))
	Logger().Debug("transform rows uploaded", "buffer", b.id, "from", minRow, "to", maxRow)
}

// UploadVertices drains the pending vertices of buffer id into its vertex
// buffer, replacing what was uploaded before. Nothing happens when no label
// was rasterized since the previous upload.
func (c *Context) UploadVertices(id BufferID) error {
	b, err := c.buffer(id)
	if err != nil {
		return err
	}
	c.uploadVertices(b)
	return nil
}

func (c *Context) uploadVertices(b *Buffer) {
	v := b.quads.Vertices()
	if len(v) == 0 {
		return
	}
	b.vertices.Upload(v)
	b.drawCount = len(v) / glyphs.Stride
	Logger().Debug("vertices uploaded", "buffer", b.id, "vertices", b.drawCount)
}

// UpdateBuffer uploads the dirty transforms and pending vertices of the
// bound buffer.
func (c *Context) UpdateBuffer() error {
	b, err := c.current()
	if err != nil {
		return err
	}
	c.uploadTransforms(b)
	c.uploadVertices(b)
	return nil
}

// Draw issues one draw call per buffer holding uploaded vertices, in buffer
// creation order.
func (c *Context) Draw() {
	proj := c.Projection()
	for _, b := range c.order {
		if b.drawCount == 0 {
			continue
		}
		c.backend.Draw(DrawCall{
			Buffer:        b.id,
			Atlas:         c.atlas,
			Transforms:    b.transforms,
			Vertices:      b.vertices,
			Count:         b.drawCount,
			TransformSize: [2]int{b.store.Width(), b.store.Height()},
			Screen:        [2]float32{c.screen.Width, c.screen.Height},
			Projection:    proj,
			Color:         b.color,
			Style:         c.style,
		})
	}
}
