package labels

// Hooks lets the caller keep ownership of GPU resources. Nil hooks are
// skipped.
type Hooks struct {
	CreateAtlasTexture     func(width, height int)
	UpdateAtlasRegion      func(x, y, width, height int, pixels []byte)
	CreateTransformTexture func(buf BufferID, width, height int)
	UpdateTransformRegion  func(buf BufferID, x, y, width, height int, texels []uint32)
	UploadVertices         func(buf BufferID, vertices []float32)
	DeleteBuffer           func(buf BufferID)
	Draw                   func(call DrawCall)
}

// NewHookBackend returns a Backend that forwards to h.
func NewHookBackend(h Hooks) Backend {
	return &hookBackend{h: h}
}

type hookBackend struct{ h Hooks }

func (b *hookBackend) CreateAtlas(width, height int) (AtlasTexture, error) {
	if b.h.CreateAtlasTexture != nil {
		b.h.CreateAtlasTexture(width, height)
	}
	return hookAtlas{b.h.UpdateAtlasRegion}, nil
}

func (b *hookBackend) CreateTransformTexture(buf BufferID, width, height int) (TransformTexture, error) {
	if b.h.CreateTransformTexture != nil {
		b.h.CreateTransformTexture(buf, width, height)
	}
	return hookTransforms{buf: buf, update: b.h.UpdateTransformRegion}, nil
}

func (b *hookBackend) CreateVertexBuffer(buf BufferID) (VertexBuffer, error) {
	return hookVertices{buf: buf, upload: b.h.UploadVertices, release: b.h.DeleteBuffer}, nil
}

func (b *hookBackend) Draw(call DrawCall) {
	if b.h.Draw != nil {
		b.h.Draw(call)
	}
}

func (b *hookBackend) Release() {}

type hookAtlas struct {
	update func(x, y, width, height int, pixels []byte)
}

func (a hookAtlas) Update(x, y, width, height int, pixels []byte) {
	if a.update != nil {
		a.update(x, y, width, height, pixels)
	}
}

func (hookAtlas) Release() {}

type hookTransforms struct {
	buf    BufferID
	update func(buf BufferID, x, y, width, height int, texels []uint32)
}

func (t hookTransforms) Update(x, y, width, height int, texels []uint32) {
	if t.update != nil {
		t.update(t.buf, x, y, width, height, texels)
	}
}

func (hookTransforms) Release() {}

type hookVertices struct {
	buf     BufferID
	upload  func(buf BufferID, vertices []float32)
	release func(buf BufferID)
}

func (v hookVertices) Upload(vertices []float32) {
	if v.upload != nil {
		v.upload(v.buf, vertices)
	}
}

func (v hookVertices) Release() {
	if v.release != nil {
		v.release(v.buf)
	}
}
