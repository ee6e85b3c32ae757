package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/labelgl/engine/core"
	"github.com/hubastard/labelgl/engine/glyphs"
	"github.com/hubastard/labelgl/engine/labels"
)

// Backend draws label buffers with OpenGL 3.3 core. It creates the atlas,
// transform textures and vertex buffers the label context asks for, and
// doubles as the core.Renderer clearing the framebuffer.
//
// It needs a current GL context on the calling thread.
type Backend struct {
	plain program
	sdf   program
}

var (
	_ labels.Backend = (*Backend)(nil)
	_ core.Renderer  = (*Backend)(nil)
)

type program struct {
	id uint32

	proj, resolution, tresolution int32
	tex, transforms, color        int32
	outlineColor, sdfParams, mix  int32
}

// New compiles the label shaders. A compile or link failure is returned
// as an error; nothing can be drawn without them.
func New() (*Backend, error) {
	plain, err := newProgram(vertexSource, defaultFragmentSource)
	if err != nil {
		return nil, fmt.Errorf("glbackend: default program: %w", err)
	}
	sdf, err := newProgram(vertexSource, sdfFragmentSource)
	if err != nil {
		gl.DeleteProgram(plain.id)
		return nil, fmt.Errorf("glbackend: sdf program: %w", err)
	}

	labels.Logger().Info("gl backend ready",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)))
	return &Backend{plain: plain, sdf: sdf}, nil
}

func newProgram(vsSrc, fsSrc string) (program, error) {
	id, err := makeProgram(vsSrc, fsSrc)
	if err != nil {
		return program{}, err
	}
	loc := func(name string) int32 {
		return gl.GetUniformLocation(id, gl.Str(name+"\x00"))
	}
	return program{
		id:           id,
		proj:         loc("u_proj"),
		resolution:   loc("u_resolution"),
		tresolution:  loc("u_tresolution"),
		tex:          loc("u_tex"),
		transforms:   loc("u_transforms"),
		color:        loc("u_color"),
		outlineColor: loc("u_outlineColor"),
		sdfParams:    loc("u_sdfParams"),
		mix:          loc("u_mixFactor"),
	}, nil
}

// CreateAtlas allocates a zeroed single channel texture.
func (b *Backend) CreateAtlas(width, height int) (labels.AtlasTexture, error) {
	t, err := newTexture(width, height, gl.R8, gl.RED, gl.LINEAR, 1)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTransformTexture allocates a zeroed RGBA8 texture sampled without
// filtering.
func (b *Backend) CreateTransformTexture(buf labels.BufferID, width, height int) (labels.TransformTexture, error) {
	t, err := newTexture(width, height, gl.RGBA8, gl.RGBA, gl.NEAREST, 4)
	if err != nil {
		return nil, fmt.Errorf("buffer %d: %w", buf, err)
	}
	return transformTexture{t}, nil
}

// CreateVertexBuffer allocates an empty vertex array object and buffer.
func (b *Backend) CreateVertexBuffer(labels.BufferID) (labels.VertexBuffer, error) {
	return newVertexBuffer(), nil
}

// Draw renders one buffer with alpha blending.
func (b *Backend) Draw(call labels.DrawCall) {
	atlas, ok1 := call.Atlas.(*texture)
	transforms, ok2 := call.Transforms.(transformTexture)
	vb, ok3 := call.Vertices.(*vertexBuffer)
	if !ok1 || !ok2 || !ok3 {
		labels.Logger().Warn("draw call with foreign handles skipped", "buffer", call.Buffer)
		return
	}

	p := &b.plain
	if call.Style.SDF {
		p = &b.sdf
	}
	gl.UseProgram(p.id)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, atlas.id)
	gl.Uniform1i(p.tex, 0)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, transforms.id)
	gl.Uniform1i(p.transforms, 1)

	gl.UniformMatrix4fv(p.proj, 1, false, &call.Projection[0])
	gl.Uniform2f(p.resolution, call.Screen[0], call.Screen[1])
	gl.Uniform2i(p.tresolution, int32(call.TransformSize[0]), int32(call.TransformSize[1]))
	c := call.Color
	gl.Uniform4f(p.color, c[0], c[1], c[2], c[3])
	if call.Style.SDF {
		s := call.Style
		o := s.OutlineColor
		gl.Uniform4f(p.outlineColor, o[0], o[1], o[2], o[3])
		gl.Uniform4f(p.sdfParams, s.Outline[0], s.Outline[1], s.Inside[0], s.Inside[1])
		gl.Uniform1f(p.mix, s.MixFactor)
	}

	gl.BindVertexArray(vb.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(call.Count))
	gl.BindVertexArray(0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.UseProgram(0)
}

// Release deletes the shader programs.
func (b *Backend) Release() {
	for _, p := range []*program{&b.plain, &b.sdf} {
		if p.id != 0 {
			gl.DeleteProgram(p.id)
			p.id = 0
		}
	}
}

// core.Renderer

func (b *Backend) Resize(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (b *Backend) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (b *Backend) Shutdown() { b.Release() }

// texture is a 2D texture updated with sub-image writes.
type texture struct {
	id            uint32
	width, height int
	format        uint32
	bytesPerTexel int
}

func newTexture(width, height int, internal int32, format uint32, filter int32, bpt int) (*texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("glbackend: invalid texture size %dx%d", width, height)
	}
	t := &texture{width: width, height: height, format: format, bytesPerTexel: bpt}
	zeros := make([]byte, width*height*bpt)

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(zeros))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

func (t *texture) sub(x, y, w, h int, ptr unsafe.Pointer) {
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(x), int32(y), int32(w), int32(h),
		t.format, gl.UNSIGNED_BYTE, ptr)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Update writes w*h atlas texels starting at (x, y).
func (t *texture) Update(x, y, w, h int, pixels []byte) {
	if w <= 0 || h <= 0 || len(pixels) < w*h*t.bytesPerTexel {
		return
	}
	t.sub(x, y, w, h, gl.Ptr(pixels))
}

func (t *texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// transformTexture adapts texture to word sized texels.
type transformTexture struct{ *texture }

func (t transformTexture) Update(x, y, w, h int, texels []uint32) {
	if w <= 0 || h <= 0 || len(texels) < w*h {
		return
	}
	// words are r | g<<8 | b<<16 | a<<24, which is RGBA byte order on
	// little-endian hosts
	t.sub(x, y, w, h, gl.Ptr(texels))
}

// vertexBuffer holds interleaved x, y, u, v, id floats.
type vertexBuffer struct {
	vao, vbo uint32
}

func newVertexBuffer() *vertexBuffer {
	v := &vertexBuffer{}
	gl.GenVertexArrays(1, &v.vao)
	gl.BindVertexArray(v.vao)
	gl.GenBuffers(1, &v.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)

	const stride = glyphs.Stride * 4 // bytes
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(0)))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(4*4)))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return v
}

func (v *vertexBuffer) Upload(vertices []float32) {
	if len(vertices) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, v.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (v *vertexBuffer) Release() {
	if v.vbo != 0 {
		gl.DeleteBuffers(1, &v.vbo)
		v.vbo = 0
	}
	if v.vao != 0 {
		gl.DeleteVertexArrays(1, &v.vao)
		v.vao = 0
	}
}

// --- Shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader compile error: %s", log)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("program link error: %s", log)
	}
	return prog, nil
}
