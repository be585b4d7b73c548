// Package glbackend implements core.Backend on OpenGL 3.3 core.
package glbackend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/hubastard/vgrove/engine/core"
)

type buffer struct {
	id     uint32
	target uint32
	kind   core.BufferKind
	cap    int
}

func (b *buffer) Capacity() int { return b.cap }

type texture struct {
	id   uint32
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

type pipeline struct {
	program   uint32
	vao       uint32
	layout    core.VertexLayout
	indexType uint32
	indexSize int
	blend     bool
	depth     bool
	cull      bool
	uProj     int32
	uTex      int32
}

// RendererGL is the OpenGL device. All methods must run on the thread that
// owns the context.
type RendererGL struct {
	win  core.Window
	w, h int

	bound *pipeline
}

// NewRendererGL expects the window's context to be current with GL loaded.
func NewRendererGL(win core.Window, _ core.Config) (core.Backend, error) {
	r := &RendererGL{win: win}
	r.w, r.h = win.FramebufferSize()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	return r, nil
}

func (r *RendererGL) Shutdown() {
	if r.bound != nil {
		gl.BindVertexArray(0)
		gl.UseProgram(0)
		r.bound = nil
	}
}

func (r *RendererGL) Resize(w, h int) {
	r.w, r.h = w, h
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Viewport() (int, int) { return r.w, r.h }

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	// Scissor also clips glClear.
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// --- buffers ---

func (r *RendererGL) CreateBuffer(desc core.BufferDesc) (core.Buffer, error) {
	if desc.Capacity <= 0 {
		return nil, fmt.Errorf("gl: invalid buffer capacity %d", desc.Capacity)
	}
	b := &buffer{kind: desc.Kind, cap: desc.Capacity, target: gl.ARRAY_BUFFER}
	if desc.Kind == core.BufferIndex {
		b.target = gl.ELEMENT_ARRAY_BUFFER
	}
	// Element buffers bind to the current VAO; keep it clean.
	gl.BindVertexArray(0)
	r.bound = nil
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(b.target, b.id)
	gl.BufferData(b.target, desc.Capacity, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(b.target, 0)
	if err := glError("create buffer"); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, err
	}
	return b, nil
}

func (r *RendererGL) DestroyBuffer(b core.Buffer) {
	buf := b.(*buffer)
	if buf.id != 0 {
		gl.DeleteBuffers(1, &buf.id)
		buf.id = 0
	}
}

func (r *RendererGL) MapDiscard(b core.Buffer) ([]byte, error) {
	buf := b.(*buffer)
	gl.BindVertexArray(0)
	r.bound = nil
	gl.BindBuffer(buf.target, buf.id)
	ptr := gl.MapBufferRange(buf.target, 0, buf.cap, gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	if ptr == nil {
		gl.BindBuffer(buf.target, 0)
		return nil, errors.Join(fmt.Errorf("gl: map %s buffer failed", buf.kind), glError("map"))
	}
	return unsafeBytes(ptr, buf.cap), nil
}

func (r *RendererGL) Unmap(b core.Buffer) error {
	buf := b.(*buffer)
	gl.BindBuffer(buf.target, buf.id)
	ok := gl.UnmapBuffer(buf.target)
	gl.BindBuffer(buf.target, 0)
	if !ok {
		return fmt.Errorf("gl: %s buffer contents lost during unmap", buf.kind)
	}
	return nil
}

// --- textures ---

func glFilter(f core.Filter) int32 {
	if f == core.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Format != core.TextureRGBA8 {
		return nil, fmt.Errorf("gl: unsupported texture format %d", desc.Format)
	}
	if len(desc.Pixels) != desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("gl: texture pixels %d, want %d", len(desc.Pixels), desc.Width*desc.Height*4)
	}
	t := &texture{w: desc.Width, h: desc.Height}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := glError("create texture"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, err
	}
	return t, nil
}

func (r *RendererGL) DestroyTexture(t core.Texture) {
	tex := t.(*texture)
	if tex.id != 0 {
		gl.DeleteTextures(1, &tex.id)
		tex.id = 0
	}
}

// --- pipelines ---

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(desc.VertexSource, desc.FragmentSource)
	if err != nil {
		return nil, err
	}
	p := &pipeline{
		program:   prog,
		layout:    desc.Layout,
		indexType: gl.UNSIGNED_INT,
		indexSize: 4,
		blend:     desc.Blend,
		depth:     desc.DepthTest,
		cull:      desc.CullFace,
		uProj:     gl.GetUniformLocation(prog, gl.Str("uProjection\x00")),
		uTex:      gl.GetUniformLocation(prog, gl.Str("uTexture\x00")),
	}
	if desc.IndexFormat == core.IndexUint16 {
		p.indexType, p.indexSize = gl.UNSIGNED_SHORT, 2
	}
	gl.GenVertexArrays(1, &p.vao)
	return p, nil
}

func (r *RendererGL) DestroyPipeline(pp core.Pipeline) {
	p := pp.(*pipeline)
	if r.bound == p {
		gl.BindVertexArray(0)
		r.bound = nil
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

func glAttribType(t core.AttribType) uint32 {
	if t == core.AttribUint8 {
		return gl.UNSIGNED_BYTE
	}
	return gl.FLOAT
}

func (r *RendererGL) BindPipeline(pp core.Pipeline, vb, ib core.Buffer, projection [16]float32) {
	p := pp.(*pipeline)
	gl.UseProgram(p.program)
	gl.BindVertexArray(p.vao)

	// Buffers may have been recreated since the last frame; rebuild the
	// attribute bindings every time.
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.(*buffer).id)
	for _, a := range p.layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, int32(a.Size), glAttribType(a.Type), a.Normalized,
			int32(p.layout.Stride), uintptr(a.Offset))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.(*buffer).id)

	setCap(gl.BLEND, p.blend)
	if p.blend {
		gl.BlendEquation(gl.FUNC_ADD)
		gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	}
	setCap(gl.DEPTH_TEST, p.depth)
	setCap(gl.CULL_FACE, p.cull)
	gl.Disable(gl.SCISSOR_TEST)

	gl.UniformMatrix4fv(p.uProj, 1, false, &projection[0])
	gl.Uniform1i(p.uTex, 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.bound = p
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

func (r *RendererGL) BindTexture(t core.Texture) {
	var id uint32
	if t != nil {
		id = t.(*texture).id
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
}

// SetScissor takes a top-left origin rect in pixels.
func (r *RendererGL) SetScissor(rect *core.Rect) {
	if rect == nil {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	x, y := int32(rect.MinX), int32(float32(r.h)-rect.MaxY)
	w, h := int32(max(0, rect.W())), int32(max(0, rect.H()))
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(x, y, w, h)
}

func (r *RendererGL) DrawIndexed(offset, count int) {
	if r.bound == nil || count <= 0 {
		return
	}
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), r.bound.indexType, uintptr(offset*r.bound.indexSize))
}

// --- shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
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
		return 0, fmt.Errorf("gl: shader compile error: %s", strings.TrimRight(log, "\x00"))
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
		return 0, fmt.Errorf("gl: program link error: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl: %s: error 0x%04x", op, code)
	}
	return nil
}
