package core

// Device is the narrow GPU contract the 2D renderer depends on.
// Implementations are not safe for concurrent use; all calls happen on the
// thread that owns the graphics context.
type Device interface {
	CreateBuffer(desc BufferDesc) (Buffer, error)
	DestroyBuffer(b Buffer)
	// MapDiscard opens a write-only window over the whole buffer. Previous
	// contents are undefined after the call.
	MapDiscard(b Buffer) ([]byte, error)
	Unmap(b Buffer) error

	CreateTexture(desc TextureDesc) (Texture, error)
	DestroyTexture(t Texture)

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	DestroyPipeline(p Pipeline)

	// BindPipeline binds shaders, fixed state, vertex layout and both
	// buffers, and uploads the projection matrix.
	BindPipeline(p Pipeline, vb, ib Buffer, projection [16]float32)
	BindTexture(t Texture)
	// SetScissor enables the scissor test for r, or disables it when r is nil.
	SetScissor(r *Rect)
	// DrawIndexed draws count indices starting at index offset.
	DrawIndexed(offset, count int)

	// Viewport reports the current render target size in pixels.
	Viewport() (w, h int)
}

type BufferKind int

const (
	BufferVertex BufferKind = iota
	BufferIndex
)

func (k BufferKind) String() string {
	switch k {
	case BufferVertex:
		return "vertex"
	case BufferIndex:
		return "index"
	default:
		return "unknown"
	}
}

type BufferUsage int

const (
	UsageDynamic BufferUsage = iota
	UsageImmutable
)

type BufferDesc struct {
	Kind     BufferKind
	Usage    BufferUsage
	Capacity int // bytes
}

// Buffer is an opaque device buffer handle.
type Buffer interface {
	Capacity() int
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // tightly packed rows, top-left origin
	MinFilter     Filter
	MagFilter     Filter
}

// Texture is an opaque, comparable texture handle.
type Texture interface {
	Size() (w, h int)
}

type AttribType int

const (
	AttribFloat32 AttribType = iota
	AttribUint8
)

type VertexAttrib struct {
	Location   uint32
	Size       int
	Type       AttribType
	Normalized bool
	Offset     int
}

type VertexLayout struct {
	Stride     int
	Attributes []VertexAttrib
}

type IndexFormat int

const (
	IndexUint32 IndexFormat = iota
	IndexUint16
)

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	Layout         VertexLayout
	IndexFormat    IndexFormat
	Blend          bool // standard alpha-over
	DepthTest      bool
	CullFace       bool
}

// Pipeline is an opaque compiled shader + fixed state object.
type Pipeline interface{}

// Rect is an axis-aligned rectangle in pixels, Min inclusive, Max exclusive.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

func (r Rect) W() float32 { return r.MaxX - r.MinX }
func (r Rect) H() float32 { return r.MaxY - r.MinY }

// Intersect returns the overlap of r and o (empty rects have zero size).
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
	if out.MaxX < out.MinX {
		out.MaxX = out.MinX
	}
	if out.MaxY < out.MinY {
		out.MaxY = out.MinY
	}
	return out
}
