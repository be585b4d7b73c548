package drawlist

import (
	"github.com/hubastard/vgrove/engine/arena"
	"github.com/hubastard/vgrove/engine/core"
)

const (
	DefaultCircleSegments = 32

	initialVertices = 4096
	initialIndices  = 8192
	initialCommands = 64
)

// DrawList records one frame of tessellated geometry.
//
// Commands partition the index arena in draw order. A primitive extends the
// last command when its (texture, clip) matches, otherwise it starts a new
// one; nothing is ever reordered, so overlapping translucent primitives
// composite in the order they were recorded.
//
// A DrawList is not safe for concurrent use.
type DrawList struct {
	// CircleSegments is used when a circle call passes segments <= 0.
	CircleSegments int

	vtx  *arena.Arena[Vertex]
	idx  *arena.Arena[uint32]
	cmds *arena.Arena[DrawCmd]

	clips []core.Rect
	white core.Texture

	// per-call scratch
	path    *arena.Arena[Vec2]
	normals *arena.Arena[Vec2]
}

// New returns an empty list that substitutes white for nil textures.
func New(white core.Texture) *DrawList {
	return &DrawList{
		CircleSegments: DefaultCircleSegments,
		vtx:            arena.New[Vertex](initialVertices),
		idx:            arena.New[uint32](initialIndices),
		cmds:           arena.New[DrawCmd](initialCommands),
		clips:          make([]core.Rect, 0, 8),
		white:          white,
		path:           arena.New[Vec2](64),
		normals:        arena.New[Vec2](64),
	}
}

// SetWhiteTexture replaces the fallback texture for nil texture arguments.
func (dl *DrawList) SetWhiteTexture(t core.Texture) { dl.white = t }

// WhiteTexture returns the fallback texture.
func (dl *DrawList) WhiteTexture() core.Texture { return dl.white }

// Clear resets the list for a new frame, keeping capacity.
func (dl *DrawList) Clear() {
	dl.vtx.Clear()
	dl.idx.Clear()
	dl.cmds.Clear()
	dl.clips = dl.clips[:0]
}

func (dl *DrawList) Vertices() []Vertex  { return dl.vtx.Slice() }
func (dl *DrawList) Indices() []uint32   { return dl.idx.Slice() }
func (dl *DrawList) Commands() []DrawCmd { return dl.cmds.Slice() }
func (dl *DrawList) VertexCount() int    { return dl.vtx.Len() }
func (dl *DrawList) IndexCount() int     { return dl.idx.Len() }
func (dl *DrawList) CommandCount() int   { return dl.cmds.Len() }

// PushClipRect restricts subsequent primitives to r intersected with the
// current clip.
func (dl *DrawList) PushClipRect(r core.Rect) {
	if cur, ok := dl.CurrentClip(); ok {
		r = r.Intersect(cur)
	}
	dl.clips = append(dl.clips, r)
}

// PopClipRect restores the previous clip. Popping an empty stack is ignored.
func (dl *DrawList) PopClipRect() {
	if len(dl.clips) > 0 {
		dl.clips = dl.clips[:len(dl.clips)-1]
	}
}

// CurrentClip returns the effective clip rect, if any.
func (dl *DrawList) CurrentClip() (core.Rect, bool) {
	if len(dl.clips) == 0 {
		return core.Rect{}, false
	}
	return dl.clips[len(dl.clips)-1], true
}

// ClipDepth returns the number of pushed clip rects.
func (dl *DrawList) ClipDepth() int { return len(dl.clips) }

// ensureDrawCmd returns the command the next primitive must extend.
func (dl *DrawList) ensureDrawCmd(tex core.Texture) *DrawCmd {
	if tex == nil {
		tex = dl.white
	}
	clip, clipped := dl.CurrentClip()
	if last := dl.cmds.Last(); last != nil &&
		last.Texture == tex && last.Clipped == clipped && (!clipped || last.Clip == clip) {
		return last
	}
	dl.cmds.Push(DrawCmd{
		IndexOffset: dl.idx.Len(),
		Texture:     tex,
		Clip:        clip,
		Clipped:     clipped,
	})
	return dl.cmds.Last()
}

// reserve appends nv vertices and ni indices under tex and returns them
// for writing along with the absolute index of the first new vertex.
func (dl *DrawList) reserve(tex core.Texture, nv, ni int) ([]Vertex, []uint32, uint32) {
	cmd := dl.ensureDrawCmd(tex)
	cmd.IndexCount += ni
	base := uint32(dl.vtx.Len())
	return dl.vtx.Alloc(nv), dl.idx.Alloc(ni), base
}
