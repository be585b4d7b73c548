package drawlist

import (
	"unsafe"

	"github.com/hubastard/vgrove/engine/core"
)

// Vertex: pos2 + uv2 + packed RGBA8 color.
type Vertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color uint32
}

const (
	VertexSize = int(unsafe.Sizeof(Vertex{}))
	IndexSize  = int(unsafe.Sizeof(uint32(0)))
)

// Layout describes Vertex to the device.
var Layout = core.VertexLayout{
	Stride: VertexSize,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},                     // pos
		{Location: 1, Size: 2, Type: core.AttribFloat32, Offset: 2 * 4},                 // uv
		{Location: 2, Size: 4, Type: core.AttribUint8, Normalized: true, Offset: 4 * 4}, // color
	},
}

// DrawCmd is a contiguous index range drawn with one texture and clip state.
type DrawCmd struct {
	IndexOffset int
	IndexCount  int
	Texture     core.Texture
	Clip        core.Rect
	Clipped     bool
}

// ClipRect returns the command's scissor rect, or nil when unclipped.
func (c *DrawCmd) ClipRect() *core.Rect {
	if !c.Clipped {
		return nil
	}
	return &c.Clip
}

type Vec2 struct {
	X, Y float32
}

func V2(x, y float32) Vec2 { return Vec2{x, y} }

// Sides selects edges for AddRectBorder.
type Sides uint8

const (
	SideTop Sides = 1 << iota
	SideRight
	SideBottom
	SideLeft

	SidesAll = SideTop | SideRight | SideBottom | SideLeft
)

// SubTexture describes a UV sub-rect of a full texture.
type SubTexture struct {
	Texture core.Texture
	U0, V0  float32 // top-left
	U1, V1  float32 // bottom-right
}

// FromPixels builds a subtexture from pixel coordinates within an atlas.
func FromPixels(tex core.Texture, x, y, w, h int) SubTexture {
	aw, ah := tex.Size()
	return SubTexture{
		Texture: tex,
		U0:      float32(x) / float32(aw),
		V0:      float32(y) / float32(ah),
		U1:      float32(x+w) / float32(aw),
		V1:      float32(y+h) / float32(ah),
	}
}

// FromGrid builds a subtexture from tile grid coordinates (cx,cy) of cell size (cw,ch).
func FromGrid(tex core.Texture, cx, cy, cw, ch int) SubTexture {
	return FromPixels(tex, cx*cw, cy*ch, cw, ch)
}
