// Package ui lays out retained trees of views and labels and records them
// into a draw list. It only draws; there is no hit testing or focus.
package ui

import (
	"math"

	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/core"
	"github.com/hubastard/vgrove/engine/gfx/drawlist"
	"github.com/hubastard/vgrove/engine/text"
)

type SizeMode int

const (
	SizeModeFit SizeMode = iota
	SizeModeFixed
	SizeModeExpand
)

// Constraints bound a child's size. A zero Max means unbounded.
type Constraints struct {
	Min [2]float32
	Max [2]float32
}

type LayoutResult struct {
	Size [2]float32
}

type Context struct {
	Viewport    core.Rect
	DefaultFont *text.Font
	List        *drawlist.DrawList
}

type UIElement interface {
	Node() *Base
	Layout(ctx *Context, constraints Constraints) LayoutResult
	Draw(ctx *Context)
}

// Base holds the layout state shared by every element. Axis 0 is X.
type Base struct {
	parent   UIElement
	children []UIElement
	position [2]float32
	size     [2]float32
	color    colors.Color
	mode     [2]SizeMode
	fixed    [2]float32
	padding  [4]float32 // left, top, right, bottom
}

func (b *Base) Parent() UIElement     { return b.parent }
func (b *Base) Children() []UIElement { return b.children }
func (b *Base) Pos() (x, y float32)   { return b.position[0], b.position[1] }
func (b *Base) Size() (w, h float32)  { return b.size[0], b.size[1] }
func (b *Base) SetPos(x, y float32)   { b.position = [2]float32{x, y} }
func (b *Base) SetSize(w, h float32)  { b.size = [2]float32{w, h} }
func (b *Base) Padding() [4]float32   { return b.padding }

// Rect returns the element's bounds after layout.
func (b *Base) Rect() core.Rect {
	return core.Rect{
		MinX: b.position[0], MinY: b.position[1],
		MaxX: b.position[0] + b.size[0], MaxY: b.position[1] + b.size[1],
	}
}

// padSum is the padding along one axis.
func (b *Base) padSum(axis int) float32 { return b.padding[axis] + b.padding[axis+2] }

func (b *Base) innerPosition() [2]float32 {
	return [2]float32{b.position[0] + b.padding[0], b.position[1] + b.padding[1]}
}

// resolveAxis picks the outer size along axis for a content size.
func (b *Base) resolveAxis(axis int, content float32, c Constraints) float32 {
	hi := unbounded(c.Max[axis])
	switch b.mode[axis] {
	case SizeModeFixed:
		if b.fixed[axis] > 0 {
			return clamp(b.fixed[axis], c.Min[axis], hi)
		}
	case SizeModeExpand:
		if hi != math.MaxFloat32 {
			return max(hi, c.Min[axis])
		}
	}
	return clamp(content, c.Min[axis], hi)
}

func unbounded(v float32) float32 {
	if v <= 0 {
		return math.MaxFloat32
	}
	return v
}

func clamp(v, lo, hi float32) float32 { return min(max(v, lo), hi) }

// Common provides the fluent setters shared by all elements. T is the
// concrete element so chains keep their type.
type Common[T any] struct {
	owner T
	base  Base
}

func newCommon[T any](owner T) Common[T] { return Common[T]{owner: owner} }

func (c *Common[T]) Node() *Base              { return &c.base }
func (c *Common[T]) Position(x, y float32) T  { c.base.SetPos(x, y); return c.owner }
func (c *Common[T]) Color(col colors.Color) T { c.base.color = col; return c.owner }

func (c *Common[T]) WidthFit() T { c.base.mode[0] = SizeModeFit; return c.owner }
func (c *Common[T]) WidthFixed(w float32) T {
	c.base.mode[0], c.base.fixed[0] = SizeModeFixed, w
	return c.owner
}
func (c *Common[T]) WidthExpand() T { c.base.mode[0] = SizeModeExpand; return c.owner }

func (c *Common[T]) HeightFit() T { c.base.mode[1] = SizeModeFit; return c.owner }
func (c *Common[T]) HeightFixed(h float32) T {
	c.base.mode[1], c.base.fixed[1] = SizeModeFixed, h
	return c.owner
}
func (c *Common[T]) HeightExpand() T { c.base.mode[1] = SizeModeExpand; return c.owner }

func (c *Common[T]) Padding(all float32) T {
	c.base.padding = [4]float32{all, all, all, all}
	return c.owner
}

func (c *Common[T]) Padding2(horizontal, vertical float32) T {
	c.base.padding = [4]float32{horizontal, vertical, horizontal, vertical}
	return c.owner
}

func (c *Common[T]) Padding4(left, top, right, bottom float32) T {
	c.base.padding = [4]float32{left, top, right, bottom}
	return c.owner
}

// Children appends kids and makes this element their parent.
func (c *Common[T]) Children(kids ...UIElement) T {
	c.base.children = append(c.base.children, kids...)
	for _, k := range kids {
		k.Node().parent = any(c.owner).(UIElement)
	}
	return c.owner
}
