package ui

import (
	"github.com/hubastard/vgrove/engine/colors"
	"github.com/hubastard/vgrove/engine/gfx/drawlist"
)

type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

type LayoutDirection int

const (
	LayoutHorizontal LayoutDirection = iota
	LayoutVertical
)

// UIView stacks its children along one axis.
type UIView struct {
	Common[*UIView]
	gap         float32
	mainAlign   Align
	crossAlign  Align
	flow        LayoutDirection
	border      colors.Color
	borderWidth float32
	clip        bool
}

func View(children ...UIElement) *UIView {
	v := &UIView{gap: 10}
	v.Common = newCommon(v)
	v.Children(children...)
	return v
}

func (l *UIView) BgColor(c colors.Color) *UIView                  { l.base.color = c; return l }
func (l *UIView) FlowDirection(direction LayoutDirection) *UIView { l.flow = direction; return l }
func (l *UIView) Gap(g float32) *UIView                           { l.gap = g; return l }
func (l *UIView) AlignMain(a Align) *UIView                       { l.mainAlign = a; return l }
func (l *UIView) AlignCross(a Align) *UIView                      { l.crossAlign = a; return l }

// Border draws an inner border of the given width.
func (l *UIView) Border(c colors.Color, width float32) *UIView {
	l.border, l.borderWidth = c, width
	return l
}

// Clip scissors children to the view's bounds.
func (l *UIView) Clip(on bool) *UIView { l.clip = on; return l }

func (l *UIView) axes() (main, cross int) {
	if l.flow == LayoutVertical {
		return 1, 0
	}
	return 0, 1
}

func (l *UIView) Layout(ctx *Context, c Constraints) LayoutResult {
	b := &l.base
	ma, ca := l.axes()

	var inner Constraints
	for a := 0; a < 2; a++ {
		inner.Max[a] = max(0, unbounded(c.Max[a])-b.padSum(a))
	}

	children := b.children
	sizes := make([][2]float32, len(children))
	var mainSum, maxCross float32
	var expand int
	for i, ch := range children {
		sizes[i] = ch.Layout(ctx, inner).Size
		// Expanding children only get what is left over.
		if ch.Node().mode[ma] == SizeModeExpand {
			sizes[i][ma] = 0
			expand++
		}
		if ch.Node().mode[ca] == SizeModeExpand {
			sizes[i][ca] = 0
		}
		mainSum += sizes[i][ma]
		maxCross = max(maxCross, sizes[i][ca])
	}
	if len(children) > 1 {
		mainSum += l.gap * float32(len(children)-1)
	}

	var outer [2]float32
	outer[ma] = b.resolveAxis(ma, mainSum+b.padSum(ma), c)
	outer[ca] = b.resolveAxis(ca, maxCross+b.padSum(ca), c)
	b.size = outer
	innerMain := max(0, outer[ma]-b.padSum(ma))
	innerCross := max(0, outer[ca]-b.padSum(ca))

	remaining := max(0, innerMain-mainSum)
	if expand > 0 {
		share := remaining / float32(expand)
		for i, ch := range children {
			if ch.Node().mode[ma] == SizeModeExpand {
				sizes[i][ma] += share
			}
		}
		remaining = 0
	}

	cursor := float32(0)
	switch l.mainAlign {
	case AlignCenter:
		cursor = remaining / 2
	case AlignEnd:
		cursor = remaining
	}

	origin := b.innerPosition()
	for i, ch := range children {
		cb := ch.Node()
		sz := sizes[i]
		if l.crossAlign == AlignStretch || cb.mode[ca] == SizeModeExpand {
			sz[ca] = innerCross
		}
		sz[ca] = clamp(sz[ca], 0, innerCross)

		var pos [2]float32
		pos[ma] = origin[ma] + cursor
		pos[ca] = origin[ca]
		switch l.crossAlign {
		case AlignCenter:
			pos[ca] += (innerCross - sz[ca]) / 2
		case AlignEnd:
			pos[ca] += innerCross - sz[ca]
		}
		cb.position, cb.size = pos, sz
		// Re-run with the final placement so nested views position their
		// own children.
		ch.Layout(ctx, Constraints{Min: sz, Max: sz})
		cursor += sz[ma] + l.gap
	}
	return LayoutResult{Size: b.size}
}

// Draw lays out the tree when called on the root and records it.
func (l *UIView) Draw(ctx *Context) {
	b := &l.base
	if b.parent == nil {
		b.SetPos(ctx.Viewport.MinX, ctx.Viewport.MinY)
		l.Layout(ctx, Constraints{Max: [2]float32{ctx.Viewport.W(), ctx.Viewport.H()}})
	}
	dl := ctx.List
	x, y, w, h := b.position[0], b.position[1], b.size[0], b.size[1]
	if b.color.A > 0 {
		dl.AddRectFilled(x, y, w, h, b.color)
	}
	if l.clip {
		dl.PushClipRect(b.Rect())
	}
	for _, ch := range b.children {
		ch.Draw(ctx)
	}
	if l.clip {
		dl.PopClipRect()
	}
	if l.borderWidth > 0 && l.border.A > 0 {
		dl.AddRectBorder(x, y, w, h, l.border, l.borderWidth, drawlist.SidesAll)
	}
}
